// Package shell implements the interactive command loop that sits on top of
// a loaded gofat12.Volume: dir, cd, pwd, cat, get, zip, rootinfo, spaceinfo,
// fileinfo, tree, help, and exit.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/arnewolf/gofat12"
)

// Shell reads commands from in and writes responses to out, dispatching
// each against a single loaded Volume.
type Shell struct {
	vol *gofat12.Volume
	out io.Writer
	in  *bufio.Scanner
}

// New builds a Shell over an already-loaded volume.
func New(vol *gofat12.Volume, in io.Reader, out io.Writer) *Shell {
	return &Shell{vol: vol, out: out, in: bufio.NewScanner(in)}
}

// Run reads and dispatches commands until the input is exhausted or an
// "exit" command is seen.
func (s *Shell) Run() error {
	for {
		fmt.Fprintf(s.out, "%s> ", s.vol.PresentWorkingDirectory())
		if !s.in.Scan() {
			return s.in.Err()
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}

		done, err := s.dispatch(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", err)
		}
		if done {
			return nil
		}
	}
}

func (s *Shell) dispatch(line string) (exit bool, err error) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "exit":
		return true, nil

	case "help":
		fmt.Fprint(s.out, helpText)

	case "pwd":
		fmt.Fprintln(s.out, s.vol.PresentWorkingDirectory())

	case "dir":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return false, s.cmdDir(path)

	case "cd":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: cd <dir>")
		}
		return false, s.cmdCd(args[0])

	case "cat":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: cat <file>")
		}
		return false, s.cmdCat(args[0])

	case "get":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: get <file>")
		}
		return false, s.cmdGet(args[0])

	case "zip":
		if len(args) != 3 {
			return false, fmt.Errorf("usage: zip <f1> <f2> <out>")
		}
		return false, s.cmdZip(args[0], args[1], args[2])

	case "rootinfo":
		fmt.Fprint(s.out, formatRootInfo(s.vol.BootSector))

	case "spaceinfo":
		return false, s.cmdSpaceInfo()

	case "fileinfo":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: fileinfo <name>")
		}
		return false, s.cmdFileInfo(args[0])

	case "tree":
		return false, s.cmdTree()

	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}

	return false, nil
}

func (s *Shell) cmdDir(path string) error {
	h, err := s.vol.OpenDirectory(path)
	if err != nil {
		slog.Warn("dir failed", "path", path, "error", err)
		return err
	}
	entries, err := h.Entries()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, formatDirListing(entries))
	return nil
}

func (s *Shell) cmdCd(path string) error {
	if err := s.vol.ChangeDirectory(path); err != nil {
		slog.Warn("cd failed", "path", path, "error", err)
		return err
	}
	slog.Info("changed directory", "path", s.vol.PresentWorkingDirectory())
	return nil
}

func (s *Shell) cmdCat(path string) error {
	h, err := s.vol.OpenFile(path)
	if err != nil {
		slog.Warn("cat failed", "path", path, "error", err)
		return err
	}
	defer h.Close()

	if _, err := io.Copy(s.out, h); err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) cmdGet(path string) error {
	h, err := s.vol.OpenFile(path)
	if err != nil {
		slog.Warn("get failed", "path", path, "error", err)
		return err
	}
	defer h.Close()

	name := h.Entry().Name
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := io.Copy(out, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %d bytes to %s\n", n, name)
	return nil
}

// cmdZip interleaves the lines of two files into a third, reproducing the
// teacher-era "zip" terminology for a line-interleaved concatenation — it
// is explicitly not an archive format.
func (s *Shell) cmdZip(first, second, outName string) error {
	a, err := s.vol.OpenFile(first)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := s.vol.OpenFile(second)
	if err != nil {
		return err
	}
	defer b.Close()

	out, err := os.Create(outName)
	if err != nil {
		return err
	}
	defer out.Close()

	scanA := bufio.NewScanner(a)
	scanB := bufio.NewScanner(b)
	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		aMore := scanA.Scan()
		if aMore {
			fmt.Fprintln(w, scanA.Text())
		}
		bMore := scanB.Scan()
		if bMore {
			fmt.Fprintln(w, scanB.Text())
		}
		if !aMore && !bMore {
			break
		}
	}

	fmt.Fprintf(s.out, "interleaved %s and %s into %s\n", first, second, outName)
	return nil
}

func (s *Shell) cmdSpaceInfo() error {
	info, err := s.vol.ClassCounts()
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, formatSpaceInfo(info))
	return nil
}

func (s *Shell) cmdFileInfo(name string) error {
	resolved, err := s.vol.Resolve(name, true)
	if err != nil {
		slog.Warn("fileinfo failed", "name", name, "error", err)
		return err
	}
	if resolved.Entry == nil {
		fmt.Fprintln(s.out, "name:       / (root)")
		return nil
	}
	fmt.Fprint(s.out, formatFileInfo(resolved.Entry))
	return nil
}

func (s *Shell) cmdTree() error {
	h, err := s.vol.OpenDirectory("")
	if err != nil {
		return err
	}
	entries, err := h.Entries()
	if err != nil {
		return err
	}
	return s.treeWalk(entries, "")
}

func (s *Shell) treeWalk(entries []gofat12.DirectoryEntry, prefix string) error {
	for i := range entries {
		e := &entries[i]
		if e.Name == "." || e.Name == ".." {
			continue
		}
		fmt.Fprintf(s.out, "%s%s\n", prefix, e.Name)
		if !e.IsDirectory() {
			continue
		}

		sub, err := s.vol.ReadDirectory(e.FirstCluster)
		if err != nil {
			slog.Warn("tree: could not read subdirectory", "name", e.Name, "error", err)
			continue
		}

		var visible []gofat12.DirectoryEntry
		for j := range sub {
			if sub[j].IsLast() {
				break
			}
			if sub[j].IsSkippable() || sub[j].IsVolumeLabel() {
				continue
			}
			visible = append(visible, sub[j])
		}

		if err := s.treeWalk(visible, prefix+"  "); err != nil {
			return err
		}
	}
	return nil
}
