package gofat12

import (
	"fmt"
	"strings"

	"github.com/arnewolf/gofat12/errors"
)

// ResolvedPath is the result of walking a path against the working-directory
// stack: either root (Entry == nil) or a located directory entry, tagged
// with whether it is a directory.
type ResolvedPath struct {
	Entry *DirectoryEntry
	IsDir bool
}

// currentEntries lists the entries of whatever directory top of stack points
// to: the root directory array if the stack holds only the root sentinel,
// or the subdirectory's own cluster chain otherwise.
func (v *Volume) currentEntries(stack []*DirectoryEntry) ([]DirectoryEntry, error) {
	top := stack[len(stack)-1]
	if top == nil {
		return v.root, nil
	}
	return v.ReadDirectory(top.FirstCluster)
}

// lookupChild finds name within entries, case-insensitively, skipping
// deleted/hidden/long-name slots. A requested name beginning with "." is
// never looked up and always reports not found, and dot-prefixed entries
// are never matched; "." and ".." are handled by the caller before lookup.
func lookupChild(entries []DirectoryEntry, name string) (*DirectoryEntry, error) {
	if strings.HasPrefix(name, ".") {
		return nil, errors.ErrPathNotFound.WithMessage(
			fmt.Sprintf("%q not found: names beginning with \".\" are not looked up", name))
	}
	lowerName := strings.ToLower(name)

	for i := range entries {
		e := &entries[i]
		if e.IsLast() {
			break
		}
		if e.IsSkippable() || e.IsVolumeLabel() {
			continue
		}
		if strings.HasPrefix(e.Name, ".") {
			continue
		}
		if strings.ToLower(e.Name) == lowerName {
			return e, nil
		}
	}
	return nil, errors.ErrPathNotFound.WithMessage(fmt.Sprintf("%q not found", name))
}

// splitPath breaks a path into its slash-delimited components, reporting
// whether the path is absolute (leading "/").
func splitPath(path string) (components []string, absolute bool) {
	path = strings.TrimSpace(path)
	absolute = strings.HasPrefix(path, "/")
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." {
			continue
		}
		components = append(components, part)
	}
	return
}

// walk resolves components against a scratch copy of stack (never mutating
// the caller's stack in place) and returns the resulting stack plus whether
// the final component is a directory.
func (v *Volume) walk(stack []*DirectoryEntry, components []string) ([]*DirectoryEntry, bool, error) {
	scratch := append([]*DirectoryEntry{}, stack...)
	isDir := true

	for i, comp := range components {
		if len(scratch) > MaxDepth {
			return nil, false, errors.ErrDepthExceeded.WithMessage(
				fmt.Sprintf("path exceeds maximum depth of %d", MaxDepth))
		}

		if comp == ".." {
			if len(scratch) > 1 {
				scratch = scratch[:len(scratch)-1]
			}
			isDir = true
			continue
		}

		if !isDir {
			return nil, false, errors.ErrNotADirectory.WithMessage(
				fmt.Sprintf("%q is not a directory", components[i-1]))
		}

		entries, err := v.currentEntries(scratch)
		if err != nil {
			return nil, false, err
		}

		entry, err := lookupChild(entries, comp)
		if err != nil {
			return nil, false, err
		}

		scratch = append(scratch, entry)
		isDir = entry.IsDirectory()
	}

	return scratch, isDir, nil
}

// Resolve walks path (absolute or relative to the current working
// directory) and returns what it names. When preserveState is true, the
// working-directory stack is left exactly as it was — this is the path
// used by commands (cat, get, dir <path>, fileinfo) that inspect a location
// without changing the shell's notion of "here". When false, the stack is
// updated to the directory that contains the final component: a final file
// is never pushed, and a final directory is popped back off so the stack
// does not descend past it. ChangeDirectory, not Resolve, is what moves the
// stack into a target directory.
func (v *Volume) Resolve(path string, preserveState bool) (*ResolvedPath, error) {
	components, absolute := splitPath(path)

	base := v.workingDir
	if absolute {
		base = []*DirectoryEntry{nil}
	}

	result, isDir, err := v.walk(base, components)
	if err != nil {
		return nil, err
	}

	if !preserveState {
		stack := result
		if n := len(components); n > 0 && components[n-1] != ".." {
			stack = result[:len(result)-1]
		}
		v.workingDir = stack
	}

	top := result[len(result)-1]
	return &ResolvedPath{Entry: top, IsDir: isDir}, nil
}

// ChangeDirectory moves the working-directory stack to path, failing
// (leaving the stack untouched) if path does not name a directory.
func (v *Volume) ChangeDirectory(path string) error {
	components, absolute := splitPath(path)

	base := v.workingDir
	if absolute {
		base = []*DirectoryEntry{nil}
	}

	result, isDir, err := v.walk(base, components)
	if err != nil {
		return err
	}
	if !isDir {
		return errors.ErrNotADirectory.WithMessage(fmt.Sprintf("%q is not a directory", path))
	}

	v.workingDir = result
	return nil
}

// PresentWorkingDirectory renders the current working-directory stack as a
// slash-separated path rooted at "/".
func (v *Volume) PresentWorkingDirectory() string {
	if len(v.workingDir) == 1 {
		return "/"
	}
	parts := make([]string, 0, len(v.workingDir)-1)
	for _, e := range v.workingDir[1:] {
		parts = append(parts, e.Name)
	}
	return "/" + strings.Join(parts, "/") + "/"
}

// BackupState snapshots the working-directory stack so it can be restored
// later via RestoreState. Resolve and ChangeDirectory do not call it; they
// work on a scratch copy of the stack instead.
func (v *Volume) BackupState() {
	v.backup = append([]*DirectoryEntry{}, v.workingDir...)
}

// RestoreState resets the working-directory stack to whatever was last
// captured by BackupState.
func (v *Volume) RestoreState() {
	if v.backup != nil {
		v.workingDir = append([]*DirectoryEntry{}, v.backup...)
	}
}
