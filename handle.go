package gofat12

import (
	"io"

	"github.com/arnewolf/gofat12/errors"
)

// HandleKind distinguishes a file handle from a directory handle.
type HandleKind int

const (
	HandleFile HandleKind = iota
	HandleDirectory
)

// Handle is an open reference to a file or directory, supporting sequential
// and random-access reads. A Handle is single-use: once Close is called,
// Read, ReadChar, Seek, ReadDirectory and Entries fail with ErrHandleClosed
// (Entry still returns the entry, and Close may be called again).
type Handle struct {
	volume *Volume
	entry  *DirectoryEntry // nil when the handle refers to the root directory
	kind   HandleKind

	contents []byte // file contents, or unused for directories
	cursor   int64

	dirEntries []DirectoryEntry
	dirCursor  int

	closed bool
}

// OpenFile resolves path and opens it for reading. The working-directory
// stack is left untouched regardless of outcome.
func (v *Volume) OpenFile(path string) (*Handle, error) {
	resolved, err := v.Resolve(path, true)
	if err != nil {
		return nil, err
	}
	if resolved.Entry == nil || resolved.IsDir {
		return nil, errors.ErrIsADirectory.WithMessage(path)
	}

	contents, err := v.ContentsOf(resolved.Entry)
	if err != nil {
		return nil, err
	}

	return &Handle{
		volume:   v,
		entry:    resolved.Entry,
		kind:     HandleFile,
		contents: contents,
	}, nil
}

// OpenDirectory resolves path and opens it for listing. "" and "." both mean
// the current working directory.
func (v *Volume) OpenDirectory(path string) (*Handle, error) {
	var resolved *ResolvedPath
	var err error

	if path == "" || path == "." {
		entries, ferr := v.currentEntries(v.workingDir)
		if ferr != nil {
			return nil, ferr
		}
		top := v.workingDir[len(v.workingDir)-1]
		return &Handle{volume: v, entry: top, kind: HandleDirectory, dirEntries: entries}, nil
	}

	resolved, err = v.Resolve(path, true)
	if err != nil {
		return nil, err
	}
	if !resolved.IsDir {
		return nil, errors.ErrNotADirectory.WithMessage(path)
	}

	var entries []DirectoryEntry
	if resolved.Entry == nil {
		entries = v.root
	} else {
		entries, err = v.ReadDirectory(resolved.Entry.FirstCluster)
		if err != nil {
			return nil, err
		}
	}

	return &Handle{volume: v, entry: resolved.Entry, kind: HandleDirectory, dirEntries: entries}, nil
}

// Read implements io.Reader over a file handle's contents.
func (h *Handle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, errors.ErrHandleClosed
	}
	if h.kind != HandleFile {
		return 0, errors.ErrIsADirectory
	}
	if h.cursor >= int64(len(h.contents)) {
		return 0, io.EOF
	}
	n := copy(p, h.contents[h.cursor:])
	h.cursor += int64(n)
	return n, nil
}

// ReadChar reads a single byte and advances the cursor by one.
func (h *Handle) ReadChar() (byte, error) {
	var buf [1]byte
	n, err := h.Read(buf[:])
	if n == 0 {
		return 0, err
	}
	return buf[0], nil
}

// Seek implements io.Seeker over a file handle's contents, clamping the
// result to [0, size] rather than erroring or overshooting: a negative
// result clamps to 0, and a result past the end clamps to the content
// length, matching the original seek/seek-current clamp behavior.
func (h *Handle) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, errors.ErrHandleClosed
	}
	if h.kind != HandleFile {
		return 0, errors.ErrIsADirectory
	}

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = h.cursor + offset
	case io.SeekEnd:
		newOffset = int64(len(h.contents)) + offset
	default:
		return 0, errors.ErrInvalidArgument.WithMessage("unknown whence value")
	}

	size := int64(len(h.contents))
	switch {
	case newOffset < 0:
		newOffset = 0
	case newOffset > size:
		newOffset = size
	}
	h.cursor = newOffset
	return newOffset, nil
}

// ReadDirectory returns the next non-skippable entry's reconstructed
// filename, advancing the handle's own directory-iteration cursor, and
// returns io.EOF once exhausted (matching the original's read_directory
// contract). Unlike the original, this cursor lives on the handle instead
// of behind a shared static variable, so iterating two handles over two
// directories at once cannot corrupt either one's position.
func (h *Handle) ReadDirectory() (string, error) {
	if h.closed {
		return "", errors.ErrHandleClosed
	}
	if h.kind != HandleDirectory {
		return "", errors.ErrNotADirectory
	}

	for h.dirCursor < len(h.dirEntries) {
		e := &h.dirEntries[h.dirCursor]
		if e.IsLast() {
			h.dirCursor = len(h.dirEntries)
			return "", io.EOF
		}
		h.dirCursor++
		if e.IsSkippable() || e.IsVolumeLabel() {
			continue
		}
		return e.Name, nil
	}
	return "", io.EOF
}

// Entries returns every non-skippable entry of a directory handle, in
// on-disk order, without touching the ReadDirectory iteration cursor — an
// ambient convenience for commands (dir, tree) that need more than a bare
// filename at once.
func (h *Handle) Entries() ([]DirectoryEntry, error) {
	if h.closed {
		return nil, errors.ErrHandleClosed
	}
	if h.kind != HandleDirectory {
		return nil, errors.ErrNotADirectory
	}

	var visible []DirectoryEntry
	for i := range h.dirEntries {
		e := &h.dirEntries[i]
		if e.IsLast() {
			break
		}
		if e.IsSkippable() || e.IsVolumeLabel() {
			continue
		}
		visible = append(visible, *e)
	}
	return visible, nil
}

// Entry returns the directory entry this handle was opened from, or nil if
// it is the root directory.
func (h *Handle) Entry() *DirectoryEntry {
	return h.entry
}

// Close marks the handle unusable. FAT12 images are read-only here, so
// Close never flushes anything; it exists so callers can use Handle
// wherever an io.Closer is expected.
func (h *Handle) Close() error {
	h.closed = true
	return nil
}
