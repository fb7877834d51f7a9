package gofat12

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/arnewolf/gofat12/errors"
)

// MaxDepth bounds how far the working-directory stack may descend.
const MaxDepth = 100

// Volume is the in-memory representation of a fully-loaded FAT12 disk image:
// the decoded boot sector, the first FAT copy, the root directory array, the
// data region, and the working-directory stack used by the path resolver.
//
// A Volume is not safe for concurrent use; the system is single-threaded and
// strictly synchronous by design (no FAT12 image needs more than one
// in-flight reader, and introducing locking here would only hide bugs a
// caller should catch by not sharing a Volume across goroutines).
type Volume struct {
	BootSector *BootSector

	fatBytes []byte
	root     []DirectoryEntry
	data     []byte

	// workingDir is the stack of directory entries from root ([root, d1,
	// ..., dk]); nil entries represent root itself (index 0 is always nil).
	workingDir []*DirectoryEntry
	backup     []*DirectoryEntry
}

// LoadVolume opens the file at path and loads it as a FAT12 volume.
func LoadVolume(path string) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ErrImageIO.WrapError(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.ErrImageIO.WrapError(err)
	}

	return LoadVolumeFromReaderAt(f, info.Size())
}

// LoadVolumeFromReaderAt loads a FAT12 volume from an in-memory or otherwise
// random-access source, given its total size in bytes. This is the entry
// point used by tests and by callers that already hold image bytes rather
// than a file path.
func LoadVolumeFromReaderAt(r io.ReaderAt, size int64) (*Volume, error) {
	if size < BootSectorSize {
		return nil, errors.ErrImageIO.WithMessage(
			fmt.Sprintf("image is only %d bytes, too short for a boot sector", size))
	}

	sr := io.NewSectionReader(r, 0, size)
	boot, err := ParseBootSector(sr)
	if err != nil {
		return nil, err
	}

	declaredSize := int64(boot.TotalSectors) * int64(boot.BytesPerSector)
	if declaredSize > size {
		return nil, errors.ErrImageIO.WithMessage(
			fmt.Sprintf("image declares %d total sectors (%d bytes) but the file is only %d bytes",
				boot.TotalSectors, declaredSize, size))
	}

	v := &Volume{BootSector: boot}

	if err := v.loadFATCopies(r); err != nil {
		return nil, err
	}
	if err := v.loadRootDirectory(r); err != nil {
		return nil, err
	}
	if err := v.loadDataRegion(r); err != nil {
		return nil, err
	}

	// Root is represented as a nil entry at stack index 0.
	v.workingDir = []*DirectoryEntry{nil}

	slog.Info("loaded FAT12 volume",
		"bytesPerSector", boot.BytesPerSector,
		"sectorsPerCluster", boot.SectorsPerCluster,
		"totalClusters", boot.TotalClusters,
		"fatCount", boot.FATCount,
		"label", boot.VolumeLabel)

	return v, nil
}

// loadFATCopies reads fat_count consecutive FAT copies and retains only the
// first; the rest are read past and discarded. Any read error on a
// redundant copy is a best-effort diagnostic, aggregated and logged as a
// single warning rather than failing the load outright — only the first
// FAT copy needs to be intact.
func (v *Volume) loadFATCopies(r io.ReaderAt) error {
	fatBytesLen := int64(v.BootSector.FATSizeSectors) * int64(v.BootSector.BytesPerSector)
	if fatBytesLen <= 0 {
		return errors.ErrFileSystemCorrupted.WithMessage("FAT size is zero")
	}

	firstFATOffset := int64(v.BootSector.ReservedSectors) * int64(v.BootSector.BytesPerSector)

	first := make([]byte, fatBytesLen)
	if _, err := readFullAt(r, first, firstFATOffset); err != nil {
		return errors.ErrImageIO.WrapError(err)
	}
	v.fatBytes = first

	var redundantErrs *multierror.Error
	scratch := make([]byte, fatBytesLen)
	for i := uint(1); i < v.BootSector.FATCount; i++ {
		offset := firstFATOffset + int64(i)*fatBytesLen
		if _, err := readFullAt(r, scratch, offset); err != nil {
			redundantErrs = multierror.Append(redundantErrs, fmt.Errorf("FAT copy %d: %w", i+1, err))
		}
	}
	if redundantErrs != nil {
		slog.Warn("could not read every redundant FAT copy", "error", redundantErrs.ErrorOrNil())
	}

	return nil
}

// loadRootDirectory reads max_root_entries * 32 bytes immediately following
// the last FAT copy and decodes them into the root directory array.
func (v *Volume) loadRootDirectory(r io.ReaderAt) error {
	offset := int64(v.BootSector.FirstRootSector) * int64(v.BootSector.BytesPerSector)
	length := int64(v.BootSector.MaxRootEntries) * DirentSize

	buf := make([]byte, length)
	if _, err := readFullAt(r, buf, offset); err != nil {
		return errors.ErrImageIO.WrapError(err)
	}

	entries := make([]DirectoryEntry, v.BootSector.MaxRootEntries)
	for i := range entries {
		entries[i] = decodeDirectoryEntry(buf[i*DirentSize : (i+1)*DirentSize])
	}
	v.root = entries
	return nil
}

// loadDataRegion reads every remaining sector into the data region buffer.
func (v *Volume) loadDataRegion(r io.ReaderAt) error {
	offset := int64(v.BootSector.FirstDataSector) * int64(v.BootSector.BytesPerSector)
	length := int64(v.BootSector.TotalDataSectors) * int64(v.BootSector.BytesPerSector)
	if length < 0 {
		return errors.ErrFileSystemCorrupted.WithMessage("computed data region has negative length")
	}

	buf := make([]byte, length)
	if _, err := readFullAt(r, buf, offset); err != nil {
		return errors.ErrImageIO.WrapError(err)
	}
	v.data = buf
	return nil
}

func readFullAt(r io.ReaderAt, buf []byte, offset int64) (int, error) {
	n, err := r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return n, err
	}
	if n < len(buf) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

// RootDirectory returns the decoded root-directory entries, in on-disk
// order, without filtering skippable or terminal entries.
func (v *Volume) RootDirectory() []DirectoryEntry {
	return v.root
}
