// Package gofat12 implements a read-only decoder and traversal engine for
// FAT12 disk images: boot-sector parsing, the packed 12-bit FAT, directory
// entry interpretation, cluster-chain walking, and path resolution over a
// history-aware working-directory stack.
package gofat12

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/arnewolf/gofat12/errors"
)

// BootSectorSize is the fixed size, in bytes, of the first sector of a FAT
// volume.
const BootSectorSize = 512

// rawBootSector is the on-disk layout of the portion of the boot sector
// common to all FAT versions, followed by the FAT12/16 extended BIOS
// Parameter Block. FAT32's extended BPB has a different shape and is out of
// scope.
type rawBootSector struct {
	JmpBoot           [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	Media             uint8
	SectorsPerFAT16   uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32

	DriveNumber     uint8
	NTReserved      uint8
	ExBootSignature uint8
	VolumeID        uint32
	VolumeLabel     [11]byte
	FileSystemType  [8]byte
}

// BootSector is the decoded boot sector of a FAT12 volume: the raw BPB fields
// plus the geometry values derived from them.
type BootSector struct {
	OEMName           string
	BytesPerSector    uint
	SectorsPerCluster uint
	ReservedSectors   uint
	FATCount          uint
	MaxRootEntries    uint
	TotalSectors      uint
	FATSizeSectors    uint
	VolumeLabel       string
	FileSystemType    string
	VolumeID          uint32

	BytesPerCluster   uint
	RootDirSectors    uint
	TotalFATSectors   uint
	FirstRootSector   uint
	FirstDataSector   uint
	TotalDataSectors  uint
	TotalClusters     uint
	DirentsPerCluster uint
}

// determineFATVersion classifies a volume by its total cluster count, per
// Microsoft's FAT documentation (v1.03, page 14) — this is the only correct
// way to distinguish FAT12 from FAT16/32, not the volume label or any other
// cosmetic field.
func determineFATVersion(totalClusters uint) int {
	if totalClusters < 4085 {
		return 12
	}
	if totalClusters < 65525 {
		return 16
	}
	return 32
}

// ParseBootSector reads the first BootSectorSize bytes of reader and decodes
// them into a BootSector. Every independently checkable geometry invariant is
// validated before returning, and every violation found is reported together
// via a multierror rather than stopping at the first one.
func ParseBootSector(reader io.Reader) (*BootSector, error) {
	var sector [BootSectorSize]byte
	if _, err := io.ReadFull(reader, sector[:]); err != nil {
		return nil, errors.ErrImageIO.WrapError(err)
	}

	var raw rawBootSector
	if err := binary.Read(bytes.NewReader(sector[:]), binary.LittleEndian, &raw); err != nil {
		return nil, errors.ErrImageIO.WrapError(err)
	}

	// This is an OR-substitution, not a max(): the 32-bit field only means
	// anything when the 16-bit field is zero.
	var totalSectors uint
	if raw.TotalSectors16 != 0 {
		totalSectors = uint(raw.TotalSectors16)
	} else {
		totalSectors = uint(raw.TotalSectors32)
	}

	fatSizeSectors := uint(raw.SectorsPerFAT16)
	rootDirSectors := uint(0)
	if raw.BytesPerSector != 0 {
		rootDirSectors = uint((uint32(raw.RootEntryCount)*32 + uint32(raw.BytesPerSector) - 1) / uint32(raw.BytesPerSector))
	}

	totalFATSectors := uint(raw.NumFATs) * fatSizeSectors
	firstRootSector := uint(raw.ReservedSectors) + totalFATSectors
	firstDataSector := firstRootSector + rootDirSectors

	var totalDataSectors uint
	if totalSectors > firstDataSector {
		totalDataSectors = totalSectors - firstDataSector
	}

	bytesPerCluster := uint(raw.BytesPerSector) * uint(raw.SectorsPerCluster)

	var totalClusters uint
	if raw.SectorsPerCluster != 0 {
		totalClusters = totalDataSectors / uint(raw.SectorsPerCluster)
	}

	var direntsPerCluster uint
	if bytesPerCluster != 0 {
		direntsPerCluster = bytesPerCluster / DirentSize
	}

	boot := &BootSector{
		OEMName:           cStringTrim(raw.OEMName[:]),
		BytesPerSector:    uint(raw.BytesPerSector),
		SectorsPerCluster: uint(raw.SectorsPerCluster),
		ReservedSectors:   uint(raw.ReservedSectors),
		FATCount:          uint(raw.NumFATs),
		MaxRootEntries:    uint(raw.RootEntryCount),
		TotalSectors:      totalSectors,
		FATSizeSectors:    fatSizeSectors,
		VolumeLabel:       cStringTrim(raw.VolumeLabel[:]),
		FileSystemType:    cStringTrim(raw.FileSystemType[:]),
		VolumeID:          raw.VolumeID,
		BytesPerCluster:   bytesPerCluster,
		RootDirSectors:    rootDirSectors,
		TotalFATSectors:   totalFATSectors,
		FirstRootSector:   firstRootSector,
		FirstDataSector:   firstDataSector,
		TotalDataSectors:  totalDataSectors,
		TotalClusters:     totalClusters,
		DirentsPerCluster: direntsPerCluster,
	}

	if err := boot.validateGeometry(); err != nil {
		return nil, err
	}

	return boot, nil
}

// validateGeometry runs every independently checkable invariant over a
// decoded BootSector and aggregates all violations found into a single
// error, so a caller debugging a corrupted or non-FAT12 image sees every
// problem at once instead of fixing them one at a time.
func (b *BootSector) validateGeometry() error {
	var result *multierror.Error

	switch b.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		result = multierror.Append(result, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("bytes per sector must be 512, 1024, 2048, or 4096, got %d", b.BytesPerSector)))
	}

	switch b.SectorsPerCluster {
	case 1, 2, 4, 8, 16, 32, 64, 128:
	default:
		result = multierror.Append(result, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("sectors per cluster must be a power of 2 in [1, 128], got %d", b.SectorsPerCluster)))
	}

	if b.BytesPerCluster > 32768 {
		result = multierror.Append(result, errors.ErrFileSystemCorrupted.WithMessage(
			fmt.Sprintf("bytes per cluster cannot exceed 32768, got %d", b.BytesPerCluster)))
	}

	if b.FATCount == 0 {
		result = multierror.Append(result, errors.ErrFileSystemCorrupted.WithMessage("FAT count must be nonzero"))
	}

	if result != nil {
		// Defer FAT-version classification until the geometry that feeds it
		// is sane; a zero SectorsPerCluster would make determineFATVersion's input
		// meaningless.
		return result.ErrorOrNil()
	}

	version := determineFATVersion(b.TotalClusters)
	if version != 12 {
		result = multierror.Append(result, errors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("image is FAT%d, not FAT12 (%d total clusters)", version, b.TotalClusters)))
	}

	return result.ErrorOrNil()
}

func cStringTrim(b []byte) string {
	i := len(b)
	for i > 0 && (b[i-1] == ' ' || b[i-1] == 0) {
		i--
	}
	return string(b[:i])
}
