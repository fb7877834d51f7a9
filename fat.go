package gofat12

import (
	"fmt"

	bitmap "github.com/boljen/go-bitmap"

	"github.com/arnewolf/gofat12/errors"
)

// ClusterID identifies a cluster in the data region. Cluster numbering
// starts at 2; 0 and 1 are never valid data clusters.
type ClusterID uint32

// ClusterClass is the classification of a raw 12-bit FAT entry value.
type ClusterClass int

const (
	ClusterFree ClusterClass = iota
	ClusterUsed
	ClusterReserved
	ClusterBad
	ClusterTerminal
)

func (c ClusterClass) String() string {
	switch c {
	case ClusterFree:
		return "free"
	case ClusterUsed:
		return "used"
	case ClusterReserved:
		return "reserved"
	case ClusterBad:
		return "bad"
	case ClusterTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// ClassifyCluster classifies a raw 12-bit FAT entry value per the FAT12
// standard.
func ClassifyCluster(value uint16) ClusterClass {
	switch {
	case value == 0x000:
		return ClusterFree
	case value >= 0x002 && value <= 0xFEF:
		return ClusterUsed
	case value >= 0xFF0 && value <= 0xFF6:
		return ClusterReserved
	case value == 0xFF7:
		return ClusterBad
	default: // value >= 0xFF8, and also the unassigned value 0x001
		return ClusterTerminal
	}
}

// NextCluster reads the packed 12-bit FAT entry for the given cluster index
// and returns its raw value. The FAT is interpreted as a little-endian byte
// array: two 12-bit entries packed into three bytes. If idx is odd, the
// entry occupies the high 12 bits of the 16-bit word at the computed offset;
// if even, the low 12 bits.
func (v *Volume) NextCluster(idx ClusterID) (uint16, error) {
	offset := int(idx) + int(idx)/2
	if offset+1 >= len(v.fatBytes) {
		return 0, errors.ErrBadChain.WithMessage(
			fmt.Sprintf("cluster index %d is out of range of the FAT", idx))
	}

	word := uint16(v.fatBytes[offset]) | uint16(v.fatBytes[offset+1])<<8
	if idx%2 == 1 {
		return word >> 4, nil
	}
	return word & 0x0FFF, nil
}

// ClusterChain walks the FAT starting at start and returns every cluster
// visited, in order, ending with the cluster whose FAT entry is terminal
// (the terminal value itself is not a cluster and is not returned). It fails
// immediately if a bad cluster is encountered.
//
// As a defensive measure against corrupted images whose chain loops back on
// itself, the walk tracks visited clusters in a bitmap sized to the volume's
// total cluster count and fails rather than looping forever if a cluster is
// revisited.
func (v *Volume) ClusterChain(start ClusterID) ([]ClusterID, error) {
	if start < 2 {
		return nil, errors.ErrBadChain.WithMessage(
			fmt.Sprintf("cluster %d cannot start a chain: clusters 0 and 1 are reserved", start))
	}

	visited := bitmap.Bitmap(bitmap.NewSlice(int(v.BootSector.TotalClusters) + 2))
	chain := []ClusterID{}

	current := start
	for {
		idx := int(current)
		if idx < 0 || idx >= len(visited)*8 {
			return nil, errors.ErrBadChain.WithMessage(
				fmt.Sprintf("cluster %d lies outside the volume's cluster range", current))
		}
		if visited.Get(idx) {
			return nil, errors.ErrFileSystemCorrupted.WithMessage(
				fmt.Sprintf("cluster chain starting at %d revisits cluster %d", start, current))
		}
		visited.Set(idx, true)

		raw, err := v.NextCluster(current)
		if err != nil {
			return nil, err
		}

		class := ClassifyCluster(raw)
		switch class {
		case ClusterTerminal:
			chain = append(chain, current)
			return chain, nil
		case ClusterBad:
			return nil, errors.ErrBadChain.WithMessage(
				fmt.Sprintf("cluster %d is marked bad", current))
		case ClusterFree, ClusterReserved:
			return nil, errors.ErrFileSystemCorrupted.WithMessage(
				fmt.Sprintf("cluster %d in chain from %d is %s, expected used or terminal", current, start, class))
		}

		chain = append(chain, current)
		current = ClusterID(raw)
	}
}

// SpaceInfo summarizes how many clusters fall into each classification, for
// the spaceinfo command.
type SpaceInfo struct {
	Free      int
	Used      int
	Reserved  int
	Bad       int
	Terminal  int
	ClusterSz uint
}

// ClassCounts walks every FAT entry the FAT region can actually hold —
// (fat_size_sectors * bytes_per_sector / 3) * 2 entries, starting at index 0
// — rather than stopping at total_clusters. The FAT always has slack beyond
// the clusters the data region can address, and entries 0 and 1 (the media
// descriptor and end-of-chain marker reserved slots) are included in the
// tally too, matching the full-FAT scan a spaceinfo report is expected to
// foot against (used+free+bad+terminal+reserved == entry count).
func (v *Volume) ClassCounts() (SpaceInfo, error) {
	var info SpaceInfo
	info.ClusterSz = v.BootSector.BytesPerCluster

	fatBytes := v.BootSector.FATSizeSectors * v.BootSector.BytesPerSector
	entryCount := (fatBytes / 3) * 2
	for i := uint(0); i < entryCount; i++ {
		id := ClusterID(i)
		raw, err := v.NextCluster(id)
		if err != nil {
			return info, err
		}
		switch ClassifyCluster(raw) {
		case ClusterFree:
			info.Free++
		case ClusterUsed:
			info.Used++
		case ClusterReserved:
			info.Reserved++
		case ClusterBad:
			info.Bad++
		case ClusterTerminal:
			info.Terminal++
		}
	}
	return info, nil
}
