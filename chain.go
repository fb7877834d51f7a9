package gofat12

import (
	"fmt"

	"github.com/noxer/bytewriter"

	"github.com/arnewolf/gofat12/errors"
)

// clusterOffset returns the byte offset of cluster id within the data
// region, relative to the first data sector.
func (v *Volume) clusterOffset(id ClusterID) (int64, error) {
	if id < 2 {
		return 0, errors.ErrBadChain.WithMessage(
			fmt.Sprintf("cluster %d is reserved, not a valid data cluster", id))
	}
	return int64(id-2) * int64(v.BootSector.BytesPerCluster), nil
}

// ContentsOf returns the byte contents addressed by entry: its cluster chain
// is walked and each cluster's bytes are copied in order. For a directory
// the result is every cluster of the chain in full. For a file the result
// length is min(entry.FileSize, sum of cluster sizes in the chain) — a chain
// shorter than file_size declares is not treated as corruption here, only
// as a shorter read, matching a real FAT driver's tolerance for a
// conservative file_size field. A zero-length file returns an empty slice
// without touching the FAT. entry must not be nil: the root directory has
// no cluster chain and is not read through this function.
func (v *Volume) ContentsOf(entry *DirectoryEntry) ([]byte, error) {
	isDir := entry.IsDirectory()
	if !isDir && entry.FileSize == 0 {
		return []byte{}, nil
	}

	chain, err := v.ClusterChain(entry.FirstCluster)
	if err != nil {
		return nil, err
	}

	clusterSize := int64(v.BootSector.BytesPerCluster)
	chainBytes := int64(len(chain)) * clusterSize

	outLen := chainBytes
	if !isDir && int64(entry.FileSize) < outLen {
		outLen = int64(entry.FileSize)
	}

	buf := make([]byte, outLen)
	bw := bytewriter.New(buf)

	remaining := outLen
	for _, id := range chain {
		if remaining <= 0 {
			break
		}

		offset, err := v.clusterOffset(id)
		if err != nil {
			return nil, err
		}
		if offset < 0 || offset+clusterSize > int64(len(v.data)) {
			return nil, errors.ErrBadChain.WithMessage(
				fmt.Sprintf("cluster %d lies outside the data region", id))
		}

		n := clusterSize
		if remaining < n {
			n = remaining
		}

		if _, err := bw.Write(v.data[offset : offset+n]); err != nil {
			return nil, errors.ErrImageIO.WrapError(err)
		}
		remaining -= n
	}

	return buf, nil
}

// ReadDirectoryCluster returns the raw bytes of a single cluster, decoded as
// a run of directory entries — used when walking a subdirectory's own
// cluster chain (the root directory is a fixed-size array and never goes
// through this path).
func (v *Volume) ReadDirectoryCluster(id ClusterID) ([]DirectoryEntry, error) {
	offset, err := v.clusterOffset(id)
	if err != nil {
		return nil, err
	}
	clusterSize := int64(v.BootSector.BytesPerCluster)
	if offset < 0 || offset+clusterSize > int64(len(v.data)) {
		return nil, errors.ErrBadChain.WithMessage(
			fmt.Sprintf("cluster %d lies outside the data region", id))
	}

	raw := v.data[offset : offset+clusterSize]
	count := int(clusterSize) / DirentSize
	entries := make([]DirectoryEntry, count)
	for i := 0; i < count; i++ {
		entries[i] = decodeDirectoryEntry(raw[i*DirentSize : (i+1)*DirentSize])
	}
	return entries, nil
}

// ReadDirectory returns every directory entry reachable from a directory's
// entry point: the chain is walked cluster by cluster, decoding directory
// entries from each, and stops as soon as the sentinel entry (IsLast) is
// seen so trailing garbage in a partially-filled cluster is never returned.
func (v *Volume) ReadDirectory(firstCluster ClusterID) ([]DirectoryEntry, error) {
	chain, err := v.ClusterChain(firstCluster)
	if err != nil {
		return nil, err
	}

	var all []DirectoryEntry
	for _, id := range chain {
		entries, err := v.ReadDirectoryCluster(id)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			if entries[i].IsLast() {
				return all, nil
			}
			all = append(all, entries[i])
		}
	}
	return all, nil
}
