package gofat12_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnewolf/gofat12"
	"github.com/arnewolf/gofat12/internal/diskfixture"
)

// buildSimpleVolume constructs a fixture image with one file ("hello.txt",
// one cluster) and one subdirectory ("sub", one cluster) containing a
// second file ("nested.txt").
func buildSimpleVolume(t *testing.T) *gofat12.Volume {
	b := diskfixture.New(t)

	// Cluster 2: hello.txt contents.
	b.WriteCluster(2, []byte("hello world"))
	b.SetFATEntry(2, 0xFFF) // terminal

	// Cluster 3: "sub" directory contents: one entry for nested.txt
	// pointing at cluster 4, plus the sentinel terminator.
	subDir := make([]byte, 32*2)
	copy(subDir[0:8], "NESTED  ")
	copy(subDir[8:11], "TXT")
	subDir[11] = 0x00
	subDir[26] = 4 // first cluster low byte
	subDir[28] = 5 // file size low byte = 5
	b.WriteCluster(3, subDir)
	b.SetFATEntry(3, 0xFFF)

	// Cluster 4: nested.txt contents.
	b.WriteCluster(4, []byte("abcde"))
	b.SetFATEntry(4, 0xFFF)

	b.AddRootEntry(0, "HELLO", "TXT", 0, 2, uint32(len("hello world")))
	b.AddRootEntry(1, "SUB", "", gofat12.AttrDirectory, 3, 0)

	r, size := b.ReaderAt()
	vol, err := gofat12.LoadVolumeFromReaderAt(r, size)
	require.NoError(t, err)
	return vol
}

func TestLoadVolumeFromReaderAt_RootDirectory(t *testing.T) {
	vol := buildSimpleVolume(t)

	root := vol.RootDirectory()
	require.GreaterOrEqual(t, len(root), 2)
	require.Equal(t, "hello.txt", root[0].Name)
	require.Equal(t, "sub", root[1].Name)
	require.True(t, root[1].IsDirectory())
}

func TestLoadVolumeFromReaderAt_TooShort(t *testing.T) {
	_, err := gofat12.LoadVolumeFromReaderAt(nil, 10)
	require.Error(t, err)
}

func TestClassCounts(t *testing.T) {
	vol := buildSimpleVolume(t)

	info, err := vol.ClassCounts()
	require.NoError(t, err)
	// Clusters 2, 3, 4 are each single-cluster chains, plus FAT index 1 itself
	// carries the reserved 0xFFF end-of-chain marker the full-FAT scan now
	// includes (index 0 is the reserved media-descriptor slot, classified as
	// reserved rather than terminal).
	require.Equal(t, 4, info.Terminal)
	require.Equal(t, 1, info.Reserved)

	fatBytes := uint(diskfixture.SectorsPerFAT) * uint(diskfixture.BytesPerSector)
	entryCount := (fatBytes / 3) * 2
	require.Equal(t, int(entryCount), info.Free+info.Used+info.Reserved+info.Bad+info.Terminal)
}
