package gofat12_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnewolf/gofat12"
	"github.com/arnewolf/gofat12/internal/diskfixture"
)

func TestClassifyCluster(t *testing.T) {
	cases := []struct {
		value    uint16
		expected gofat12.ClusterClass
	}{
		{0x000, gofat12.ClusterFree},
		{0x002, gofat12.ClusterUsed},
		{0xFEF, gofat12.ClusterUsed},
		{0xFF0, gofat12.ClusterReserved},
		{0xFF6, gofat12.ClusterReserved},
		{0xFF7, gofat12.ClusterBad},
		{0xFF8, gofat12.ClusterTerminal},
		{0xFFF, gofat12.ClusterTerminal},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, gofat12.ClassifyCluster(c.value), "value 0x%03X", c.value)
	}
}

func TestClusterChain_MultiClusterFile(t *testing.T) {
	b := diskfixture.New(t)
	b.WriteCluster(2, []byte("AAAA"))
	b.WriteCluster(3, []byte("BBBB"))
	b.SetFATEntry(2, 3)
	b.SetFATEntry(3, 0xFFF)
	b.AddRootEntry(0, "TWOCLUST", "TXT", 0, 2, 8)

	r, size := b.ReaderAt()
	vol, err := gofat12.LoadVolumeFromReaderAt(r, size)
	require.NoError(t, err)

	h, err := vol.OpenFile("twoclust.txt")
	require.NoError(t, err)
	data := make([]byte, 8)
	n, err := h.Read(data)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, "AAAABBBB", string(data))
}

func TestClusterChain_DetectsCycle(t *testing.T) {
	b := diskfixture.New(t)
	b.WriteCluster(2, []byte("AAAA"))
	b.WriteCluster(3, []byte("BBBB"))
	b.SetFATEntry(2, 3)
	b.SetFATEntry(3, 2) // cycle back to 2 instead of terminating
	b.AddRootEntry(0, "LOOP", "TXT", 0, 2, 8)

	r, size := b.ReaderAt()
	vol, err := gofat12.LoadVolumeFromReaderAt(r, size)
	require.NoError(t, err)

	_, err = vol.ClusterChain(2)
	require.Error(t, err)
}

func TestClusterChain_RejectsBadCluster(t *testing.T) {
	b := diskfixture.New(t)
	b.WriteCluster(2, []byte("AAAA"))
	b.SetFATEntry(2, 0xFF7) // bad cluster marker
	b.AddRootEntry(0, "BAD", "TXT", 0, 2, 4)

	r, size := b.ReaderAt()
	vol, err := gofat12.LoadVolumeFromReaderAt(r, size)
	require.NoError(t, err)

	_, err = vol.ClusterChain(2)
	require.Error(t, err)
}

func TestClusterChain_RejectsReservedStartCluster(t *testing.T) {
	vol := buildSimpleVolume(t)

	_, err := vol.ClusterChain(1)
	require.Error(t, err)
}
