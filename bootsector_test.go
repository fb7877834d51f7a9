package gofat12_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnewolf/gofat12"
	"github.com/arnewolf/gofat12/internal/diskfixture"
)

func TestParseBootSector_Valid(t *testing.T) {
	b := diskfixture.New(t)
	raw := b.Bytes()[:gofat12.BootSectorSize]

	boot, err := gofat12.ParseBootSector(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, uint(512), boot.BytesPerSector)
	require.Equal(t, uint(1), boot.SectorsPerCluster)
	require.Equal(t, uint(2), boot.FATCount)
	require.Equal(t, "FIXTURE", boot.VolumeLabel)
	require.Less(t, boot.TotalClusters, uint(4085)) // must classify as FAT12
}

func TestParseBootSector_RejectsBadBytesPerSector(t *testing.T) {
	b := diskfixture.New(t)
	raw := append([]byte{}, b.Bytes()[:gofat12.BootSectorSize]...)
	raw[11] = 0x01
	raw[12] = 0x00 // bytes_per_sector = 1, not a valid enum value

	_, err := gofat12.ParseBootSector(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestParseBootSector_TooShort(t *testing.T) {
	_, err := gofat12.ParseBootSector(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)
}

func TestDetermineFATVersion(t *testing.T) {
	// Exercised indirectly through ParseBootSector's FAT12 rejection path;
	// a volume with too many clusters to be FAT12 must fail validation.
	b := diskfixture.New(t)
	raw := append([]byte{}, b.Bytes()[:gofat12.BootSectorSize]...)
	// Inflate total_sectors enormously while keeping sectors_per_cluster=1
	// so total_clusters leaves FAT12 territory (65529 clusters, which
	// classifies as FAT32).
	raw[19] = 0
	raw[20] = 0 // total_sectors_16 = 0, forcing the 32-bit field to be read
	raw[32] = 0xFF
	raw[33] = 0xFF
	raw[34] = 0x00
	raw[35] = 0x00 // total_sectors_32 = 0xFFFF

	_, err := gofat12.ParseBootSector(bytes.NewReader(raw))
	require.Error(t, err)
}
