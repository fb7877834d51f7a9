// Package diskfixture synthesizes minimal FAT12 disk images entirely in
// memory, for use by tests that would otherwise need a real disk image file
// on disk.
package diskfixture

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

const (
	BytesPerSector    = 512
	SectorsPerCluster = 1
	ReservedSectors   = 1
	NumFATs           = 2
	RootEntryCount    = 16
	TotalSectors      = 40
	SectorsPerFAT     = 2
)

// Builder assembles an in-memory FAT12 image one region at a time. Zero
// value is not usable; use New.
type Builder struct {
	t   *testing.T
	buf []byte

	fatOffset  int
	fatSize    int
	rootOffset int
	dataOffset int
}

// New allocates a blank image of TotalSectors sectors and writes a boot
// sector describing a tiny, otherwise-empty FAT12 volume.
func New(t *testing.T) *Builder {
	b := &Builder{t: t, buf: make([]byte, TotalSectors*BytesPerSector)}

	b.fatOffset = ReservedSectors * BytesPerSector
	b.fatSize = SectorsPerFAT * BytesPerSector
	rootDirSectors := (RootEntryCount*32 + BytesPerSector - 1) / BytesPerSector
	b.rootOffset = b.fatOffset + NumFATs*b.fatSize
	b.dataOffset = b.rootOffset + rootDirSectors*BytesPerSector

	binary.LittleEndian.PutUint16(b.buf[11:13], BytesPerSector)
	b.buf[13] = SectorsPerCluster
	binary.LittleEndian.PutUint16(b.buf[14:16], ReservedSectors)
	b.buf[16] = NumFATs
	binary.LittleEndian.PutUint16(b.buf[17:19], RootEntryCount)
	binary.LittleEndian.PutUint16(b.buf[19:21], TotalSectors)
	b.buf[21] = 0xF0
	binary.LittleEndian.PutUint16(b.buf[22:24], SectorsPerFAT)
	copy(b.buf[43:54], "FIXTURE    ")
	copy(b.buf[54:62], "FAT12   ")

	// FAT media descriptor byte plus the two reserved entries (clusters 0
	// and 1), mirrored into both FAT copies.
	for copyIdx := 0; copyIdx < NumFATs; copyIdx++ {
		off := b.fatOffset + copyIdx*b.fatSize
		b.buf[off] = 0xF0
		b.buf[off+1] = 0xFF
		b.buf[off+2] = 0xFF
	}

	return b
}

// SetFATEntry writes a raw 12-bit value into cluster index idx of the first
// FAT copy only; the second copy is not updated.
func (b *Builder) SetFATEntry(idx int, value uint16) {
	b.setFATEntryAt(b.fatOffset, idx, value)
}

// CorruptSecondFATCopy scribbles garbage into the second FAT copy without
// touching the first, for tests of the loader's best-effort redundant-copy
// handling.
func (b *Builder) CorruptSecondFATCopy() {
	off := b.fatOffset + b.fatSize
	for i := range b.buf[off : off+b.fatSize] {
		b.buf[off+i] = 0xAA
	}
}

func (b *Builder) setFATEntryAt(base int, idx int, value uint16) {
	offset := base + idx + idx/2
	require.LessOrEqual(b.t, offset+1, base+b.fatSize-1, "FAT entry out of range")

	existing := uint16(b.buf[offset]) | uint16(b.buf[offset+1])<<8
	var word uint16
	if idx%2 == 1 {
		word = (existing & 0x000F) | (value << 4)
	} else {
		word = (existing & 0xF000) | (value & 0x0FFF)
	}
	b.buf[offset] = byte(word)
	b.buf[offset+1] = byte(word >> 8)
}

// AddRootEntry writes a single 32-byte directory entry into the given slot
// of the root directory.
func (b *Builder) AddRootEntry(slot int, name, ext string, attrs uint8, firstCluster uint16, size uint32) {
	offset := b.rootOffset + slot*32
	entry := b.buf[offset : offset+32]

	copy(entry[0:8], padTo(name, 8))
	copy(entry[8:11], padTo(ext, 3))
	entry[11] = attrs
	binary.LittleEndian.PutUint16(entry[26:28], firstCluster)
	binary.LittleEndian.PutUint32(entry[28:32], size)
}

// WriteCluster writes data into the given data cluster (cluster numbering
// starts at 2), truncating or zero-padding to exactly one cluster's worth of
// bytes.
func (b *Builder) WriteCluster(clusterID int, data []byte) {
	clusterSize := SectorsPerCluster * BytesPerSector
	offset := b.dataOffset + (clusterID-2)*clusterSize
	require.LessOrEqual(b.t, offset+clusterSize, len(b.buf), "cluster out of range")

	n := copy(b.buf[offset:offset+clusterSize], data)
	for i := n; i < clusterSize; i++ {
		b.buf[offset+i] = 0
	}
}

// Truncate drops the image to n bytes, for tests exercising short-read
// handling.
func (b *Builder) Truncate(n int) {
	b.buf = b.buf[:n]
}

// Bytes returns the raw image bytes built so far.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// ReaderAt wraps the built image as an io.ReaderAt.
func (b *Builder) ReaderAt() (io.ReaderAt, int64) {
	return bytesextra.NewReadWriteSeeker(b.buf), int64(len(b.buf))
}

func padTo(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}
