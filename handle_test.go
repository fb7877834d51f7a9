package gofat12_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFile_ReadsFullContents(t *testing.T) {
	vol := buildSimpleVolume(t)

	h, err := vol.OpenFile("hello.txt")
	require.NoError(t, err)
	defer h.Close()

	data, err := io.ReadAll(h)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestOpenFile_SeekAndReadChar(t *testing.T) {
	vol := buildSimpleVolume(t)

	h, err := vol.OpenFile("hello.txt")
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Seek(6, io.SeekStart)
	require.NoError(t, err)

	c, err := h.ReadChar()
	require.NoError(t, err)
	require.Equal(t, byte('w'), c)
}

func TestOpenFile_OnDirectoryFails(t *testing.T) {
	vol := buildSimpleVolume(t)

	_, err := vol.OpenFile("sub")
	require.Error(t, err)
}

func TestOpenDirectory_NestedFile(t *testing.T) {
	vol := buildSimpleVolume(t)

	h, err := vol.OpenDirectory("sub")
	require.NoError(t, err)

	entries, err := h.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "nested.txt", entries[0].Name)
}

func TestHandle_ReadDirectoryIteratesOneNameAtATime(t *testing.T) {
	vol := buildSimpleVolume(t)

	h, err := vol.OpenDirectory("")
	require.NoError(t, err)

	var names []string
	for {
		name, err := h.ReadDirectory()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, name)
	}
	require.Equal(t, []string{"hello.txt", "sub"}, names)

	// Exhausted iterator keeps returning io.EOF rather than resuming.
	_, err = h.ReadDirectory()
	require.ErrorIs(t, err, io.EOF)
}

func TestHandle_ClosedRejectsReads(t *testing.T) {
	vol := buildSimpleVolume(t)

	h, err := vol.OpenFile("hello.txt")
	require.NoError(t, err)
	require.NoError(t, h.Close())

	buf := make([]byte, 1)
	_, err = h.Read(buf)
	require.Error(t, err)
}
