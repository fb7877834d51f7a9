package gofat12_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectoryEntry_NameReconstruction(t *testing.T) {
	vol := buildSimpleVolume(t)
	root := vol.RootDirectory()
	require.Equal(t, "hello.txt", root[0].Name)
	require.Equal(t, "sub", root[1].Name) // no extension, no trailing dot
}

func TestDirectoryEntry_IsDirectory(t *testing.T) {
	vol := buildSimpleVolume(t)
	root := vol.RootDirectory()
	require.False(t, root[0].IsDirectory())
	require.True(t, root[1].IsDirectory())
}

func TestDirectoryEntry_IsLastTerminatesIteration(t *testing.T) {
	vol := buildSimpleVolume(t)
	root := vol.RootDirectory()

	sawLast := false
	for i := range root {
		if root[i].IsLast() {
			sawLast = true
			break
		}
	}
	require.True(t, sawLast, "fixture's root directory must have an unused tail entry")
}
