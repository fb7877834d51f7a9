package gofat12_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_PreservesStateOnSuccess(t *testing.T) {
	vol := buildSimpleVolume(t)

	before := vol.PresentWorkingDirectory()
	resolved, err := vol.Resolve("sub/nested.txt", true)
	require.NoError(t, err)
	require.NotNil(t, resolved.Entry)
	require.Equal(t, "nested.txt", resolved.Entry.Name)
	require.Equal(t, before, vol.PresentWorkingDirectory())
}

func TestResolve_PreservesStateOnFailure(t *testing.T) {
	vol := buildSimpleVolume(t)

	before := vol.PresentWorkingDirectory()
	_, err := vol.Resolve("sub/does-not-exist.txt", false)
	require.Error(t, err)
	require.Equal(t, before, vol.PresentWorkingDirectory())
}

func TestChangeDirectory_RejectsFile(t *testing.T) {
	vol := buildSimpleVolume(t)

	err := vol.ChangeDirectory("hello.txt")
	require.Error(t, err)
	require.Equal(t, "/", vol.PresentWorkingDirectory())
}

func TestChangeDirectory_IntoAndBackOut(t *testing.T) {
	vol := buildSimpleVolume(t)

	require.NoError(t, vol.ChangeDirectory("sub"))
	require.Equal(t, "/sub/", vol.PresentWorkingDirectory())

	require.NoError(t, vol.ChangeDirectory(".."))
	require.Equal(t, "/", vol.PresentWorkingDirectory())
}

func TestChangeDirectory_AbsoluteFromSubdir(t *testing.T) {
	vol := buildSimpleVolume(t)

	require.NoError(t, vol.ChangeDirectory("sub"))
	require.NoError(t, vol.ChangeDirectory("/"))
	require.Equal(t, "/", vol.PresentWorkingDirectory())
}
