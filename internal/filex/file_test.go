package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	want := filepath.Join(tmp, "a", "b")

	got, err := EnsureDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	clash := filepath.Join(tmp, "session")
	require.NoError(t, os.WriteFile(clash, []byte("x"), 0o600))

	_, err := EnsureDir(clash)
	require.Error(t, err)
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")
	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "only the directory is created")
}

func TestDataDir(t *testing.T) {
	dir := DataDir("marketdesk")
	require.True(t, strings.HasSuffix(dir, "marketdesk"), dir)
}
