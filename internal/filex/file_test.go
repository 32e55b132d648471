package filex

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ResolvesNameSizeAndType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	it, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", it.Name())
	assert.Equal(t, int64(11), it.Size())
	assert.True(t, strings.HasPrefix(it.ContentType(), "text/plain"), it.ContentType())

	rc, err := it.Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)

	_, err = Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFromBytes_DetectsPNG(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	it := FromBytes("a.png", png)

	assert.Equal(t, "image/png", it.ContentType())
	assert.Equal(t, int64(len(png)), it.Size())

	rc, err := it.Open()
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, png, b)
}

func TestOpenAll_StopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(ok, []byte("a"), 0o600))

	items, err := OpenAll([]string{ok})
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = OpenAll([]string{ok, filepath.Join(dir, "nope")})
	require.Error(t, err)
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deeper", "session.db")

	require.NoError(t, EnsureParentDir(target))
	require.NoError(t, EnsureParentDir(target))

	fi, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	require.NoError(t, EnsureParentDir("session.db"))
}
