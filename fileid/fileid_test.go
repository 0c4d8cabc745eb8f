package fileid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveBasic(t *testing.T) {
	id, err := Derive("/data/sub/file.txt", "/data/", "https://id.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example/sub/file.txt", id)
}

func TestDeriveNormalizesDirectoryWithoutTrailingSlash(t *testing.T) {
	id, err := Derive("/data/sub/file.txt", "/data", "https://id.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example/sub/file.txt", id)
}

func TestDeriveNormalizesPrefixWithoutTrailingSlash(t *testing.T) {
	id, err := Derive("/data/file.txt", "/data/", "https://id.example")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example/file.txt", id)
}

func TestDeriveEmptyPrefix(t *testing.T) {
	id, err := Derive("/data/file.txt", "/data/", "")
	require.NoError(t, err)
	assert.Equal(t, "file.txt", id)
}

func TestDerivePercentEncodesButKeepsSlash(t *testing.T) {
	id, err := Derive("/data/a dir/file with space.txt", "/data/", "https://id.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example/a%20dir/file%20with%20space.txt", id)
}

func TestDeriveBackslashTreatedAsSlash(t *testing.T) {
	id, err := Derive(`/data\sub\file.txt`, "/data/", "https://id.example/")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example/sub/file.txt", id)
}

func TestDeriveIsDeterministic(t *testing.T) {
	id1, err1 := Derive("/data/sub/file.txt", "/data/", "https://id.example/")
	id2, err2 := Derive("/data/sub/file.txt", "/data/", "https://id.example/")
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, id1, id2)
}

func TestParentID(t *testing.T) {
	assert.Equal(t, "https://id.example/sub", ParentID("https://id.example/sub/file.txt"))
}

func TestParentIDDoesNotSplitEncodedSlash(t *testing.T) {
	// "%2F" inside a single encoded segment is not a literal '/' and must
	// not be treated as a path separator.
	id := "https://id.example/sub/a%2Fb"
	assert.Equal(t, "https://id.example/sub", ParentID(id))
}

func TestParentIDNoSlash(t *testing.T) {
	assert.Equal(t, "", ParentID("justaname"))
}
