package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-vpc-go"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "uat_vpc", FileName("uat"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, "uat", []byte(`{"Resources":{}}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "uat_vpc"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"Resources":{}}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWrite_Overwrites(t *testing.T) {
	dir := t.TempDir()

	_, err := Write(dir, "prod", []byte("first"))
	require.NoError(t, err)
	path, err := Write(dir, "prod", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWrite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "templates")

	path, err := Write(dir, "uat", []byte("{}"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWrite_Failure(t *testing.T) {
	// A regular file where the directory should be.
	parent := t.TempDir()
	blocker := filepath.Join(parent, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := Write(blocker, "uat", []byte("{}"))
	var we *wetwire.WriteError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, filepath.Join(blocker, "uat_vpc"), we.Path)
}

func TestWrite_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "uat_vpc"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uat_vpc", "keep"), nil, 0644))

	_, err := Write(dir, "uat", []byte("{}"))
	var we *wetwire.WriteError
	require.True(t, errors.As(err, &we))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file not cleaned up")
}
