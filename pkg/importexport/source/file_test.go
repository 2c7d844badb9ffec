package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

func TestOpenFileStdinPlaceholder(t *testing.T) {
	r, err := OpenFile(StdioPlaceholder)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestOpenFileNotFound(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.sh"))
	assert.Equal(t, ierrors.ImportFileNotFound, err)
}

func TestOpenFileRejectsDirectory(t *testing.T) {
	_, err := OpenFile(t.TempDir())
	assert.Equal(t, ierrors.ImportLocationNotAFile, err)
}

func TestOpenFileReadsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.sh")
	require.NoError(t, os.WriteFile(path, []byte("docker ps -a\n"), 0o644))

	r, err := OpenFile(path)
	require.NoError(t, err)
	defer r.Close()

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "docker ps -a\n", string(content))
}

func TestCreateFileStdoutPlaceholder(t *testing.T) {
	w, isBatch, err := CreateFile(StdioPlaceholder)
	require.NoError(t, err)
	assert.False(t, isBatch)
	assert.NotNil(t, w)
}

func TestCreateFileDetectsBatchExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.cmd")
	w, isBatch, err := CreateFile(path)
	require.NoError(t, err)
	defer w.Close()
	assert.True(t, isBatch)
}

func TestCreateFileMissingParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "commands.sh")
	_, _, err := CreateFile(path)
	assert.Equal(t, ierrors.ExportFileParentNotFound, err)
}

func TestCreateFileRejectsDirectory(t *testing.T) {
	_, _, err := CreateFile(t.TempDir())
	assert.Equal(t, ierrors.ExportLocationNotAFile, err)
}
