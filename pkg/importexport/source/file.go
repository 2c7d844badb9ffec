// Package source implements the location adapters import/export dispatch to:
// local files (including the "-" stdin/stdout placeholder), arbitrary HTTP
// endpoints, and GitHub Gists.
package source

import (
	"errors"
	"io"
	"os"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
)

// StdioPlaceholder is the location value meaning "use stdin/stdout".
const StdioPlaceholder = "-"

// OpenFile opens path for reading, or stdin when path is StdioPlaceholder.
// Directories and missing/inaccessible files surface as the typed errors
// ImportLocationNotAFile, ImportFileNotFound and FileNotAccessibleErr.
func OpenFile(path string) (io.ReadCloser, error) {
	if path == StdioPlaceholder {
		return io.NopCloser(os.Stdin), nil
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, ierrors.ImportLocationNotAFile
	case errors.Is(err, os.ErrNotExist):
		return nil, ierrors.ImportFileNotFound
	case errors.Is(err, os.ErrPermission):
		return nil, ierrors.FileNotAccessibleErr{Which: path}
	case err != nil:
		return nil, ierrors.Wrap(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	return f, nil
}

// CreateFile opens path for writing (truncating), or stdout when path is
// StdioPlaceholder. isBatch reports whether the path names a Windows
// batch/cmd file, for the caller to choose the comment marker.
func CreateFile(path string) (io.WriteCloser, isBatch bool, err error) {
	isBatch = hasAnySuffix(path, ".cmd", ".bat")
	if path == StdioPlaceholder {
		return nopWriteCloser{os.Stdout}, isBatch, nil
	}

	f, createErr := os.Create(path)
	switch {
	case createErr == nil:
		return f, isBatch, nil
	case errors.Is(createErr, os.ErrPermission):
		return nil, isBatch, ierrors.FileNotAccessibleErr{Which: path}
	case errors.Is(createErr, os.ErrNotExist):
		return nil, isBatch, ierrors.ExportFileParentNotFound
	default:
		if isDirErr(createErr) {
			return nil, isBatch, ierrors.ExportLocationNotAFile
		}
		return nil, isBatch, ierrors.Wrap(createErr)
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
			return true
		}
	}
	return false
}

func isDirErr(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) && pathErr.Err.Error() == "is a directory"
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
