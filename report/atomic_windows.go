//go:build windows

package report

import (
	"os"
	"path/filepath"
)

// atomicWriteFile writes data to a file atomically.
// renameio does not support Windows, so a write-rename pattern is used. Each
// call gets its own temp file so concurrent writers to the same path never
// share one.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tempFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempFile)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	if err := os.Chmod(tempFile, perm); err != nil {
		os.Remove(tempFile)
		return err
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return err
	}

	return nil
}
