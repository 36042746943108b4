//go:build !windows

package report

import (
	"os"

	"github.com/google/renameio/v2"
)

// atomicWriteFile writes data to a temporary file and renames it into place,
// so readers never observe a partially written report.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
