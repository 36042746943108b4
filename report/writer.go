package report

// writer.go persists rendered crash reports to the reports root.

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/perfgo/faultdump/model"
)

// FileTimeLayout is the timestamp format used in artifact file names.
const FileTimeLayout = "2006-01-02_15-04-05"

const (
	ReportPrefix = "Crash_Report_"
	ReportSuffix = ".txt"
	DumpPrefix   = "Crash_Dump_"
	DumpSuffix   = ".dmp"
)

// ErrWrite wraps every failure to persist a report.
var ErrWrite = errors.New("failed to write crash report")

// ReportFilename returns the report file name for a fault timestamp.
func ReportFilename(ts time.Time) string {
	return ReportPrefix + ts.Format(FileTimeLayout) + ReportSuffix
}

// DumpFilename returns the minidump file name for a fault timestamp.
func DumpFilename(ts time.Time) string {
	return DumpPrefix + ts.Format(FileTimeLayout) + DumpSuffix
}

// Writer writes crash reports into a single directory. The directory is
// expected to exist; it is created once when the pipeline starts.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the destination directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write renders the report and stores it atomically. Two reports with the
// same second-resolution timestamp share a path and the later one wins.
func (w *Writer) Write(r model.CrashReport) (string, error) {
	path := filepath.Join(w.dir, ReportFilename(r.Timestamp))

	if err := atomicWriteFile(path, []byte(Render(r)), 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return path, nil
}
