package report

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perfgo/faultdump/model"
)

func TestFilenames(t *testing.T) {
	require.Equal(t, "Crash_Report_2026-10-18_14-03-09.txt", ReportFilename(testTime))
	require.Equal(t, "Crash_Dump_2026-10-18_14-03-09.dmp", DumpFilename(testTime))
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	r := model.CrashReport{
		Timestamp:      testTime,
		Platform:       "linux (amd64)",
		RuntimeVersion: "go1.24.6",
		Message:        "NullReference on obj.name",
		StackTrace:     "at Foo.Bar()\n at Main()",
	}

	path, err := w.Write(r)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Crash_Report_2026-10-18_14-03-09.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, Render(r), string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")
}

func TestWriter_Write_SameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	first, err := w.Write(model.CrashReport{Timestamp: testTime, Message: "first"})
	require.NoError(t, err)
	second, err := w.Write(model.CrashReport{Timestamp: testTime.Add(500e6), Message: "second"})
	require.NoError(t, err)
	require.Equal(t, first, second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	parsed, err := Parse(string(data))
	require.NoError(t, err)
	require.Equal(t, "second", parsed.Message)
}

func TestWriter_Write_ConcurrentSameSecond(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	messages := make([]string, 8)
	for i := range messages {
		messages[i] = strings.Repeat(fmt.Sprintf("writer %d ", i), 4096)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(messages))
	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg string) {
			defer wg.Done()
			_, errs[i] = w.Write(model.CrashReport{Timestamp: testTime, Message: msg})
		}(i, msg)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")

	data, err := os.ReadFile(filepath.Join(dir, ReportFilename(testTime)))
	require.NoError(t, err)
	parsed, err := Parse(string(data))
	require.NoError(t, err)
	require.Contains(t, messages, parsed.Message)
}

func TestWriter_Write_MissingDirectory(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "does-not-exist"))

	path, err := w.Write(model.CrashReport{Timestamp: testTime, Message: "boom"})
	require.ErrorIs(t, err, ErrWrite)
	require.Empty(t, path)
}

func TestWriter_Write_ReadOnlyDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := NewWriter(dir).Write(model.CrashReport{Timestamp: testTime, Message: "boom"})
	require.ErrorIs(t, err, ErrWrite)
}
