package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/perfgo/faultdump/model"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Crash_Report_2026-10-18_10-00-00.txt", "old report")
	writeFile(t, dir, "Crash_Report_2026-10-18_12-30-05.txt", "new report")
	writeFile(t, dir, "Crash_Dump_2026-10-18_12-30-05.dmp", "MDMP")
	writeFile(t, dir, "Crash_Report_garbage.txt", "ignored")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Crash_Report_2026-10-18_13-00-00.txt"), 0o755))

	var logs bytes.Buffer
	entries, err := LoadEntries(zerolog.New(&logs), dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	newest := entries[0]
	require.Equal(t, time.Date(2026, 10, 18, 12, 30, 5, 0, time.Local), newest.Crash.Timestamp)
	require.Equal(t, dir, newest.FullPath)
	require.Len(t, newest.Crash.Artifacts, 2)
	require.Equal(t, model.ArtifactTypeCrashReport, newest.Crash.Artifacts[0].Type)
	require.Equal(t, uint64(len("new report")), newest.Crash.Report().Size)
	require.Equal(t, "Crash_Dump_2026-10-18_12-30-05.dmp", newest.Crash.Minidump().File)

	oldest := entries[1]
	require.NotNil(t, oldest.Crash.Report())
	require.Nil(t, oldest.Crash.Minidump())

	require.Empty(t, logs.String())
}

func TestLoadEntries_MissingDir(t *testing.T) {
	_, err := LoadEntries(zerolog.Nop(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestParseArtifactName(t *testing.T) {
	typ, ts, ok := parseArtifactName("Crash_Dump_2026-01-02_03-04-05.dmp")
	require.True(t, ok)
	require.Equal(t, model.ArtifactTypeMinidump, typ)
	require.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local), ts)

	for _, name := range []string{
		"Crash_Dump_2026-01-02_03-04-05.txt",
		"Crash_Report_2026-01-02.txt",
		"crash_report_2026-01-02_03-04-05.txt",
	} {
		_, _, ok := parseArtifactName(name)
		require.False(t, ok, name)
	}
}
