package history

// This file contains shared utilities for loading crash artifacts from the
// reports root.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/perfgo/faultdump/model"
	"github.com/perfgo/faultdump/report"
)

type Entry struct {
	Crash    model.Crash
	FullPath string // reports root the artifacts live in
}

// LoadEntries loads all crashes from the reports root, newest first.
// Files that do not follow the artifact naming scheme are ignored.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	byTime := make(map[int64]*model.Crash)
	for _, d := range dirEntries {
		if d.IsDir() {
			continue
		}

		artifactType, ts, ok := parseArtifactName(d.Name())
		if !ok {
			continue
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn().Err(err).Str("file", d.Name()).Msg("Failed to stat artifact")
			continue
		}

		crash, found := byTime[ts.Unix()]
		if !found {
			crash = &model.Crash{Timestamp: ts}
			byTime[ts.Unix()] = crash
		}
		crash.Artifacts = append(crash.Artifacts, model.Artifact{
			Type: artifactType,
			Size: uint64(info.Size()),
			File: d.Name(),
		})
	}

	entries := make([]Entry, 0, len(byTime))
	for _, crash := range byTime {
		sort.Slice(crash.Artifacts, func(i, j int) bool {
			return crash.Artifacts[i].Type < crash.Artifacts[j].Type
		})
		entries = append(entries, Entry{Crash: *crash, FullPath: root})
	}

	// Sort by timestamp (newest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Crash.Timestamp.After(entries[j].Crash.Timestamp)
	})

	return entries, nil
}

// parseArtifactName extracts the artifact type and timestamp from a file name
// produced by the report writer or the capture engine.
func parseArtifactName(name string) (model.ArtifactType, time.Time, bool) {
	candidates := []struct {
		typ    model.ArtifactType
		prefix string
		suffix string
	}{
		{model.ArtifactTypeCrashReport, report.ReportPrefix, report.ReportSuffix},
		{model.ArtifactTypeMinidump, report.DumpPrefix, report.DumpSuffix},
	}

	for _, c := range candidates {
		if !strings.HasPrefix(name, c.prefix) || !strings.HasSuffix(name, c.suffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, c.prefix), c.suffix)
		ts, err := time.ParseInLocation(report.FileTimeLayout, stamp, time.Local)
		if err != nil {
			return 0, time.Time{}, false
		}
		return c.typ, ts, true
	}

	return 0, time.Time{}, false
}
