package cli

// This file contains the view command for displaying crash reports.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/perfgo/faultdump/history"
	"github.com/perfgo/faultdump/report"
)

// selectEntry picks a crash by index (0 latest, -1 second latest, ...) or by
// timestamp prefix. entries must be sorted newest first.
func selectEntry(entries []history.Entry, arg string) (*history.Entry, error) {
	if arg == "" {
		arg = "0"
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			// Positive integers are not allowed
			return nil, fmt.Errorf("invalid index: %s (use 0 for latest, -1 for second latest, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d crashes)", arg, len(entries))
		}
		return &entries[index], nil
	}

	for i := range entries {
		stamp := entries[i].Crash.Timestamp.Format(report.FileTimeLayout)
		if strings.HasPrefix(stamp, arg) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no crash found matching timestamp: %s", arg)
}

func (a *App) view(ctx *cli.Context) error {
	entries, err := history.LoadEntries(a.logger, a.cfg.ReportsRoot)
	if err != nil {
		return fmt.Errorf("failed to load crashes: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no crashes found in %s", a.cfg.ReportsRoot)
	}

	entry, err := selectEntry(entries, ctx.Args().First())
	if err != nil {
		return err
	}

	return a.displayCrash(entry)
}

func (a *App) displayCrash(entry *history.Entry) error {
	c := entry.Crash

	reportArtifact := c.Report()
	if reportArtifact == nil {
		fmt.Printf("No report for crash at %s\n", c.Timestamp.Format(report.TimeLayout))
		if dump := c.Minidump(); dump != nil {
			fmt.Printf("Minidump: %s\n", filepath.Join(entry.FullPath, dump.File))
		}
		return nil
	}

	path := filepath.Join(entry.FullPath, reportArtifact.File)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	r, err := report.Parse(string(data))
	if err != nil {
		// Show the raw text rather than nothing
		a.logger.Warn().Err(err).Str("path", path).Msg("Failed to parse crash report")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("=== Crash: %s ===\n", c.Timestamp.Format(report.TimeLayout))
	fmt.Printf("Platform: %s\n", r.Platform)
	fmt.Printf("Runtime: %s\n", r.RuntimeVersion)
	fmt.Printf("Report: %s\n", path)
	if dump := c.Minidump(); dump != nil {
		fmt.Printf("Minidump: %s (%.1f KB)\n", filepath.Join(entry.FullPath, dump.File), float64(dump.Size)/1024)
	}
	fmt.Println()
	fmt.Println(r.Message)
	fmt.Println()
	fmt.Println(r.StackTrace)
	return nil
}
