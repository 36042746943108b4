package cli

// This file contains the list command for displaying crash artifacts.

import (
	"fmt"
	"path/filepath"

	"al.essio.dev/pkg/shellescape"
	"github.com/urfave/cli/v2"

	"github.com/perfgo/faultdump/history"
	"github.com/perfgo/faultdump/report"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	entries, err := history.LoadEntries(a.logger, a.cfg.ReportsRoot)
	if err != nil {
		return fmt.Errorf("failed to load crashes: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No crashes found")
		fmt.Printf("Crash reports are saved to %s/%s<timestamp>%s\n", a.cfg.ReportsRoot, report.ReportPrefix, report.ReportSuffix)
		return nil
	}

	// Apply limit
	displayed := entries
	if limit > 0 && limit < len(displayed) {
		displayed = displayed[:limit]
	}

	fmt.Printf("\n=== Crashes (%d total) ===\n\n", len(entries))

	for i, entry := range displayed {
		c := entry.Crash
		status := "report"
		if c.Minidump() != nil {
			status = "report+dump"
		}
		if c.Report() == nil {
			status = "dump only"
		}

		fmt.Printf("%3d  %s  [%s]\n", -i, c.Timestamp.Format(report.TimeLayout), status)
		for _, artifact := range c.Artifacts {
			path := filepath.Join(entry.FullPath, artifact.File)
			fmt.Printf("     %-8s %s (%.1f KB)\n", artifact.Type.String()+":", shellescape.Quote(path), float64(artifact.Size)/1024)
		}
		fmt.Println()
	}

	fmt.Println("View a report: faultdump view <INDEX>")

	return nil
}
