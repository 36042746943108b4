package cli

// This file contains the dump command for on-demand self snapshots.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/perfgo/faultdump/minidump"
	"github.com/perfgo/faultdump/model"
	"github.com/perfgo/faultdump/report"
)

func (a *App) dump(ctx *cli.Context) error {
	capturer := minidump.Native(a.logger, minidump.WithDumpType(model.DefaultDumpType|model.DumpType(a.cfg.ExtraDumpFlags)))
	if !capturer.Available() {
		return minidump.ErrUnavailable
	}

	output := ctx.String("output")
	if output == "" {
		if err := os.MkdirAll(a.cfg.ReportsRoot, 0o755); err != nil {
			return fmt.Errorf("failed to create reports directory: %w", err)
		}
		output = filepath.Join(a.cfg.ReportsRoot, report.DumpFilename(time.Now()))
	}

	if _, err := capturer.Capture(output); err != nil {
		a.logger.Error().Err(err).Str("path", output).Msg("Failed to capture minidump")
		return err
	}

	if info, err := os.Stat(output); err == nil {
		a.logger.Info().
			Str("path", output).
			Int64("size", info.Size()).
			Msg("Minidump written")
	}
	return nil
}
