package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/perfgo/faultdump/config"
)

const AppName = "faultdump"

type App struct {
	logger zerolog.Logger
	cfg    config.Config
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cfg:    config.Default(),
		cli: &cli.App{
			Name:  AppName,
			Usage: "Turn unhandled exceptions into crash reports and minidumps",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:    "config",
					Aliases: []string{"c"},
					Usage:   "Path to a YAML config file",
					EnvVars: []string{"FAULTDUMP_CONFIG"},
				},
				&cli.StringFlag{
					Name:    "reports-root",
					Aliases: []string{"r"},
					Usage:   "Directory receiving crash reports and minidumps",
					EnvVars: []string{config.EnvReportsRoot},
				},
				&cli.BoolFlag{
					Name:  "no-minidump",
					Usage: "Only write text reports, never capture a minidump",
				},
			},
		},
	}
	app.cli.Before = app.before

	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "trigger",
		Usage:  "Raise a diagnostic event and run it through the crash pipeline",
		Action: app.trigger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "severity",
				Aliases: []string{"s"},
				Usage:   "Event severity (log, warning, error, exception, assert)",
				Value:   "exception",
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Event message",
				Value:   "Simulated unhandled exception",
			},
			&cli.StringFlag{
				Name:  "stack",
				Usage: "Stack trace to report (default: the current goroutine's stack)",
			},
			&cli.BoolFlag{
				Name:  "panic",
				Usage: "Raise a real panic and report it through the panic adapter",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "dump",
		Usage:  "Capture a minidump of this process",
		Action: app.dump,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file (default: <reports-root>/Crash_Dump_<timestamp>.dmp)",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List crash artifacts in the reports root",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:            "view",
		Usage:           "Show a crash report",
		ArgsUsage:       "[INDEX|TIMESTAMP]",
		Action:          app.view,
		SkipFlagParsing: true,
		Description: `Show a crash report from the reports root.

Arguments:
  0                      View the latest crash (default)
  -1                     View the 2nd latest crash
  <timestamp-prefix>     View the crash whose timestamp starts with the prefix

Examples:
  faultdump view                      # latest crash
  faultdump view -1                   # 2nd latest crash
  faultdump view 2026-10-18_14-03     # crash at 14:03 on 2026-10-18`,
	})
	return app
}

func (a *App) before(ctx *cli.Context) error {
	if ctx.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if root := ctx.String("reports-root"); root != "" {
		cfg.ReportsRoot = root
	}
	if ctx.Bool("no-minidump") {
		cfg.Minidump = false
	}
	a.cfg = cfg

	a.logger.Debug().
		Str("reports_root", cfg.ReportsRoot).
		Bool("minidump", cfg.Minidump).
		Msg("Configuration loaded")
	return nil
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
