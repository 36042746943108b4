package cli

// This file contains the trigger command, which feeds one diagnostic event
// through a live crash pipeline.

import (
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"github.com/perfgo/faultdump/hook"
	"github.com/perfgo/faultdump/model"
	"github.com/perfgo/faultdump/reporter"
)

func (a *App) trigger(ctx *cli.Context) error {
	severity, err := model.ParseSeverity(ctx.String("severity"))
	if err != nil {
		return err
	}

	r := reporter.New(a.logger, a.cfg)
	bus := hook.NewBus()

	var outcome reporter.Outcome
	sub := bus.Subscribe(func(ev model.DiagnosticEvent) {
		outcome = r.Process(ev)
	})
	defer sub.Cancel()

	if ctx.Bool("panic") {
		raisePanic(bus, ctx.String("message"))
	} else {
		stack := ctx.String("stack")
		if stack == "" {
			stack = string(debug.Stack())
		}
		bus.Publish(model.DiagnosticEvent{
			Message:    ctx.String("message"),
			StackTrace: stack,
			Severity:   severity,
		})
	}

	if !outcome.Fault {
		fmt.Printf("Event with severity %s is not a fault, nothing written\n", severity)
		return nil
	}

	if outcome.ReportPath != "" {
		fmt.Printf("Report:   %s\n", outcome.ReportPath)
	}
	if outcome.DumpPath != "" {
		fmt.Printf("Minidump: %s\n", outcome.DumpPath)
	}
	if outcome.ReportErr != nil {
		return fmt.Errorf("no crash report written: %w", outcome.ReportErr)
	}
	return nil
}

// raisePanic panics under the bus's panic adapter and swallows the re-raised
// panic so the command can print its result.
func raisePanic(bus *hook.Bus, message string) {
	defer func() { _ = recover() }()
	defer bus.Recover()
	panic(message)
}
