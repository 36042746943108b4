package reporter_test

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/perfgo/faultdump/config"
	"github.com/perfgo/faultdump/hook"
	"github.com/perfgo/faultdump/reporter"
)

func ExampleReporter_Attach() {
	dir, err := os.MkdirTemp("", "faultdump-example-*")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	// The pipeline logs to its own logger
	pipelineLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	r := reporter.New(pipelineLogger, config.Config{ReportsRoot: dir, Minidump: true})

	// The host's diagnostic stream
	bus := hook.NewBus()
	h := r.Attach(bus)
	h.Enable()
	defer h.Disable()

	// Fatal and panic level host logs become exception events
	hostLogger := zerolog.New(os.Stdout).Hook(bus.ZerologHook())
	hostLogger.Info().Msg("service started")

	// Panics in worker goroutines are reported before they propagate
	func() {
		defer func() { _ = recover() }()
		defer bus.Recover()
		var m map[string]int
		m["boom"]++
	}()

	entries, _ := os.ReadDir(dir)
	fmt.Println(len(entries) > 0)
	// Output:
	// {"level":"info","message":"service started"}
	// true
}
