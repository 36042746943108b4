// Package reporter drives the crash pipeline: it classifies diagnostic
// events, writes the text report and requests a minidump. Every failure ends
// as a log line; nothing is returned to the code that raised the event.
package reporter

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/perfgo/faultdump/config"
	"github.com/perfgo/faultdump/hook"
	"github.com/perfgo/faultdump/minidump"
	"github.com/perfgo/faultdump/model"
	"github.com/perfgo/faultdump/report"
)

const (
	outcomeSuccess     = "success"
	outcomeFailure     = "failure"
	outcomeException   = "exception"
	outcomeUnavailable = "unavailable"
)

// Reporter is the crash pipeline. One instance is constructed by the host at
// startup and handed to whatever registers it with the event stream.
// Events may be delivered from several goroutines, so the logger's writer must
// be safe for concurrent use (see zerolog.SyncWriter).
type Reporter struct {
	logger   zerolog.Logger
	writer   *report.Writer
	capturer minidump.Capturer
	now      func() time.Time
	metrics  *metrics

	metadata    report.Metadata
	hasMetadata bool // set by WithMetadata
}

// Outcome describes what handling a single event produced.
type Outcome struct {
	Fault      bool
	Report     model.CrashReport
	ReportPath string
	ReportErr  error
	DumpPath   string
	Capture    model.CaptureResult
	CaptureErr error
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithCapturer replaces the platform capturer.
func WithCapturer(c minidump.Capturer) Option {
	return func(r *Reporter) {
		r.capturer = c
	}
}

// WithMetadata replaces the host metadata lookup.
func WithMetadata(meta report.Metadata) Option {
	return func(r *Reporter) {
		r.metadata = meta
		r.hasMetadata = true
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithRegisterer registers the pipeline counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Reporter) {
		for _, c := range r.metrics.collectors() {
			if err := reg.Register(c); err != nil {
				r.logger.Debug().Err(err).Msg("Failed to register crash pipeline metric")
			}
		}
	}
}

// New builds the pipeline and creates the reports root. A root that cannot be
// created is logged; faults are still logged but produce no artifacts.
func New(logger zerolog.Logger, cfg config.Config, opts ...Option) *Reporter {
	r := &Reporter{
		logger:  logger,
		writer:  report.NewWriter(cfg.ReportsRoot),
		now:     time.Now,
		metrics: newMetrics(),
	}

	if err := os.MkdirAll(cfg.ReportsRoot, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", cfg.ReportsRoot).Msg("Failed to create reports directory")
	}

	for _, opt := range opts {
		opt(r)
	}

	if !r.hasMetadata {
		r.metadata = report.HostMetadata()
	}
	if r.capturer == nil {
		if cfg.Minidump {
			r.capturer = minidump.Native(logger, minidump.WithDumpType(model.DefaultDumpType|model.DumpType(cfg.ExtraDumpFlags)))
		} else {
			r.capturer = minidump.Noop{}
		}
	}

	return r
}

// Dir returns the reports root.
func (r *Reporter) Dir() string {
	return r.writer.Dir()
}

// Attach returns an ingestion hook delivering events from src to Handle.
// The hook starts disabled.
func (r *Reporter) Attach(src hook.Source) *hook.Hook {
	return hook.New(src, r.Handle)
}

// Handle is the event stream callback.
func (r *Reporter) Handle(ev model.DiagnosticEvent) {
	r.Process(ev)
}

// Process runs the pipeline for one event and reports what it produced.
// Events that are not faults return immediately without any I/O.
func (r *Reporter) Process(ev model.DiagnosticEvent) (out Outcome) {
	r.metrics.events.WithLabelValues(ev.Severity.String()).Inc()
	if !ev.IsFault() {
		return out
	}
	out.Fault = true

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Msg("Crash reporting aborted")
		}
	}()

	r.logger.Warn().Str("fault_message", ev.Message).Msg("Unhandled exception detected")

	ts := r.now()
	out.Report = report.New(ev, r.metadata, ts)

	out.ReportPath, out.ReportErr = r.writer.Write(out.Report)
	if out.ReportErr != nil {
		r.metrics.reportFailures.Inc()
		r.logger.Error().Err(out.ReportErr).Str("dir", r.writer.Dir()).Msg("Failed to write crash report")
	} else {
		r.metrics.reportsWritten.Inc()
		r.logger.Info().Str("path", out.ReportPath).Msg("Crash report written")
	}

	// The dump is attempted whether or not the report could be written.
	out.DumpPath, out.Capture, out.CaptureErr = r.capture(ts)
	return out
}

func (r *Reporter) capture(ts time.Time) (string, model.CaptureResult, error) {
	if !r.capturer.Available() {
		r.metrics.captures.WithLabelValues(outcomeUnavailable).Inc()
		r.logger.Debug().Msg("Minidump capture unavailable, skipping")
		return "", model.CaptureResult{}, minidump.ErrUnavailable
	}

	path := filepath.Join(r.writer.Dir(), report.DumpFilename(ts))
	result, err := r.capturer.Capture(path)

	var nativeErr *minidump.NativeError
	switch {
	case err == nil:
		r.metrics.captures.WithLabelValues(outcomeSuccess).Inc()
		r.logger.Info().Str("path", path).Msg("Minidump written")
		return path, result, nil
	case errors.As(err, &nativeErr):
		r.metrics.captures.WithLabelValues(outcomeFailure).Inc()
		r.logger.Error().
			Err(err).
			Uint32("native_error", nativeErr.Code).
			Str("path", path).
			Msg("Failed to write minidump")
	case errors.Is(err, minidump.ErrUnavailable):
		r.metrics.captures.WithLabelValues(outcomeUnavailable).Inc()
		r.logger.Debug().Msg("Minidump capture unavailable, skipping")
	default:
		r.metrics.captures.WithLabelValues(outcomeException).Inc()
		r.logger.Error().Err(err).Str("path", path).Msg("Minidump capture aborted")
	}

	return "", result, err
}
