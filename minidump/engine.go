package minidump

// engine.go contains the capture state machine shared by all facilities.

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/perfgo/faultdump/model"
)

// State is a step of a single capture attempt.
type State uint8

const (
	StateIdle State = iota
	StateHandlesAcquiring
	StateInvoking
	StateCompleted
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandlesAcquiring:
		return "handles-acquiring"
	case StateInvoking:
		return "invoking"
	case StateCompleted:
		return "completed"
	case StateReleased:
		return "released"
	}
	return "unknown"
}

// Target identifies the process being snapshot. The handle is borrowed and
// must never be closed by the engine.
type Target struct {
	Handle uintptr
	PID    uint32
}

// File is a destination opened for exclusive write access.
type File interface {
	Fd() uintptr
	Close() error
}

// Facility is the platform's native capture mechanism.
type Facility interface {
	// Self returns the calling process as the capture target.
	Self() Target
	// Create opens path for exclusive writing, truncating any previous file.
	Create(path string) (File, error)
	// WriteDump invokes the native call synchronously. On failure it returns
	// the platform's last-error code.
	WriteDump(req model.MinidumpRequest) (ok bool, code uint32)
}

// Engine drives one Facility. It is safe for concurrent use; at most one
// capture runs at a time.
type Engine struct {
	logger   zerolog.Logger
	facility Facility
	flags    model.DumpType

	mu sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDumpType overrides the option word passed to the facility. Full memory
// flags are stripped.
func WithDumpType(flags model.DumpType) EngineOption {
	return func(e *Engine) {
		e.flags = flags &^ (model.DumpWithFullMemory | model.DumpWithFullMemoryInfo)
	}
}

func NewEngine(logger zerolog.Logger, facility Facility, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   logger,
		facility: facility,
		flags:    model.DefaultDumpType,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Available() bool { return e.facility != nil }

// Capture snapshots the current process into path.
func (e *Engine) Capture(path string) (result model.CaptureResult, err error) {
	if e.facility == nil {
		return model.CaptureResult{}, ErrUnavailable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state := StateIdle
	defer func() {
		if r := recover(); r != nil {
			result = model.CaptureResult{}
			err = fmt.Errorf("%w: panic in state %s: %v", ErrCaptureException, state, r)
		}
	}()

	state = StateHandlesAcquiring
	e.logger.Debug().Str("path", path).Stringer("state", state).Msg("Acquiring capture handles")

	file, err := e.facility.Create(path)
	if err != nil {
		return model.CaptureResult{}, fmt.Errorf("%w: opening dump file: %w", ErrCaptureException, err)
	}

	succeeded := false
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			e.logger.Debug().Err(closeErr).Str("path", path).Msg("Failed to close dump file")
		}
		if !succeeded {
			// Never leave a truncated dump behind.
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				e.logger.Debug().Err(rmErr).Str("path", path).Msg("Failed to remove incomplete dump file")
			}
		}
		e.logger.Debug().Str("path", path).Stringer("state", StateReleased).Msg("Released capture handles")
	}()

	target := e.facility.Self()
	req := model.MinidumpRequest{
		ProcessHandle: target.Handle,
		ProcessID:     target.PID,
		FileHandle:    file.Fd(),
		Flags:         e.flags,
	}

	state = StateInvoking
	e.logger.Debug().
		Uint32("pid", req.ProcessID).
		Stringer("flags", req.Flags).
		Stringer("state", state).
		Msg("Invoking capture facility")

	ok, code := e.facility.WriteDump(req)
	state = StateCompleted
	if !ok {
		return model.CaptureResult{NativeErrorCode: &code}, fmt.Errorf("%w: %w", ErrCaptureFailed, &NativeError{Code: code})
	}

	succeeded = true
	return model.CaptureResult{Succeeded: true}, nil
}
