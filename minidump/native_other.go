//go:build !windows

package minidump

import (
	"github.com/rs/zerolog"
)

// Native returns Noop: this platform has no minidump facility.
func Native(logger zerolog.Logger, opts ...EngineOption) Capturer {
	logger.Debug().Msg("Minidump capture not supported on this platform")
	return Noop{}
}
