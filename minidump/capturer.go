package minidump

import (
	"errors"
	"fmt"

	"github.com/perfgo/faultdump/model"
)

var (
	// ErrUnavailable is returned on platforms without a capture facility.
	ErrUnavailable = errors.New("minidump capture is not available on this platform")
	// ErrCaptureFailed is returned when the native facility reports failure.
	ErrCaptureFailed = errors.New("minidump capture failed")
	// ErrCaptureException is returned when acquiring handles or invoking the
	// facility fails unexpectedly, including recovered panics.
	ErrCaptureException = errors.New("minidump capture aborted")
)

// NativeError carries the platform's last-error code after a failed capture.
type NativeError struct {
	Code uint32
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("native error code %d (0x%08x)", e.Code, e.Code)
}

// Capturer produces a minidump of the current process at path.
type Capturer interface {
	// Available reports whether the platform has a capture facility.
	Available() bool
	// Capture writes a snapshot to path. It never panics.
	Capture(path string) (model.CaptureResult, error)
}

// Noop is the Capturer used where no capture facility exists.
type Noop struct{}

func (Noop) Available() bool { return false }

func (Noop) Capture(string) (model.CaptureResult, error) {
	return model.CaptureResult{}, ErrUnavailable
}
