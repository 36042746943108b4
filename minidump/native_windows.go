//go:build windows

package minidump

import (
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/perfgo/faultdump/model"
)

var (
	modDbgHelp            = windows.NewLazySystemDLL("dbghelp.dll")
	procMiniDumpWriteDump = modDbgHelp.NewProc("MiniDumpWriteDump")
)

// Native returns the DbgHelp backed capturer, or Noop if dbghelp.dll cannot
// be loaded.
func Native(logger zerolog.Logger, opts ...EngineOption) Capturer {
	if err := procMiniDumpWriteDump.Find(); err != nil {
		logger.Warn().Err(err).Msg("MiniDumpWriteDump not found, minidump capture disabled")
		return Noop{}
	}
	return NewEngine(logger, dbgHelp{}, opts...)
}

type dbgHelp struct{}

// Self returns the pseudo handle of the current process, which never needs
// to be closed.
func (dbgHelp) Self() Target {
	return Target{
		Handle: uintptr(windows.CurrentProcess()),
		PID:    windows.GetCurrentProcessId(),
	}
}

func (dbgHelp) Create(path string) (File, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	// Share mode 0: nobody else may open the dump while it is written.
	h, err := windows.CreateFile(
		name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.CREATE_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, err
	}
	return &handleFile{h: h}, nil
}

func (dbgHelp) WriteDump(req model.MinidumpRequest) (bool, uint32) {
	// ExceptionParam, UserStreamParam and CallbackParam are not supported.
	r1, _, callErr := procMiniDumpWriteDump.Call(
		req.ProcessHandle,
		uintptr(req.ProcessID),
		req.FileHandle,
		uintptr(req.Flags),
		0,
		0,
		0,
	)
	if r1 != 0 {
		return true, 0
	}
	if errno, ok := callErr.(syscall.Errno); ok && errno != 0 {
		return false, uint32(errno)
	}
	return false, uint32(windows.ERROR_GEN_FAILURE)
}

// handleFile closes its handle exactly once.
type handleFile struct {
	h windows.Handle
}

func (f *handleFile) Fd() uintptr { return uintptr(f.h) }

func (f *handleFile) Close() error {
	if f.h == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(f.h)
	f.h = windows.InvalidHandle
	return err
}
