package model

import "strings"

// DumpType is the option word passed to the native capture facility.
// Values mirror the MINIDUMP_TYPE flags of DbgHelp.
type DumpType uint32

const (
	DumpNormal                DumpType = 0x00000000
	DumpWithDataSegs          DumpType = 0x00000001
	DumpWithFullMemory        DumpType = 0x00000002
	DumpWithHandleData        DumpType = 0x00000004
	DumpWithUnloadedModules   DumpType = 0x00000020
	DumpWithProcessThreadData DumpType = 0x00000100
	DumpWithFullMemoryInfo    DumpType = 0x00000800
	DumpWithThreadInfo        DumpType = 0x00001000
)

// DefaultDumpType includes per-thread context, the handle table and thread
// metadata. Full memory and full memory info are deliberately left out to keep
// dumps small and fast to write from a faulted process.
const DefaultDumpType = DumpWithProcessThreadData | DumpWithHandleData | DumpWithThreadInfo

var dumpTypeNames = []struct {
	flag DumpType
	name string
}{
	{DumpWithDataSegs, "data-segs"},
	{DumpWithFullMemory, "full-memory"},
	{DumpWithHandleData, "handle-data"},
	{DumpWithUnloadedModules, "unloaded-modules"},
	{DumpWithProcessThreadData, "process-thread-data"},
	{DumpWithFullMemoryInfo, "full-memory-info"},
	{DumpWithThreadInfo, "thread-info"},
}

// Has reports whether all bits of flag are set.
func (t DumpType) Has(flag DumpType) bool {
	return t&flag == flag
}

func (t DumpType) String() string {
	if t == DumpNormal {
		return "normal"
	}
	var parts []string
	for _, n := range dumpTypeNames {
		if t.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MinidumpRequest is built fresh for every capture attempt.
//
// Both handles are borrowed: the process handle stays valid for the lifetime
// of the process itself and must never be closed, the file handle belongs to
// the scope that opened the destination file.
type MinidumpRequest struct {
	ProcessHandle uintptr
	ProcessID     uint32
	FileHandle    uintptr
	Flags         DumpType
}

// CaptureResult is the outcome of a single capture attempt
type CaptureResult struct {
	Succeeded       bool
	NativeErrorCode *uint32
}
