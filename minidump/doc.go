// Package minidump captures native memory snapshots of the running process.
//
// Capture goes through the Capturer interface. On Windows, Native returns an
// Engine backed by DbgHelp's MiniDumpWriteDump; on every other platform it
// returns Noop and only the text report is produced.
//
// The Engine always snapshots its own process. Native calls are serialized,
// since the capture facility is not guaranteed to be reentrant.
package minidump
