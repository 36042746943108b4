package model

import "time"

// CrashReport is the text artifact derived from a fault-classified event.
type CrashReport struct {
	// Wall-clock instant the fault was handled, also used for file naming
	Timestamp time.Time `json:"timestamp"`
	// Operating system and platform identifier of the host
	Platform string `json:"platform"`
	// Version of the runtime the host executes on
	RuntimeVersion string `json:"runtime_version"`
	// Message of the unhandled exception
	Message string `json:"message"`
	// Stack trace as delivered by the host
	StackTrace string `json:"stack_trace"`
}
