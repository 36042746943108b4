package model

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic event delivered by the host
type Severity uint8

const (
	SeverityLog Severity = iota
	SeverityWarning
	SeverityError
	SeverityException
	SeverityAssert
)

var severityNames = map[Severity]string{
	SeverityLog:       "log",
	SeverityWarning:   "warning",
	SeverityError:     "error",
	SeverityException: "exception",
	SeverityAssert:    "assert",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// ParseSeverity converts a case-insensitive severity name into a Severity.
func ParseSeverity(s string) (Severity, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for sev, name := range severityNames {
		if name == want {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// DiagnosticEvent is a single message from the host's diagnostic stream.
// It only lives for the duration of the callback that delivers it.
type DiagnosticEvent struct {
	Message    string
	StackTrace string
	Severity   Severity
}

// IsFault reports whether the event represents an unhandled exception.
// Plain errors, warnings, logs and asserts are not crash-worthy.
func (e DiagnosticEvent) IsFault() bool {
	return e.Severity == SeverityException
}
