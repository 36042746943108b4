package report

// format.go renders crash reports using a fixed text template and reads them
// back by their section banners.

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/perfgo/faultdump/model"
)

const (
	headerBanner = "========== CRASH REPORT =========="
	footerBanner = "========== END OF REPORT =========="

	timeLabel     = "Time: "
	platformLabel = "Platform: "
	runtimeLabel  = "Runtime: "
	messageLabel  = "Error:"
	stackLabel    = "Stack Trace:"

	// Placeholder for metadata that could not be determined
	Unknown = "unknown"

	// TimeLayout is used inside the report body
	TimeLayout = "2006-01-02 15:04:05"
)

// ErrMalformed is returned by Parse for text that is not a rendered report.
var ErrMalformed = errors.New("malformed crash report")

// New builds a crash report for a fault-classified event.
func New(ev model.DiagnosticEvent, meta Metadata, now time.Time) model.CrashReport {
	return model.CrashReport{
		Timestamp:      now,
		Platform:       meta.Platform,
		RuntimeVersion: meta.RuntimeVersion,
		Message:        ev.Message,
		StackTrace:     ev.StackTrace,
	}
}

// Render returns the canonical text of a report. It never fails: empty
// metadata fields are rendered as "unknown".
func Render(r model.CrashReport) string {
	var b strings.Builder

	b.WriteString(headerBanner + "\n")
	b.WriteString(timeLabel + placeholder(formatTime(r.Timestamp)) + "\n")
	b.WriteString(platformLabel + placeholder(r.Platform) + "\n")
	b.WriteString(runtimeLabel + placeholder(r.RuntimeVersion) + "\n")
	b.WriteString("\n")
	b.WriteString(messageLabel + "\n")
	b.WriteString(r.Message + "\n")
	b.WriteString("\n")
	b.WriteString(stackLabel + "\n")
	b.WriteString(r.StackTrace + "\n")
	b.WriteString(footerBanner + "\n")

	return b.String()
}

// Parse reads a rendered report back. Message and stack trace are reproduced
// byte for byte, except that the message is cut at its first
// "\n\nStack Trace:\n" sequence; a message containing it does not round-trip.
func Parse(text string) (model.CrashReport, error) {
	var r model.CrashReport

	body, ok := strings.CutPrefix(text, headerBanner+"\n")
	if !ok {
		return r, fmt.Errorf("%w: missing header banner", ErrMalformed)
	}
	body, ok = strings.CutSuffix(body, "\n"+footerBanner+"\n")
	if !ok {
		return r, fmt.Errorf("%w: missing closing banner", ErrMalformed)
	}

	header, rest, ok := strings.Cut(body, "\n\n"+messageLabel+"\n")
	if !ok {
		return r, fmt.Errorf("%w: missing error section", ErrMalformed)
	}
	message, stack, ok := strings.Cut(rest, "\n\n"+stackLabel+"\n")
	if !ok {
		return r, fmt.Errorf("%w: missing stack trace section", ErrMalformed)
	}
	r.Message = message
	r.StackTrace = stack

	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, timeLabel):
			value := strings.TrimPrefix(line, timeLabel)
			if value == Unknown {
				continue
			}
			ts, err := time.ParseInLocation(TimeLayout, value, time.Local)
			if err != nil {
				return r, fmt.Errorf("%w: invalid time %q", ErrMalformed, value)
			}
			r.Timestamp = ts
		case strings.HasPrefix(line, platformLabel):
			r.Platform = strings.TrimPrefix(line, platformLabel)
		case strings.HasPrefix(line, runtimeLabel):
			r.RuntimeVersion = strings.TrimPrefix(line, runtimeLabel)
		}
	}

	return r, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

func placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
