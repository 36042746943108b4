package hook

// adapters.go feeds host diagnostics into a Bus: zerolog log events and
// recovered panics.

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/perfgo/faultdump/model"
)

// SeverityForLevel maps a zerolog level onto a diagnostic severity. Only
// fatal and panic levels are treated as unhandled exceptions.
func SeverityForLevel(level zerolog.Level) model.Severity {
	switch level {
	case zerolog.WarnLevel:
		return model.SeverityWarning
	case zerolog.ErrorLevel:
		return model.SeverityError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return model.SeverityException
	default:
		return model.SeverityLog
	}
}

// ZerologHook returns a zerolog.Hook publishing every log event on b.
// Do not attach it to the logger the crash pipeline itself writes to.
func (b *Bus) ZerologHook() zerolog.Hook {
	return zerologHook{bus: b}
}

type zerologHook struct {
	bus *Bus
}

func (h zerologHook) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	ev := model.DiagnosticEvent{
		Message:  message,
		Severity: SeverityForLevel(level),
	}
	if ev.IsFault() {
		ev.StackTrace = string(debug.Stack())
	}
	h.bus.Publish(ev)
}

// Recover publishes a recovered panic as an exception event and panics
// again with the same value.
// Usage: defer bus.Recover()
func (b *Bus) Recover() {
	if r := recover(); r != nil {
		b.Publish(PanicEvent(r, debug.Stack()))
		panic(r)
	}
}

// PanicEvent converts a recovered panic value into an exception event.
func PanicEvent(r any, stack []byte) model.DiagnosticEvent {
	msg := fmt.Sprintf("panic: %v", r)
	if err, ok := r.(error); ok {
		msg = fmt.Sprintf("panic: %s", err.Error())
	}
	return model.DiagnosticEvent{
		Message:    msg,
		StackTrace: string(stack),
		Severity:   model.SeverityException,
	}
}
