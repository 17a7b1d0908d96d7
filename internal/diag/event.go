// Package diag provides the structured diagnostics channel for the schema
// engine. Policy boundaries (id collisions, depth limits, enum fallback,
// virtualization) never raise errors; they emit events into a Sink instead.
package diag

import (
	"fmt"
	"time"
)

// Severity represents the severity level of a diagnostic event
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Field is a single structured context entry on an event. Fields keep their
// emission order so event context is reproducible.
type Field struct {
	Key   string
	Value any
}

// String creates a string context field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer context field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Event is a single diagnostic event emitted by the schema engine.
type Event struct {
	// Code is the stable short code (see codes.go)
	Code string

	// Severity is the event severity (Info, Warn, Error)
	Severity Severity

	// Message is the human-readable description
	Message string

	// Time is the emission timestamp
	Time time.Time

	// Correlation ties all events of one top-level generation call together
	Correlation string

	// Context carries optional structured context in emission order
	Context []Field
}

// NewEvent creates an event with the current timestamp
func NewEvent(code string, severity Severity, message string, fields ...Field) Event {
	return Event{
		Code:     code,
		Severity: severity,
		Message:  message,
		Time:     time.Now(),
		Context:  fields,
	}
}

// String renders the event in a compact single-line form
func (e Event) String() string {
	s := fmt.Sprintf("%s [%s] %s", e.Code, e.Severity, e.Message)
	for _, f := range e.Context {
		s += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	return s
}
