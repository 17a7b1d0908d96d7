package diag

import (
	"sync"

	"go.uber.org/zap"
)

// Sink receives diagnostic events. Implementations must tolerate concurrent
// appends from multiple in-flight generation calls; ordering across calls is
// not guaranteed, but events from a single call arrive in emission order.
type Sink interface {
	Emit(event Event)
}

// MemorySink is an append-only, mutex-guarded event log. It is the default
// sink and the one tests inspect.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends the event to the log
func (s *MemorySink) Emit(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of all recorded events in append order
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsWithCode returns all recorded events carrying the given code
func (s *MemorySink) EventsWithCode(code string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Reset clears the log (used for testing)
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// ZapSink forwards events to a zap logger as structured log entries.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink backed by the given zap logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Emit logs the event at the level matching its severity
func (s *ZapSink) Emit(event Event) {
	fields := make([]zap.Field, 0, len(event.Context)+3)
	fields = append(fields,
		zap.String("code", event.Code),
		zap.String("concern", ConcernFor(event.Code)),
	)
	if event.Correlation != "" {
		fields = append(fields, zap.String("correlation", event.Correlation))
	}
	for _, f := range event.Context {
		fields = append(fields, zap.Any(f.Key, f.Value))
	}

	switch event.Severity {
	case Warn:
		s.logger.Warn(event.Message, fields...)
	case Error:
		s.logger.Error(event.Message, fields...)
	default:
		s.logger.Info(event.Message, fields...)
	}
}

// MultiSink fans out every event to all member sinks in order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink that forwards to all given sinks
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit forwards the event to every member sink
func (s *MultiSink) Emit(event Event) {
	for _, sink := range s.sinks {
		sink.Emit(event)
	}
}

// Discard is a sink that drops every event.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Emit(Event) {}
