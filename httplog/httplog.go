// Package httplog provides the structured request-lifecycle logging used by
// the bizcore client: one event per request, response, retry, and terminal
// error, with sensitive query-parameter values scrubbed before any event
// leaves the package.
package httplog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Kind identifies the lifecycle stage an Event describes.
type Kind string

const (
	// KindRequest is emitted once, before the first attempt.
	KindRequest Kind = "request"
	// KindResponse is emitted once, on a successful terminal outcome.
	KindResponse Kind = "response"
	// KindRetry is emitted before each backoff sleep.
	KindRetry Kind = "retry"
	// KindError is emitted once, on a failed terminal outcome.
	KindError Kind = "error"
)

// Event is a single request-lifecycle record. URLs carried on an Event are
// redacted before the event reaches any sink.
type Event struct {
	Timestamp   time.Time
	Kind        Kind
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	DurationMS  int64
	Error       string
	Attempt     int
	MaxAttempts int
}

// Sink receives every emitted event. Sinks must not block; they are called
// synchronously on the requesting goroutine.
type Sink func(Event)

// Logger fans events out to the always-on console logger and, when one is
// registered, a single external sink. The zero value is not usable; construct
// with New or NewWithWriter.
type Logger struct {
	mu      sync.Mutex
	sink    Sink
	sinkGen uint64
	console zerolog.Logger
}

// New returns a Logger whose console output goes to stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a Logger whose console output goes to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		console: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// SetSink registers fn as the external sink. At most one sink is active;
// registering a new one replaces the previous. The returned function
// unregisters fn, unless a later registration has already replaced it.
func (l *Logger) SetSink(fn Sink) func() {
	l.mu.Lock()
	l.sink = fn
	l.sinkGen++
	gen := l.sinkGen
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		if l.sinkGen == gen {
			l.sink = nil
		}
		l.mu.Unlock()
	}
}

// Emit redacts the event's URL and delivers it to the console logger and the
// registered sink, if any.
func (l *Logger) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.URL = Redact(ev.URL)

	l.logConsole(ev)

	l.mu.Lock()
	sink := l.sink
	l.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

func (l *Logger) logConsole(ev Event) {
	var entry *zerolog.Event
	switch ev.Kind {
	case KindRetry:
		entry = l.console.Warn()
	case KindError:
		entry = l.console.Error()
	case KindResponse:
		entry = l.console.Info()
	default:
		entry = l.console.Debug()
	}

	entry = entry.
		Str("kind", string(ev.Kind)).
		Str("method", ev.Method).
		Str("url", ev.URL)
	if ev.RequestID != "" {
		entry = entry.Str("request_id", ev.RequestID)
	}
	if ev.StatusCode != 0 {
		entry = entry.Int("status", ev.StatusCode)
	}
	if ev.Kind == KindResponse || ev.Kind == KindError {
		entry = entry.Int64("duration_ms", ev.DurationMS)
	}
	if ev.Attempt != 0 {
		entry = entry.Int("attempt", ev.Attempt).Int("max_attempts", ev.MaxAttempts)
	}
	if ev.Error != "" {
		entry = entry.Str("error", ev.Error)
	}
	entry.Send()
}
