// Package logging provides structured JSON logging for fiaba components.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fiabamia/fiaba/internal/config"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Session   string                 `json:"session,omitempty"`
	Book      string                 `json:"book,omitempty"`
	Request   string                 `json:"request,omitempty"`
	Duration  int64                  `json:"duration_ms,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	component string
	session   string
	book      string
	out       io.Writer
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component, out: os.Stderr}
}

// WithSession sets the session context
func (l *Logger) WithSession(sessionID string) *Logger {
	c := *l
	c.session = sessionID
	return &c
}

// WithBook sets the book context
func (l *Logger) WithBook(bookID string) *Logger {
	c := *l
	c.book = bookID
	return &c
}

// SetOutput redirects log output (for testing).
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	if level == LevelDebug && !config.Get().Debug {
		return
	}

	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Session:   l.session,
		Book:      l.book,
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an info event with the elapsed duration since start.
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		Session:   l.session,
		Book:      l.book,
		Duration:  time.Since(start).Milliseconds(),
		Extra:     extra,
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// RequestEvent logs a completed API request.
func RequestEvent(method, path, requestID string, status int, duration time.Duration, err error) {
	l := New("api")
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelDebug,
		Component: l.component,
		Event:     "request",
		Request:   requestID,
		Duration:  duration.Milliseconds(),
		Extra: map[string]interface{}{
			"method": method,
			"path":   path,
			"status": status,
		},
	}

	if err != nil {
		e.Level = LevelError
		e.Error = err.Error()
	}
	if e.Level == LevelDebug && !config.Get().Debug {
		return
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
