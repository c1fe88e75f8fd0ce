// Package logging writes one JSON object per line, the format used by the
// request logger and every component log in this service.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger emits structured JSON log lines. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w with timestamps in loc (UTC if nil).
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

var std = New(os.Stdout, time.UTC)

// Default returns the process-wide stdout logger.
func Default() *Logger { return std }

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) { std = l }

// Location returns the time zone used for the ts field.
func (l *Logger) Location() *time.Location { return l.loc }

// Info logs msg with level info.
func (l *Logger) Info(msg string, fields map[string]any) { l.Log("info", msg, fields) }

// Error logs msg with level error and the error text under "error".
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Log("error", msg, fields)
}

// Log writes a single entry. ts, level and msg are set unless fields already carries them.
func (l *Logger) Log(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	if _, ok := entry["ts"]; !ok {
		entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	}
	if _, ok := entry["level"]; !ok {
		entry["level"] = level
	}
	if msg != "" {
		entry["msg"] = msg
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}
