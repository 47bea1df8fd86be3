package logging

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Logger writes one JSON object per line.
// Every entry carries "ts" (RFC3339Nano in the configured location) and "level".
// When "level" is not provided it is derived from "status": "error" maps to error, anything else to info.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
}

// New creates a Logger writing to w with timestamps rendered in loc (UTC if nil).
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{w: w, loc: loc}
}

// Location returns the time zone used for the "ts" field.
func (l *Logger) Location() *time.Location {
	return l.loc
}

// Log writes data as a single JSON line. The map is modified in place.
func (l *Logger) Log(data map[string]any) {
	if l == nil {
		return
	}
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		b, _ = json.Marshal(map[string]any{
			"ts":    data["ts"],
			"level": "error",
			"msg":   "log_marshal_failed",
			"error": err.Error(),
		})
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(b)
}

// Info logs msg with optional extra fields at info level.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.Log(merge(fields, map[string]any{"level": "info", "msg": msg}))
}

// Error logs msg and err at error level.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	entry := map[string]any{"level": "error", "msg": msg}
	if err != nil {
		entry["error"] = err.Error()
	}
	l.Log(merge(fields, entry))
}

func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra)+2)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
