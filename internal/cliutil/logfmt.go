// Package cliutil carries the CLI's user-facing output helpers: structured
// lifecycle log records and secret redaction.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// LogRecord represents a structured lifecycle event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	PID       int       `json:"pid,omitempty"`
	Message   string    `json:"msg"`
}

// Logger writes lifecycle events as JSON lines, or as plain text when the
// destination is an interactive terminal.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	errw io.Writer
	enc  *json.Encoder
	tty  bool
}

// NewLogger builds a logger for the given destination. Encoding failures
// are reported to errw rather than dropped silently.
func NewLogger(out, errw io.Writer) *Logger {
	l := &Logger{out: out, errw: errw}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		l.tty = true
	} else {
		l.enc = json.NewEncoder(out)
	}
	return l
}

// Info records an informational lifecycle event for the given pid. A pid of
// zero means the event is not tied to a process.
func (l *Logger) Info(pid int, message string) {
	l.log("info", pid, message)
}

// Error records an error-level lifecycle event.
func (l *Logger) Error(pid int, message string) {
	l.log("error", pid, message)
}

func (l *Logger) log(level string, pid int, message string) {
	record := LogRecord{
		Timestamp: time.Now(),
		Level:     level,
		PID:       pid,
		Message:   RedactSecrets(message),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tty {
		line := fmt.Sprintf("%s %s %s", record.Timestamp.Format(time.RFC3339), strings.ToUpper(level), record.Message)
		if pid != 0 {
			line = fmt.Sprintf("%s (pid %d)", line, pid)
		}
		fmt.Fprintln(l.out, line)
		return
	}
	if err := l.enc.Encode(&record); err != nil {
		fmt.Fprintf(l.errw, "error: encode log: %v\n", err)
	}
}
