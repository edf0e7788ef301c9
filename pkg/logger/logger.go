// Package logger provides the structured, logfmt-encoded logger used
// throughout thumper. It matches the same key/value shape on every line
// (level, msg, ...fields) so operators can grep or pipe output into
// a log processor regardless of subcommand.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-logfmt/logfmt"
)

// Logger writes logfmt-encoded lines to an io.Writer. It is safe for
// concurrent use by many goroutines, as the executor's action workers all
// log through the same instance.
type Logger struct {
	encoder *logfmt.Encoder
	mu      sync.Mutex
	verbose bool
}

// New builds a Logger writing to output. If output is nil, os.Stderr is used
// so that normal stdout stays reserved for dry-run plan printing.
func New(output io.Writer, verbose bool) *Logger {
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		encoder: logfmt.NewEncoder(output),
		verbose: verbose,
	}
}

// NewDefault builds a Logger writing to os.Stderr in non-verbose mode.
func NewDefault() *Logger {
	return New(os.Stderr, false)
}

func (l *Logger) log(level string, msg string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.encoder.EncodeKeyval("level", level)
	_ = l.encoder.EncodeKeyval("msg", msg)

	for k, v := range fields {
		_ = l.encoder.EncodeKeyval(k, v)
	}

	_ = l.encoder.EndRecord()
}

// Info logs an informational line.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

// Verbose logs a line only when the logger was constructed with verbose
// mode on; it is used for the executor's per-action logging.
func (l *Logger) Verbose(msg string, fields map[string]any) {
	if !l.verbose {
		return
	}
	l.log("debug", msg, fields)
}

// Error logs an error line, folding err into the "error" field.
func (l *Logger) Error(msg string, err error, fields map[string]any) {
	if fields == nil {
		fields = make(map[string]any)
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.log("error", msg, fields)
}

// Warn logs a warning line.
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.log("warn", msg, fields)
}

// IsVerbose reports whether verbose logging is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

var defaultLogger = NewDefault()

// SetDefault replaces the package-level default logger used by the
// package-level Info, Error, Warn and Fatalf functions.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func Info(msg string, fields map[string]any) {
	defaultLogger.Info(msg, fields)
}

func Error(msg string, err error, fields map[string]any) {
	defaultLogger.Error(msg, err, fields)
}

func Warn(msg string, fields map[string]any) {
	defaultLogger.Warn(msg, fields)
}

func Fatalf(format string, args ...any) {
	defaultLogger.Error(fmt.Sprintf(format, args...), nil, nil)
	os.Exit(1)
}
