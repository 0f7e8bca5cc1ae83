package ui

import (
	"fmt"
	"io"
	"os"
)

type Logger struct {
	Debug bool
	out   io.Writer
}

func NewLogger(debug bool) *Logger {
	return &Logger{Debug: debug, out: os.Stdout}
}

// NewLoggerTo writes to w instead of stdout; a nil w discards everything.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{Debug: debug, out: w}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out, "[DEBUG] "+format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	fmt.Fprintf(l.out, "[INFO] "+format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	fmt.Fprintf(l.out, "[WARN] "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	fmt.Fprintf(l.out, "[ERROR] "+format, args...)
}
