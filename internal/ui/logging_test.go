package ui

import (
	"bytes"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false)

	l.Debugf("hidden %d\n", 1)
	l.Infof("page %d\n", 2)
	l.Warnf("stale\n")
	l.Errorf("boom\n")

	want := "[INFO] page 2\n[WARN] stale\n[ERROR] boom\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	l.Debug = true
	l.Debugf("shown\n")
	if buf.String() != "[DEBUG] shown\n" {
		t.Fatalf("debug output = %q", buf.String())
	}
}

func TestNilWriterDiscards(t *testing.T) {
	l := NewLoggerTo(nil, true)
	l.Debugf("nothing %s\n", "here")
	l.Errorf("nothing\n")
}
