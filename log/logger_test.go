package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	specs := []struct {
		name     string
		expLevel Level
		expErr   bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" warning ", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for specIndex, spec := range specs {
		level, err := ParseLevel(spec.name)
		if spec.expErr != (err != nil) {
			t.Fatalf("[spec %d] expected error = %t; got %v", specIndex, spec.expErr, err)
		}
		if level != spec.expLevel {
			t.Fatalf("[spec %d] expected level %d; got %d", specIndex, spec.expLevel, level)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetLevel(Notice)
	}()

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden message")
	logger.Warning("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected info message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message tagged with the logger name; got %q", out)
	}

	SetLevel(Debug)
	logger.Debugf("value %d", 42)
	if !strings.Contains(buf.String(), "value 42") {
		t.Fatalf("expected debug message after raising verbosity; got %q", buf.String())
	}
}

func TestSetLevelOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer func() {
		SetLevel(Notice)
	}()

	logger := New("test")
	SetLevel(Level(42))
	logger.Warning("filtered warning")
	logger.Error("visible error")

	out := buf.String()
	if strings.Contains(out, "filtered warning") || !strings.Contains(out, "visible error") {
		t.Fatalf("expected out of range level to behave as Error; got %q", out)
	}
}
