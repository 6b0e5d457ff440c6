package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubConfig struct {
	level, output, file string
}

func (c stubConfig) GetLevel() string  { return c.level }
func (c stubConfig) GetOutput() string { return c.output }
func (c stubConfig) GetFile() string   { return c.file }

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		" INFO ":  INFO,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"verbose": INFO,
	}
	for input, want := range cases {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestNewFromConfigWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewFromConfig(stubConfig{level: "info", output: "file", file: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.Info("indexed %d events", 3)
	l.Debug("hidden at info level")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "indexed 3 events") {
		t.Fatalf("expected info message in log file, got %q", data)
	}
	if strings.Contains(string(data), "hidden at info level") {
		t.Fatalf("debug message should be filtered at info level")
	}
}

func TestNewFromConfigRejectsUnknownOutput(t *testing.T) {
	if _, err := NewFromConfig(stubConfig{output: "syslog"}); err == nil {
		t.Fatalf("expected error for unsupported output")
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != Default() {
		t.Fatalf("expected default logger for nil")
	}
	nop := NewNop()
	if OrDefault(nop) != nop {
		t.Fatalf("expected provided logger to be returned")
	}
}
