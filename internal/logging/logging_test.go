package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) should return error")
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn message should be written, got:\n%s", out)
	}
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(&buf, "info")

	cl := Component(l, "form")
	cl.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"form"`) {
		t.Errorf("output should carry component field, got:\n%s", buf.String())
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	l, closeFn, err := Open("", "info")
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	l.Info().Msg("nowhere")
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "contactbook.log")

	l, closeFn, err := Open(path, "info")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	l.Info().Msg("first")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	l, closeFn, err = Open(path, "info")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	l.Info().Msg("second")
	_ = closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file should contain both entries, got:\n%s", data)
	}
}

func TestOpen_InvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	_, closeFn, err := Open(path, "loud")
	if err == nil {
		t.Fatal("Open with invalid level should fail")
	}
	if closeFn == nil {
		t.Fatal("close func should never be nil")
	}
}
