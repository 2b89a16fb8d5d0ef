package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{" Warn ", LevelWarn},
		{"loud", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(out, "[WARN] shown 1") {
		t.Errorf("output = %q", out)
	}

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Error("SetLevel did not take effect")
	}
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelInfo)
	root.SetOutput(&buf)

	child := root.Named("store").Named("sqlite")
	child.Info("opened")
	if !strings.Contains(buf.String(), "store.sqlite: opened") {
		t.Errorf("output = %q", buf.String())
	}

	// Children follow the parent's level.
	root.SetLevel(LevelError)
	child.Info("suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("child ignored parent level change")
	}
}

func TestLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug)
	l.SetOutput(&buf)
	l.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 6e6, time.UTC) }

	l.Named("watch").Error("lost %s", "file")
	if got, want := buf.String(), "03:04:05.006 [ERROR] watch: lost file\n"; got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestLogger_Enabled(t *testing.T) {
	l := New(LevelWarn)
	if l.Enabled(LevelInfo) || !l.Enabled(LevelError) {
		t.Error("Enabled disagrees with the level")
	}
	if Discard().Enabled(LevelError) {
		t.Error("Discard should enable nothing")
	}
	if got := Level(9).String(); got != "UNKNOWN" {
		t.Errorf("Level(9) = %q", got)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completionist.log")
	l, closer, err := OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	l.Named("x").Warn("nothing")
}
