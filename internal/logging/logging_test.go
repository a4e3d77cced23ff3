package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultIsSilent(t *testing.T) {
	SetLogger(nil)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("default logger enabled at %v", level)
		}
	}
}

func TestSetup(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	if err := Setup("warn", &buf); err != nil {
		t.Fatal(err)
	}
	Logger().Info("hidden")
	Logger().Warn("shown", "frame", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "frame=3") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestSetupOff(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup("off", &buf); err != nil {
		t.Fatal(err)
	}
	Logger().Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if _, _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	lvl, on, err := ParseLevel("DEBUG")
	if err != nil || !on || lvl != slog.LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v, %v", lvl, on, err)
	}
}
