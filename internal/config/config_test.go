package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winselect/internal/xengine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if *cfg != *def {
		t.Fatalf("expected defaults %+v, got %+v", def, cfg)
	}
	if cfg.CursorType() != xengine.CursorCrosshair {
		t.Fatalf("expected crosshair default, got %s", cfg.CursorType())
	}
}

func TestLoadFromPathOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
display: ":1"
decorations: false
cursor: cross
tolerance: 5
button: 3
log_level: debug
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Display != ":1" || cfg.Decorations || cfg.Tolerance != 5 || cfg.Button != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.CursorType() != xengine.CursorCross {
		t.Fatalf("expected cross cursor, got %s", cfg.CursorType())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
	if !cfg.KeyboardGrab || cfg.PollIntervalMS != 10 {
		t.Fatalf("unset keys must keep defaults: %+v", cfg)
	}
}

func TestLoadFromPathEmptyFile(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Format != DefaultFormat {
		t.Fatalf("expected default format, got %q", cfg.Format)
	}
}

func TestLoadFromPathRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "cursr: cross\n"))
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "cursr") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestLoadFromPathRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"cursor":    "cursor: hand\n",
		"tolerance": "tolerance: -1\n",
		"button":    "button: 0\n",
		"poll":      "poll_interval_ms: 0\n",
		"format":    "format: \"  \"\n",
		"log_level": "log_level: loud\n",
	}
	for name, content := range cases {
		if _, err := LoadFromPath(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestMarshalRoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cursor = "lower-right"
	cfg.CaptureDir = "/tmp/shots"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("load marshalled config: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("expected %+v, got %+v", cfg, got)
	}
}
