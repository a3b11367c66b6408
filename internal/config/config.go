package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/winselect/internal/xengine"
)

// DefaultFormat prints the selection the way most screenshot tools expect.
const DefaultFormat = `%x %y %w %h %g %i\n`

// Config is the effective winselect configuration.
type Config struct {
	// Display is the X display to open. Empty means $DISPLAY.
	Display string `yaml:"display"`
	// Decorations includes window-manager frames when a window is clicked.
	Decorations bool `yaml:"decorations"`
	// KeyboardGrab tries to take an exclusive keyboard grab during selection.
	KeyboardGrab bool `yaml:"keyboard_grab"`
	// Cursor is the pointer shown while nothing is being dragged.
	Cursor string `yaml:"cursor"`
	// Tolerance is how far, in pixels, the pointer may travel between press
	// and release for the click to still select a window.
	Tolerance int `yaml:"tolerance"`
	// Button is the mouse button that selects.
	Button int `yaml:"button"`
	// PollIntervalMS is the delay between event drains.
	PollIntervalMS int `yaml:"poll_interval_ms"`
	// Format is the output template, see selection.Format.
	Format string `yaml:"format"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// CaptureDir, when set, saves a PNG of every selection there.
	CaptureDir string `yaml:"capture_dir"`
	// Clipboard copies the formatted output to the clipboard.
	Clipboard bool `yaml:"clipboard"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Decorations:    true,
		KeyboardGrab:   true,
		Cursor:         xengine.CursorCrosshair.String(),
		Tolerance:      2,
		Button:         1,
		PollIntervalMS: 10,
		Format:         DefaultFormat,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for values the selection loop cannot use.
func (c *Config) Validate() error {
	if _, err := xengine.ParseCursorType(c.Cursor); err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be >= 0, got %d", c.Tolerance)
	}
	if c.Button < 1 || c.Button > 255 {
		return fmt.Errorf("button must be between 1 and 255, got %d", c.Button)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be > 0, got %d", c.PollIntervalMS)
	}
	if strings.TrimSpace(c.Format) == "" {
		return fmt.Errorf("format must not be empty")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// CursorType returns the parsed cursor. Call Validate first.
func (c *Config) CursorType() xengine.CursorType {
	t, _ := xengine.ParseCursorType(c.Cursor)
	return t
}

// SlogLevel returns the parsed log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps a config log level to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", s)
	}
}
