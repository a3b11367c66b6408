package selection

import (
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winselect/internal/config"
)

// OptionsFromConfig builds selection options from a validated config.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Decorations:  cfg.Decorations,
		KeyboardGrab: cfg.KeyboardGrab,
		Cursor:       cfg.CursorType(),
		Tolerance:    cfg.Tolerance,
		Button:       xproto.Button(cfg.Button),
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		Logger:       logger,
	}
}
