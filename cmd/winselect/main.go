package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/1broseidon/winselect/internal/capture"
	"github.com/1broseidon/winselect/internal/config"
	"github.com/1broseidon/winselect/internal/selection"
	"github.com/1broseidon/winselect/internal/x11"
	"github.com/1broseidon/winselect/internal/xengine"
)

func main() {
	if len(os.Args) < 2 || (strings.HasPrefix(os.Args[1], "-") && !isHelp(os.Args[1])) {
		os.Exit(runSelect(os.Args[1:]))
	}

	switch os.Args[1] {
	case "select":
		os.Exit(runSelect(os.Args[2:]))
	case "geometry":
		os.Exit(runGeometry(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winselect [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  select              Click a window or drag a region (default)")
	fmt.Fprintln(w, "  geometry            Print the geometry of a window without interaction")
	fmt.Fprintln(w, "  monitors            List RandR monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winselect <command> --help' for command-specific options.")
}

// selectFlags holds the command-line overrides for a selection. Only flags
// the user actually passed replace config values.
type selectFlags struct {
	configPath   string
	display      string
	decorations  bool
	keyboardGrab bool
	cursor       string
	tolerance    int
	button       int
	format       string
	logLevel     string
	captureDir   string
	clipboard    bool
}

func (f *selectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Config file path (default: ~/.config/winselect/config.yaml)")
	fs.StringVar(&f.display, "display", "", "X display to use (default: $DISPLAY)")
	fs.BoolVar(&f.decorations, "decorations", true, "Include window-manager frames when a window is clicked")
	fs.BoolVar(&f.keyboardGrab, "keyboard-grab", true, "Grab the keyboard so any key cancels")
	fs.StringVar(&f.cursor, "cursor", "", "Cursor: left, crosshair, cross, upper-left, upper-right, lower-left, lower-right")
	fs.IntVar(&f.tolerance, "tolerance", 0, "Largest drag in pixels still treated as a click")
	fs.IntVar(&f.button, "button", 0, "Mouse button that selects")
	fs.StringVar(&f.format, "format", "", "Output format, e.g. '%g\\n' (see 'winselect select --help')")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.captureDir, "capture-dir", "", "Save a PNG of the selection in this directory")
	fs.BoolVar(&f.clipboard, "clipboard", false, "Copy the output to the clipboard")
}

// apply overlays the flags set on fs onto cfg.
func (f *selectFlags) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "display":
			cfg.Display = f.display
		case "decorations":
			cfg.Decorations = f.decorations
		case "keyboard-grab":
			cfg.KeyboardGrab = f.keyboardGrab
		case "cursor":
			cfg.Cursor = f.cursor
		case "tolerance":
			cfg.Tolerance = f.tolerance
		case "button":
			cfg.Button = f.button
		case "format":
			cfg.Format = f.format
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "capture-dir":
			cfg.CaptureDir = f.captureDir
		case "clipboard":
			cfg.Clipboard = f.clipboard
		}
	})
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

// selectConfig parses select arguments and returns the effective config.
func selectConfig(args []string, stderr io.Writer) (*config.Config, error) {
	var flags selectFlags
	fs := flag.NewFlagSet("select", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: winselect [select] [options]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Click a window to select it, or drag to select a region. Any key cancels.")
		fmt.Fprintln(stderr, "")
		io.WriteString(stderr, "Format verbs: %x %y %w %h %g (WxH+X+Y) %i/%I (window id) %b (border)\n")
		io.WriteString(stderr, "              %c (1 if cancelled) %m (monitor) %% and escapes \\n \\t\n")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	flags.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func openDisplay(cfg *config.Config) (*xengine.Engine, *x11.Connection, error) {
	return x11.Open(cfg.Display, xengine.Policy{Logf: log.Printf})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSelect(args []string) int {
	cfg, err := selectConfig(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	logger := newLogger(cfg)

	eng, conn, err := openDisplay(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer eng.Close()

	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(os.Stderr, "Click a window or drag a region. Press any key to cancel.")
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := selection.Run(ctx, eng, selection.OptionsFromConfig(cfg, logger))
	if errors.Is(err, selection.ErrCancelled) {
		fmt.Print(selection.Format(cfg.Format, res))
		return 1
	}
	if err != nil {
		// Grabs are already released; the deferred Close drops the
		// connection before the process exits.
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res.Monitor = conn.MonitorName(res.Rect)

	out := selection.Format(cfg.Format, res)
	fmt.Print(out)
	return finishOutput(cfg, logger, res, out)
}

// finishOutput saves a capture and fills the clipboard when configured.
func finishOutput(cfg *config.Config, logger *slog.Logger, res selection.Result, out string) int {
	code := 0
	if cfg.CaptureDir != "" {
		path := capture.FileName(cfg.CaptureDir, time.Now())
		if err := capture.SavePNG(res.Rect, path); err != nil {
			logger.Error("capture failed", "error", err)
			code = 1
		} else {
			logger.Info("capture saved", "path", path)
		}
	}
	if cfg.Clipboard {
		if err := capture.CopyText(strings.TrimRight(out, "\n")); err != nil {
			logger.Error("clipboard copy failed", "error", err)
			code = 1
		}
	}
	return code
}
