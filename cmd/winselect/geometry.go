package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/winselect/internal/selection"
	"github.com/1broseidon/winselect/internal/x11"
	"github.com/1broseidon/winselect/internal/xengine"
)

func printGeometryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winselect geometry [options] <window-id>")
	fmt.Fprintln(w, "       winselect geometry [options] --active")
	fmt.Fprintln(w, "       winselect geometry [options] --title TEXT")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Print the geometry of a window without interactive selection.")
	fmt.Fprintln(w, "Window ids are accepted in hex (0x1e00007) or decimal.")
}

func runGeometry(args []string) int {
	fs := flag.NewFlagSet("geometry", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winselect/config.yaml)")
	display := fs.String("display", "", "X display to use (default: $DISPLAY)")
	active := fs.Bool("active", false, "Use the active window")
	title := fs.String("title", "", "Use the first window whose title contains TEXT")
	decorations := fs.Bool("decorations", true, "Include window-manager frames")
	format := fs.String("format", "", "Output format (default: config format)")
	verbose := fs.Bool("v", false, "Also print title, class, pid and frame extents")
	fs.Usage = func() {
		printGeometryUsage(os.Stderr)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "geometry takes at most one window id")
		return 2
	}

	target := x11.Target{ID: fs.Arg(0), Active: *active, Title: *title}
	if err := target.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "")
		printGeometryUsage(os.Stderr)
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "display":
			cfg.Display = *display
		case "decorations":
			cfg.Decorations = *decorations
		case "format":
			cfg.Format = *format
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	eng, conn, err := openDisplay(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer eng.Close()

	win, err := conn.Lookup(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	rect, err := eng.ResolveGeometry(win, cfg.Decorations)
	if err != nil && cfg.Decorations && !xengine.IsFatal(err) {
		rect, err = eng.ResolveGeometry(win, false)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *verbose {
		info := conn.Describe(win)
		left, right, top, bottom := conn.FrameExtents(win)
		fmt.Printf("Window:  0x%x\n", win)
		fmt.Printf("Title:   %s\n", info.Title)
		fmt.Printf("Class:   %s\n", info.Class)
		if info.PID > 0 {
			fmt.Printf("PID:     %d\n", info.PID)
		}
		fmt.Printf("Extents: left=%d right=%d top=%d bottom=%d\n", left, right, top, bottom)
	}

	res := selection.Result{Rect: rect, Window: win, Clicked: true}
	res.Monitor = conn.MonitorName(rect)
	fmt.Print(selection.Format(cfg.Format, res))
	return 0
}
