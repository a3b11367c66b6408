package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/1broseidon/winselect/internal/config"
	"github.com/1broseidon/winselect/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winselect mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winselect mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/winselect/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winselect mcp serve [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio. Designed to be invoked by MCP clients.")
		fmt.Fprintln(os.Stderr, "Tools: select_region, window_geometry.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout carries the protocol; all logging goes to stderr.
	logger := newLogger(cfg)
	server := mcp.NewServer(cfg, logger)

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		err := config.Watch(ctx, path, server.SetConfig, func(err error) {
			logger.Warn("config reload failed", "path", path, "error", err)
		})
		if err != nil {
			logger.Debug("config watch disabled", "error", err)
		}
	}()

	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	return 0
}
