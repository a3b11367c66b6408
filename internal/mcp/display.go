package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	getenvFn  = os.Getenv
	readDirFn = os.ReadDir
	statFn    = os.Stat
)

// resolveDisplay picks the X display for a tool call. MCP clients often
// launch the server without DISPLAY, so the local X socket directory is the
// last resort.
func resolveDisplay(configured string) (string, error) {
	if d := strings.TrimSpace(configured); d != "" {
		return d, nil
	}
	if d := strings.TrimSpace(getenvFn("DISPLAY")); d != "" {
		return d, nil
	}
	if d := detectDisplayFromSockets("/tmp/.X11-unix"); d != "" {
		return d, nil
	}
	return "", fmt.Errorf("no X display: set display in config (e.g. display: \":0\") or export DISPLAY for the MCP server")
}

// ensureXAuthority points XAUTHORITY at ~/.Xauthority when it is unset and
// the file exists, so the X connection can authenticate.
func ensureXAuthority() {
	if strings.TrimSpace(getenvFn("XAUTHORITY")) != "" {
		return
	}
	home := strings.TrimSpace(getenvFn("HOME"))
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		}
	}
	if home == "" {
		return
	}
	candidate := filepath.Join(home, ".Xauthority")
	if _, err := statFn(candidate); err == nil {
		os.Setenv("XAUTHORITY", candidate)
	}
}

func detectDisplayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}

	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		displays = append(displays, n)
	}

	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}
