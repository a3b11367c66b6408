package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsValidChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("tolerance: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	errs := make(chan error, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { offer(changes, c) }, func(err error) { offer(errs, err) })
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("tolerance: 7\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case cfg := <-changes:
			// A write can be observed half-way, after the truncate.
			if cfg.Tolerance != 7 {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch returned %v", err)
			}
			return
		case <-tick.C:
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}

func TestWatchIgnoresInvalidChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	errs := make(chan error, 8)
	go Watch(ctx, path, func(c *Config) { offer(changes, c) }, func(err error) { offer(errs, err) })

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if err := os.WriteFile(path, []byte("tolerance: -3\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case <-errs:
			for {
				select {
				case c := <-changes:
					if c.Tolerance < 0 {
						t.Fatalf("invalid config must not be applied, got %+v", c)
					}
				default:
					return
				}
			}
		case <-tick.C:
		case <-deadline:
			t.Fatalf("no validation error observed")
		}
	}
}

// offer sends without blocking so a slow test never stalls the watcher.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.yaml")
	if err := Watch(context.Background(), path, func(*Config) {}, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
