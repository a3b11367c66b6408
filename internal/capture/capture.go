// Package capture saves selections as images and copies output to the
// clipboard.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/1broseidon/winselect/internal/xengine"
)

// Bounds converts a selection rectangle to image bounds.
func Bounds(r xengine.Rectangle) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// SavePNG captures the screen area under r and writes it to path.
func SavePNG(r xengine.Rectangle, path string) error {
	if r.Empty() {
		return fmt.Errorf("invalid region dimensions: width=%d, height=%d", r.Width, r.Height)
	}

	img, err := screenshot.CaptureRect(Bounds(r))
	if err != nil {
		return fmt.Errorf("failed to capture region: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create capture directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return f.Close()
}

// FileName returns a timestamped capture file name inside dir.
func FileName(dir string, now time.Time) string {
	return filepath.Join(dir, "winselect-"+now.Format("20060102-150405.000")+".png")
}
