package ui

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"SignPad/internal/export"
	"SignPad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// HostOptions configure the drawing window.
type HostOptions struct {
	Title       string
	Size        fyne.Size
	ShareLink   string
	SnapshotDir string
	Snapshot    export.SnapshotConfig
}

// RunApp shows pad with its toolbar and blocks until the window closes.
func RunApp(pad *Pad, opts HostOptions) {
	a := app.New()
	w := a.NewWindow(opts.Title)
	w.Resize(opts.Size)

	status := widget.NewLabel("Ready")
	if opts.ShareLink != "" {
		status.SetText("Mirroring at " + opts.ShareLink)
	}

	save := func() {
		path, err := SaveSnapshot(pad, opts.Snapshot, opts.SnapshotDir, time.Now())
		if err != nil {
			log.Printf("[PAD] Save failed: %v", err)
			status.SetText("Save failed")
			return
		}
		status.SetText("Saved " + filepath.Base(path))
	}

	toolbar := NewToolbar(pad, Actions{OnSave: save})
	w.SetContent(container.NewBorder(toolbar, status, nil, nil, pad))
	w.ShowAndRun()
}

// SaveSnapshot captures pad and writes the encoded image into dir.
func SaveSnapshot(pad *Pad, cfg export.SnapshotConfig, dir string, now time.Time) (string, error) {
	snap, ok := pad.Snapshot(&cfg)
	if !ok {
		return "", fmt.Errorf("nothing to capture")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "signature-"+now.Format("20060102-150405")+snap.Format.Ext())
	if err := os.WriteFile(path, snap.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[PAD] Saved %dx%d snapshot to %s", snap.Width, snap.Height, path)
	return path, nil
}

// NewViewer returns a read-only surface that shows a mirrored drawing, and
// the function to call when the replica changed.
func NewViewer(replica *state.Replica, canvasColor state.Color) (fyne.CanvasObject, func()) {
	var raster *canvas.Raster
	raster = canvas.NewRaster(func(w, h int) image.Image {
		size := raster.Size()
		frame := state.Frame{
			Strokes:     replica.Strokes(),
			CanvasColor: canvasColor,
			Width:       float64(size.Width),
			Height:      float64(size.Height),
		}
		if frame.Width > 0 {
			if img := export.Render(frame, float64(w)/frame.Width); img != nil {
				return img
			}
		}
		return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	})
	raster.SetMinSize(fyne.NewSize(300, 300))
	return raster, func() { fyne.Do(raster.Refresh) }
}

// RunViewer shows a mirrored drawing and blocks until the window closes.
// connect runs in the background with the refresh callback.
func RunViewer(title string, size fyne.Size, replica *state.Replica, canvasColor state.Color, connect func(refresh func())) {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(size)

	view, refresh := NewViewer(replica, canvasColor)
	w.SetContent(view)
	go connect(refresh)
	w.ShowAndRun()
}
