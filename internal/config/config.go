// Package config loads the pad settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"SignPad/internal/export"
	"SignPad/internal/state"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Pen      Pen      `toml:"pen"`
	Canvas   Canvas   `toml:"canvas"`
	Snapshot Snapshot `toml:"snapshot"`
	Mirror   Mirror   `toml:"mirror"`
	LogLevel string   `toml:"log_level"`
}

type Pen struct {
	Color state.Color `toml:"color"`
	Width float64     `toml:"width"`
	Mode  state.Mode  `toml:"mode"`
}

type Canvas struct {
	Color        state.Color `toml:"color"`
	Background   string      `toml:"background"`
	TouchEnabled bool        `toml:"touch_enabled"`
	Width        float32     `toml:"width"`
	Height       float32     `toml:"height"`
}

type Snapshot struct {
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
	Dir     string `toml:"dir"`
}

type Mirror struct {
	Enabled bool `toml:"enabled"`
	Port    int  `toml:"port"`
	MDNS    bool `toml:"mdns"`
}

// Default matches the stock pad: a light pen on a dark canvas.
func Default() Config {
	opts := state.DefaultOptions()
	return Config{
		Pen: Pen{
			Color: opts.Color,
			Width: opts.StrokeWidth,
			Mode:  opts.Mode,
		},
		Canvas: Canvas{
			Color:        opts.CanvasColor,
			TouchEnabled: opts.TouchEnabled,
			Width:        1024,
			Height:       768,
		},
		Snapshot: Snapshot{
			Format:  "png",
			Quality: 100,
			Dir:     ".",
		},
		Mirror: Mirror{
			Port: 8888,
			MDNS: true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return cfg, fmt.Errorf("unknown config keys in %s: %v", path, undec)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Pen.Width <= 0 {
		errs = append(errs, fmt.Errorf("pen.width must be positive, got %v", c.Pen.Width))
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height))
	}
	if _, err := export.ParseFormat(c.Snapshot.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Snapshot.Quality < 0 || c.Snapshot.Quality > 100 {
		errs = append(errs, fmt.Errorf("snapshot.quality must be within 0..100, got %d", c.Snapshot.Quality))
	}
	if c.Mirror.Enabled && (c.Mirror.Port <= 0 || c.Mirror.Port > 65535) {
		errs = append(errs, fmt.Errorf("mirror.port out of range: %d", c.Mirror.Port))
	}
	return errors.Join(errs...)
}

// SessionOptions converts the pen and canvas settings. The background
// image, if any, is decoded by the caller.
func (c Config) SessionOptions() state.Options {
	return state.Options{
		Color:        c.Pen.Color,
		StrokeWidth:  c.Pen.Width,
		Mode:         c.Pen.Mode,
		TouchEnabled: c.Canvas.TouchEnabled,
		CanvasColor:  c.Canvas.Color,
	}
}

// SnapshotConfig converts the snapshot settings. Validate has already
// rejected unknown formats.
func (c Config) SnapshotConfig() export.SnapshotConfig {
	format, _ := export.ParseFormat(c.Snapshot.Format)
	return export.SnapshotConfig{Format: format, Quality: c.Snapshot.Quality}
}
