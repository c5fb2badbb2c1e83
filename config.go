package corona

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Precision is a shader floating point precision hint.
type Precision string

const (
	PrecisionLow    Precision = "lowp"
	PrecisionMedium Precision = "mediump"
	PrecisionHigh   Precision = "highp"
)

// ContentConfig holds the content size restrictions.
type ContentConfig struct {
	MinWidth  int    `toml:"minWidth"`
	MaxWidth  int    `toml:"maxWidth"`
	MinHeight int    `toml:"minHeight"`
	MaxHeight int    `toml:"maxHeight"`
	Scale     int    `toml:"scale"`    // preferred content-to-screen scale, 0 searches
	TieBreak  string `toml:"tieBreak"` // "larger" or "smaller"
	FPS       int    `toml:"fps"`
}

// ShaderPrecisionConfig holds per-stage precision hints.
type ShaderPrecisionConfig struct {
	Default  Precision `toml:"default"`
	Vertex   Precision `toml:"vertex"`
	Fragment Precision `toml:"fragment"`
}

// DefaultsConfig seeds the display defaults.
type DefaultsConfig struct {
	Background []float64 `toml:"background"`
	AnchorX    *float64  `toml:"anchorX"`
	AnchorY    *float64  `toml:"anchorY"`
}

// Config is the one-time configuration read at initialization.
type Config struct {
	Content         ContentConfig         `toml:"content"`
	ShaderPrecision ShaderPrecisionConfig `toml:"shaderPrecision"`
	Defaults        DefaultsConfig        `toml:"defaults"`
}

// DefaultConfig returns the engine defaults: no content restrictions (the
// legacy 1280x720 canvas), 30 fps, and medium precision.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{TieBreak: "larger", FPS: 30},
		ShaderPrecision: ShaderPrecisionConfig{
			Default:  PrecisionMedium,
			Vertex:   PrecisionMedium,
			Fragment: PrecisionMedium,
		},
	}
}

func (c Config) isZero() bool {
	return c.Content == (ContentConfig{}) && c.ShaderPrecision == (ShaderPrecisionConfig{}) &&
		c.Defaults.Background == nil && c.Defaults.AnchorX == nil && c.Defaults.AnchorY == nil
}

func (c Config) tieBreak() TieBreak {
	if c.Content.TieBreak == "smaller" {
		return TieSmallerScale
	}
	return TieLargerScale
}

// ParseConfig decodes TOML config data. It always returns a usable Config:
// on a decode error the defaults are returned together with the error, and
// out-of-range fields are sanitized.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrap(err, "corona: parse config")
	}
	cfg.sanitize()
	return cfg, nil
}

// LoadConfig reads and parses the config file at path. A missing file
// yields the defaults and the read error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "corona: read config %s", path)
	}
	return ParseConfig(data)
}

func (c *Config) sanitize() {
	ct := &c.Content
	ct.MinWidth = max(ct.MinWidth, 0)
	ct.MinHeight = max(ct.MinHeight, 0)
	ct.MaxWidth = max(ct.MaxWidth, ct.MinWidth)
	ct.MaxHeight = max(ct.MaxHeight, ct.MinHeight)
	ct.Scale = clampInt(ct.Scale, 0, maxContentScale)
	if ct.TieBreak != "larger" && ct.TieBreak != "smaller" {
		if ct.TieBreak != "" {
			Logger().Warn("unknown tieBreak in config, using larger", "value", ct.TieBreak)
		}
		ct.TieBreak = "larger"
	}
	if ct.FPS != 30 && ct.FPS != 60 {
		if ct.FPS != 0 {
			Logger().Warn("unsupported fps in config, using 30", "value", ct.FPS)
		}
		ct.FPS = 30
	}

	sp := &c.ShaderPrecision
	sp.Default = sanitizePrecision(sp.Default, PrecisionMedium)
	sp.Vertex = sanitizePrecision(sp.Vertex, sp.Default)
	sp.Fragment = sanitizePrecision(sp.Fragment, sp.Default)

	if n := len(c.Defaults.Background); n > 4 {
		Logger().Warn("config background has too many components, ignoring", "components", n)
		c.Defaults.Background = nil
	}
}

func sanitizePrecision(p, fallback Precision) Precision {
	switch p {
	case PrecisionLow, PrecisionMedium, PrecisionHigh:
		return p
	case "":
		return fallback
	}
	Logger().Warn("unknown shader precision in config", "value", p, "using", PrecisionMedium)
	return PrecisionMedium
}

// WatchConfig calls fn with the re-parsed config whenever the file at path
// is written or recreated, until ctx is cancelled. The directory is watched
// so editors that replace the file are handled. Parse errors are logged and
// fn still receives the fallback config.
func WatchConfig(ctx context.Context, path string, fn func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "corona: create config watcher")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return errors.Wrapf(err, "corona: resolve %s", path)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "corona: watch %s", path)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write ||
					event.Op&fsnotify.Create == fsnotify.Create {
					cfg, err := LoadConfig(abs)
					if err != nil {
						Logger().Warn("config reload failed, using defaults", "path", abs, "err", err)
					} else {
						Logger().Info("config reloaded", "path", abs)
					}
					fn(cfg)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				Logger().Warn("config watcher error", "err", err)
			}
		}
	}()
	return nil
}
