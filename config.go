package vkplayer

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/andewx/vkplayer/video"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the TOML form of the player settings. Command line flags override
// individual fields after loading.
type Config struct {
	AppRoot    string `toml:"app_root"`
	AppName    string `toml:"app_name"`
	Validation bool   `toml:"validation"`

	Window    WindowConfig     `toml:"window"`
	Viewports []ViewportConfig `toml:"viewport"`
	Video     video.Config     `toml:"video"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	// Position of the top-left corner; unset lets the window system place it.
	X    *int   `toml:"x,omitempty"`
	Y    *int   `toml:"y,omitempty"`
	Icon string `toml:"icon"`
}

// ViewportConfig is a ViewportSource in file form.
type ViewportConfig struct {
	X      float32    `toml:"x"`
	Y      float32    `toml:"y"`
	Width  float32    `toml:"width"`
	Height float32    `toml:"height"`
	Color  [4]float32 `toml:"color"`
}

func (v ViewportConfig) Source() ViewportSource {
	return ViewportSource{
		X: v.X, Y: v.Y, Width: v.Width, Height: v.Height,
		Color: mgl32.Vec4(v.Color),
	}
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() Config {
	cfg := Config{
		AppName: DefaultAppName,
		Window: WindowConfig{
			Title:  DefaultAppName,
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Icon:   "icon.png",
		},
		Video: video.DefaultConfig(),
	}
	for _, src := range DefaultViewports() {
		cfg.Viewports = append(cfg.Viewports, ViewportConfig{
			X: src.X, Y: src.Y, Width: src.Width, Height: src.Height,
			Color: [4]float32(src.Color),
		})
	}
	return cfg
}

// LoadConfig reads path over the defaults. Keys the file does not set keep
// their default value; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config")
	}
	if err := DecodeConfig(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// DecodeConfig decodes TOML data into cfg and validates the result. A
// viewport array in data replaces the viewports already in cfg.
func DecodeConfig(data []byte, cfg *Config) error {
	viewports := cfg.Viewports
	cfg.Viewports = nil
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if len(cfg.Viewports) == 0 {
		cfg.Viewports = viewports
	}
	if err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return errors.Errorf("line %d column %d: %s", row, col, derr.Error())
		}
		return errors.WithStack(err)
	}
	return cfg.Validate()
}

// Validate rejects settings that would fail setup before any GPU object exists.
func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return errors.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Viewports) > MaxViewports {
		return errors.Wrapf(ErrViewportCapacity, "%d viewports configured", len(c.Viewports))
	}
	for i, v := range c.Viewports {
		// written so NaN fails every check
		if !(v.Width > 0) || !(v.Height > 0) {
			return errors.Errorf("viewport %d: empty rectangle", i)
		}
		if !(v.X >= 0) || !(v.Y >= 0) || !(v.X+v.Width <= 1) || !(v.Y+v.Height <= 1) {
			return errors.Errorf("viewport %d: rectangle outside the unit square", i)
		}
	}
	return c.Video.Validate()
}

// SetupInfo builds the pipeline input from the configuration. An empty root
// falls back to the configured app root.
func (c *Config) SetupInfo(root string, window Window, log *slog.Logger) SetupInfo {
	if root == "" {
		root = c.AppRoot
	}
	info := SetupInfo{
		AppRoot:          root,
		AppName:          c.AppName,
		Width:            c.Window.Width,
		Height:           c.Window.Height,
		EnableValidation: c.Validation,
		Window:           window,
		Video:            c.Video,
		Logger:           log,
	}
	for _, v := range c.Viewports {
		info.Viewports = append(info.Viewports, v.Source())
	}
	return info
}
