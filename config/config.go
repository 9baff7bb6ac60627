// Package config loads viewer settings from TOML.
//
// Every field has a default, so an empty or missing file is valid. Command
// line flags are applied on top by the caller after Load.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/orrery"
	"github.com/gogpu/orrery/scene"
)

// ErrInvalidConfig is returned for settings that parse but make no sense.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the root of the settings file.
type Config struct {
	Seed     uint64 `toml:"seed"`
	Workers  int    `toml:"workers"`
	MaxBytes int64  `toml:"max_bytes"`

	Starfield  Starfield           `toml:"starfield"`
	Surface    Surface             `toml:"surface"`
	Simulation Simulation          `toml:"simulation"`
	Palettes   map[string][]string `toml:"palettes"`
	Bodies     []Body              `toml:"bodies"`
}

// Starfield configures the skybox.
type Starfield struct {
	FaceSize int     `toml:"face_size"`
	Bright   float64 `toml:"bright"`
	Medium   float64 `toml:"medium"`
	Dim      float64 `toml:"dim"`
}

// Surface configures the banded generator for every banded body.
type Surface struct {
	Bands  int     `toml:"bands"`
	Jitter float64 `toml:"jitter"`
	Storm  bool    `toml:"storm"`
}

// Simulation configures the headless frame loop.
type Simulation struct {
	Frames    int     `toml:"frames"`
	TimeScale float64 `toml:"time_scale"`
	Focus     string  `toml:"focus"`
	Locale    string  `toml:"locale"`
	HUDWidth  int     `toml:"hud_width"`
}

// Body describes one body. Parent refers to an earlier body by name. Tilt
// is in degrees. Palette names a preset or an entry of [palettes]; when it
// is empty the body is a solid Color.
type Body struct {
	Name        string  `toml:"name"`
	Parent      string  `toml:"parent,omitempty"`
	Radius      float64 `toml:"radius"`
	OrbitRadius float64 `toml:"orbit_radius"`
	OrbitPeriod float64 `toml:"orbit_period"`
	SpinPeriod  float64 `toml:"spin_period"`
	Tilt        float64 `toml:"tilt"`
	Palette     string  `toml:"palette,omitempty"`
	Color       string  `toml:"color,omitempty"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Emissive    bool    `toml:"emissive"`

	// Per-body surface overrides. Unset keys follow [surface], and a body
	// without a seed derives one from the global seed and its name.
	Seed   *uint64  `toml:"seed,omitempty"`
	Bands  int      `toml:"bands,omitempty"`
	Jitter *float64 `toml:"jitter,omitempty"`
	Storm  *bool    `toml:"storm,omitempty"`
}

// surface returns the body's generator overrides.
func (b Body) surface() scene.SurfaceSpec {
	spec := scene.SurfaceSpec{
		Width:  b.Width,
		Height: b.Height,
		Bands:  b.Bands,
		Jitter: b.Jitter,
	}
	if b.Seed != nil {
		seed := orrery.Seed(*b.Seed)
		spec.Seed = &seed
	}
	if b.Storm != nil {
		storm := orrery.Storm{}
		if *b.Storm {
			storm = orrery.DefaultStorm()
		}
		spec.Storm = &storm
	}
	return spec
}

// Default returns the built-in settings. Bodies is empty, which selects
// scene.DefaultSystem.
func Default() Config {
	th := orrery.DefaultStarThresholds()
	return Config{
		Seed:     12345,
		MaxBytes: orrery.DefaultMaxBytes,
		Starfield: Starfield{
			FaceSize: 2048,
			Bright:   th.Bright,
			Medium:   th.Medium,
			Dim:      th.Dim,
		},
		Surface: Surface{
			Bands:  orrery.DefaultBands,
			Jitter: orrery.DefaultJitter,
			Storm:  true,
		},
		Simulation: Simulation{
			Frames:    600,
			TimeScale: 1,
			Focus:     "jove",
			Locale:    "en",
			HUDWidth:  320,
		},
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		orrery.Logger().Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	orrery.Logger().Debug("config loaded", "path", path, "bodies", len(cfg.Bodies))
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, derr.Error())
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks ranges the generators would reject, so a bad file fails
// before any work starts.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	case c.MaxBytes <= 0:
		return fmt.Errorf("%w: max_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBytes)
	case c.Starfield.FaceSize <= 0:
		return fmt.Errorf("%w: starfield.face_size must be positive, got %d", ErrInvalidConfig, c.Starfield.FaceSize)
	case c.Surface.Bands <= 0:
		return fmt.Errorf("%w: surface.bands must be positive, got %d", ErrInvalidConfig, c.Surface.Bands)
	case c.Surface.Jitter < 0 || c.Surface.Jitter > 1:
		return fmt.Errorf("%w: surface.jitter must be in [0, 1], got %v", ErrInvalidConfig, c.Surface.Jitter)
	case c.Simulation.Frames < 0:
		return fmt.Errorf("%w: simulation.frames must be >= 0, got %d", ErrInvalidConfig, c.Simulation.Frames)
	case c.Simulation.TimeScale < 0 || c.Simulation.TimeScale > scene.MaxTimeScale:
		return fmt.Errorf("%w: simulation.time_scale out of range: %v", ErrInvalidConfig, c.Simulation.TimeScale)
	case c.Simulation.HUDWidth <= 0:
		return fmt.Errorf("%w: simulation.hud_width must be positive, got %d", ErrInvalidConfig, c.Simulation.HUDWidth)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("%w: starfield: %w", ErrInvalidConfig, err)
	}
	for name, hexes := range c.Palettes {
		if _, err := orrery.ParsePalette(hexes...); err != nil {
			return fmt.Errorf("%w: palette %q: %w", ErrInvalidConfig, name, err)
		}
	}
	if len(c.Bodies) > 0 {
		if _, err := c.System(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Thresholds returns the star tier thresholds.
func (c Config) Thresholds() orrery.StarThresholds {
	return orrery.StarThresholds{Bright: c.Starfield.Bright, Medium: c.Starfield.Medium, Dim: c.Starfield.Dim}
}

// GeneratorOptions returns the generator options shared by every texture.
func (c Config) GeneratorOptions() []orrery.Option {
	storm := orrery.Storm{}
	if c.Surface.Storm {
		storm = orrery.DefaultStorm()
	}
	return []orrery.Option{
		orrery.WithWorkers(c.Workers),
		orrery.WithMaxBytes(c.MaxBytes),
		orrery.WithBands(c.Surface.Bands),
		orrery.WithJitter(c.Surface.Jitter),
		orrery.WithStorm(storm),
		orrery.WithThresholds(c.Thresholds()),
	}
}

// System builds the scene described by Bodies, or scene.DefaultSystem when
// none are listed.
func (c Config) System() (*scene.System, error) {
	if len(c.Bodies) == 0 {
		return scene.DefaultSystem(), nil
	}
	index := make(map[string]int, len(c.Bodies))
	bodies := make([]scene.Body, 0, len(c.Bodies))
	for i, b := range c.Bodies {
		sb := scene.Body{
			Name:        b.Name,
			Radius:      b.Radius,
			OrbitRadius: b.OrbitRadius,
			OrbitPeriod: b.OrbitPeriod,
			SpinPeriod:  b.SpinPeriod,
			Tilt:        mgl64.DegToRad(b.Tilt),
			Parent:      scene.NoParent,
			Emissive:    b.Emissive,
			Surface:     b.surface(),
		}
		if b.Parent != "" {
			p, ok := index[b.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: %s: parent %q must be listed first", scene.ErrUnknownBody, b.Name, b.Parent)
			}
			sb.Parent = p
		}
		switch {
		case b.Palette != "":
			if hexes, ok := c.Palettes[b.Palette]; ok {
				pal, err := orrery.ParsePalette(hexes...)
				if err != nil {
					return nil, err
				}
				sb.Surface.Colors = pal
			} else {
				sb.Surface.Palette = b.Palette
			}
		case b.Color != "":
			col, err := orrery.ParseHex(b.Color)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", b.Name, err)
			}
			sb.Surface.Color = col
		}
		if sb.Surface.Width <= 0 || sb.Surface.Height <= 0 {
			sb.Surface.Width, sb.Surface.Height = 512, 256
		}
		index[b.Name] = i
		bodies = append(bodies, sb)
	}
	return scene.NewSystem(bodies...)
}
