package scene

import (
	"fmt"
	"math"

	"github.com/gogpu/orrery"
)

// NoParent marks a body that orbits the system origin.
const NoParent = -1

// SurfaceSpec says how a body's texture is produced. Explicit Colors, or a
// Palette naming an orrery preset, select the banded generator; otherwise
// the body is a flat Color.
type SurfaceSpec struct {
	Palette string
	Colors  orrery.Palette
	Color   orrery.RGB
	Width   int
	Height  int

	// Seed fixes the surface seed. When nil it is derived from the system
	// seed and the body name.
	Seed *orrery.Seed

	// Bands, Jitter and Storm override the generator settings for this
	// body only. Zero Bands and nil pointers keep the shared settings; a
	// zero Storm turns the storm off.
	Bands  int
	Jitter *float64
	Storm  *orrery.Storm
}

// Options returns the generator options this body overrides. Append them
// after the shared options so they win.
func (s SurfaceSpec) Options() []orrery.Option {
	var opts []orrery.Option
	if s.Bands > 0 {
		opts = append(opts, orrery.WithBands(s.Bands))
	}
	if s.Jitter != nil {
		opts = append(opts, orrery.WithJitter(*s.Jitter))
	}
	if s.Storm != nil {
		opts = append(opts, orrery.WithStorm(*s.Storm))
	}
	return opts
}

// Banded reports whether the body uses the banded surface generator.
func (s SurfaceSpec) Banded() bool {
	return s.Palette != "" || len(s.Colors) > 0
}

// ResolvePalette returns Colors when set, else the preset named by Palette.
func (s SurfaceSpec) ResolvePalette() (orrery.Palette, error) {
	if len(s.Colors) > 0 {
		if err := s.Colors.Validate(); err != nil {
			return nil, err
		}
		return s.Colors.Clone(), nil
	}
	fn, ok := orrery.Palettes[s.Palette]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, s.Palette)
	}
	return fn(), nil
}

// Body is a sphere on a circular orbit around its parent.
//
// Periods are in simulated seconds. A zero OrbitPeriod keeps the body fixed
// at its starting angle; a zero SpinPeriod disables rotation.
type Body struct {
	Name        string
	Radius      float64
	OrbitRadius float64
	OrbitPeriod float64
	SpinPeriod  float64
	Tilt        float64 // axial tilt, radians
	Parent      int     // index into System.Bodies, or NoParent
	Surface     SurfaceSpec
	Emissive    bool

	orbitAngle float64
	spinAngle  float64
}

// SurfaceSeed returns the seed of the body's texture: the fixed
// Surface.Seed, or base derived by the body's name.
func (b *Body) SurfaceSeed(base orrery.Seed) orrery.Seed {
	if b.Surface.Seed != nil {
		return *b.Surface.Seed
	}
	return base.Derive(b.Name)
}

// OrbitAngle returns the current orbital angle in [0, 2π).
func (b *Body) OrbitAngle() float64 { return b.orbitAngle }

// SpinAngle returns the current rotation about the body's axis in [0, 2π).
func (b *Body) SpinAngle() float64 { return b.spinAngle }

// advance moves both angles forward by dt simulated seconds.
func (b *Body) advance(dt float64) {
	if b.OrbitPeriod > 0 {
		b.orbitAngle = wrapAngle(b.orbitAngle + 2*math.Pi*dt/b.OrbitPeriod)
	}
	if b.SpinPeriod > 0 {
		b.spinAngle = wrapAngle(b.spinAngle + 2*math.Pi*dt/b.SpinPeriod)
	}
}

func (b *Body) validate(index int) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("%w: body %d has no name", ErrInvalidBody, index)
	case !(b.Radius > 0):
		return fmt.Errorf("%w: %s radius must be positive, got %v", ErrInvalidBody, b.Name, b.Radius)
	case b.OrbitRadius < 0 || b.OrbitPeriod < 0 || b.SpinPeriod < 0:
		return fmt.Errorf("%w: %s orbit radius and periods must be non-negative", ErrInvalidBody, b.Name)
	case b.Parent != NoParent && (b.Parent < 0 || b.Parent >= index):
		return fmt.Errorf("%w: %s parent %d must precede it", ErrInvalidBody, b.Name, b.Parent)
	}
	if b.Surface.Banded() {
		if _, err := b.Surface.ResolvePalette(); err != nil {
			return err
		}
		if err := b.Surface.validateOverrides(); err != nil {
			return fmt.Errorf("%w: %s %w", ErrInvalidBody, b.Name, err)
		}
	} else if !b.Surface.Color.Valid() {
		return fmt.Errorf("%w: %s colour out of range", ErrInvalidBody, b.Name)
	}
	return nil
}

func (s SurfaceSpec) validateOverrides() error {
	switch {
	case s.Bands < 0:
		return fmt.Errorf("bands must be >= 0, got %d", s.Bands)
	case s.Jitter != nil && !(*s.Jitter >= 0 && *s.Jitter <= 1):
		return fmt.Errorf("jitter must be in [0, 1], got %v", *s.Jitter)
	case s.Storm != nil && !(s.Storm.Radius >= 0):
		return fmt.Errorf("storm radius must be >= 0, got %v", s.Storm.Radius)
	}
	return nil
}

// ptr returns a pointer to a copy of v.
func ptr[T any](v T) *T { return &v }

// wrapAngle reduces a to [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
