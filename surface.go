package orrery

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gogpu/orrery/internal/parallel"
)

// Surface defaults.
const (
	// DefaultBands is the number of palette bands crossed from pole to pole.
	DefaultBands = 12

	// DefaultJitter is the amplitude of the per-pixel noise that breaks up
	// quantization banding.
	DefaultJitter = 0.01
)

// Banding perturbation: two low-frequency sines (cycles per height) added to
// the linear ramp. Both vanish at v == 0 so the top row starts in band 0.
const (
	warpFreq1, warpAmp1 = 3.0, 0.6
	warpFreq2, warpAmp2 = 7.0, 0.25
)

// Turbulence octaves. Amplitude halves as frequency rises.
const (
	turbAmp1 = 0.06
	turbAmp2 = turbAmp1 / 2
	turbAmp3 = turbAmp2 / 2
)

// Storm is a localized dark oval. Its centre drifts with longitude:
// (CenterU + Drift*sin(2πu), CenterV + Drift*cos(2πu)).
// A zero Radius disables it.
type Storm struct {
	CenterU, CenterV float64
	Drift            float64
	Radius           float64
	Darken           float64
}

// DefaultStorm returns the storm used unless WithStorm overrides it.
func DefaultStorm() Storm {
	return Storm{
		CenterU: 0.62,
		CenterV: 0.68,
		Drift:   0.02,
		Radius:  0.045,
		Darken:  0.18,
	}
}

// offset returns the darkening applied at (u, v).
func (s Storm) offset(u, v float64) float64 {
	if s.Radius <= 0 {
		return 0
	}
	a := 2 * math.Pi * u
	du := u - (s.CenterU + s.Drift*math.Sin(a))
	dv := v - (s.CenterV + s.Drift*math.Cos(a))
	if du*du+dv*dv < s.Radius*s.Radius {
		return -s.Darken
	}
	return 0
}

// SurfaceGenerator produces equirectangular banded textures for gas giants.
//
// A SurfaceGenerator holds only its options and may be shared between
// goroutines.
type SurfaceGenerator struct {
	opts options
}

// NewSurfaceGenerator creates a surface generator with the given options.
func NewSurfaceGenerator(opts ...Option) *SurfaceGenerator {
	return &SurfaceGenerator{opts: newOptions(opts)}
}

// GenerateBandedSurface is shorthand for NewSurfaceGenerator(opts...).Generate.
func GenerateBandedSurface(seed Seed, width, height int, palette Palette, opts ...Option) (*PixelBuffer, error) {
	return NewSurfaceGenerator(opts...).Generate(seed, width, height, palette)
}

// Generate renders a width×height surface from palette.
//
// Each row v = y/height picks a palette entry from a warped linear ramp;
// each pixel adds three turbulence octaves, the storm offset and seeded
// jitter, then clamps to [0, 1]. Alpha is always 255.
//
// Errors: ErrInvalidParameter for non-positive dimensions, an invalid
// palette or invalid options; ErrAllocationFailure when the buffer exceeds
// the byte budget.
func (g *SurfaceGenerator) Generate(seed Seed, width, height int, palette Palette) (*PixelBuffer, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	buf, err := newPixelBuffer(width, height, g.opts.maxBytes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pal := palette.Clone()

	pool, workers := g.opts.pool()
	if pool != nil {
		defer pool.Close()
	}

	parallel.ForEachRow(pool, height, func(y int) {
		g.fillRow(buf, seed.rowRand(streamSurface, y), pal, y)
	})

	Logger().Debug("banded surface generated",
		"seed", uint64(seed),
		"width", width,
		"height", height,
		"palette", len(pal),
		"workers", workers,
		"elapsed", time.Since(start))

	return buf, nil
}

func (g *SurfaceGenerator) validate() error {
	o := g.opts
	switch {
	case o.bands <= 0:
		return invalidf("bands must be positive, got %d", o.bands)
	case math.IsNaN(o.jitter) || o.jitter < 0 || o.jitter > 1:
		return invalidf("jitter must be in [0, 1], got %v", o.jitter)
	case o.storm.Radius < 0 || math.IsNaN(o.storm.Radius):
		return invalidf("storm radius must be non-negative, got %v", o.storm.Radius)
	}
	return nil
}

// fillRow renders scanline y. rng is the row's private stream and is drawn
// exactly once per pixel, left to right.
func (g *SurfaceGenerator) fillRow(buf *PixelBuffer, rng *rand.Rand, pal Palette, y int) {
	width, height := buf.Width(), buf.Height()
	v := float64(y) / float64(height)
	base := pal[BandIndex(bandPhase(v, g.opts.bands), len(pal))]

	for x := range width {
		u := float64(x) / float64(width)

		jitter := (rng.Float64()*2 - 1) * g.opts.jitter
		variation := turbulence(u, v) + g.opts.storm.offset(u, v) + jitter

		c := base.Add(variation)
		buf.setRGB(x, y, quantize(c.R), quantize(c.G), quantize(c.B))
	}
}

// bandPhase is the continuous band coordinate of latitude v.
func bandPhase(v float64, bands int) float64 {
	return v*float64(bands) +
		warpAmp1*math.Sin(2*math.Pi*warpFreq1*v) +
		warpAmp2*math.Sin(2*math.Pi*warpFreq2*v)
}

// BandIndex maps a band phase to a palette index in [0, n).
// The phase is floored first and reduced with a Euclidean modulo, so a
// negative phase wraps to the end of the palette instead of underflowing.
// Entries cycle rather than clamp.
func BandIndex(phase float64, n int) int {
	if n <= 0 || math.IsNaN(phase) || math.IsInf(phase, 0) {
		return 0
	}
	i := int(math.Floor(phase)) % n
	if i < 0 {
		i += n
	}
	return i
}

// turbulence sums three octaves of sine/cosine detail.
func turbulence(u, v float64) float64 {
	const tau = 2 * math.Pi
	t1 := turbAmp1 * math.Sin(tau*(4*u+1.5*v)) * math.Cos(tau*5*v)
	t2 := turbAmp2 * math.Sin(tau*11*u+2.1) * math.Cos(tau*13*v+5*u)
	t3 := turbAmp3 * math.Sin(tau*(29*u+23*v))
	return t1 + t2 + t3
}

// GenerateSolidSurface fills a width×height buffer with one colour. Only
// WithMaxBytes applies.
func GenerateSolidSurface(width, height int, c RGB, opts ...Option) (*PixelBuffer, error) {
	if !c.Valid() {
		return nil, invalidf("colour %+v out of range", c)
	}
	buf, err := newPixelBuffer(width, height, newOptions(opts).maxBytes)
	if err != nil {
		return nil, err
	}
	r, g, b := quantize(c.R), quantize(c.G), quantize(c.B)
	for y := range height {
		for x := range width {
			buf.setRGB(x, y, r, g, b)
		}
	}
	return buf, nil
}
