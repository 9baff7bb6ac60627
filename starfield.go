package orrery

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/orrery/internal/parallel"
)

// Tier is the brightness class of a starfield pixel.
type Tier int

// Star tiers, in the order they are checked.
const (
	TierNone Tier = iota
	TierBright
	TierMedium
	TierDim
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierBright:
		return "bright"
	case TierMedium:
		return "medium"
	case TierDim:
		return "dim"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// StarThresholds are the hash values above which a pixel becomes a star of
// each tier. Each tier tests its own hash octave, so the thresholds set the
// density of each tier independently: a threshold t gives roughly (1-t) of
// the sky to that tier.
type StarThresholds struct {
	Bright float64
	Medium float64
	Dim    float64
}

// DefaultStarThresholds returns the tuned default densities.
func DefaultStarThresholds() StarThresholds {
	return StarThresholds{
		Bright: 0.9990,
		Medium: 0.9960,
		Dim:    0.9850,
	}
}

// Validate returns ErrInvalidParameter unless every threshold is in (0, 1).
func (th StarThresholds) Validate() error {
	for _, t := range []struct {
		name string
		v    float64
	}{{"bright", th.Bright}, {"medium", th.Medium}, {"dim", th.Dim}} {
		if !(t.v > 0 && t.v < 1) {
			return invalidf("%s threshold must be in (0, 1), got %v", t.name, t.v)
		}
	}
	return nil
}

// Brightness range of each tier, interpolated by how far the hash clears
// the threshold.
var tierRange = [...]struct{ lo, hi float64 }{
	TierBright: {0.85, 1.00},
	TierMedium: {0.50, 0.80},
	TierDim:    {0.18, 0.42},
}

// Sine-hash constants.
var hashWeights = mgl64.Vec3{12.9898, 78.233, 37.719}

const hashGain = 43758.5453

// octaveScales are the spatial frequencies of the three hash octaves, one
// per tier.
var octaveScales = [3]float64{60, 120, 240}

// sineHash returns a pseudo-random value in [0, 1) that depends only on dir
// and scale.
func sineHash(dir mgl64.Vec3, scale float64) float64 {
	s := math.Sin(dir.Mul(scale).Dot(hashWeights)) * hashGain
	return s - math.Floor(s)
}

// StarHashes returns the three octave hashes of a direction.
func StarHashes(dir mgl64.Vec3) [3]float64 {
	return [3]float64{
		sineHash(dir, octaveScales[0]),
		sineHash(dir, octaveScales[1]),
		sineHash(dir, octaveScales[2]),
	}
}

// Classify picks the tier for a hash triple. Bright is checked first on h1,
// then medium on h2, then dim on h3; the first tier whose hash exceeds its
// threshold wins. brightness is 0 for TierNone.
func Classify(h1, h2, h3 float64, th StarThresholds) (tier Tier, brightness float64) {
	switch {
	case h1 > th.Bright:
		return TierBright, tierBrightness(TierBright, h1, th.Bright)
	case h2 > th.Medium:
		return TierMedium, tierBrightness(TierMedium, h2, th.Medium)
	case h3 > th.Dim:
		return TierDim, tierBrightness(TierDim, h3, th.Dim)
	}
	return TierNone, 0
}

func tierBrightness(t Tier, h, threshold float64) float64 {
	r := tierRange[t]
	f := (h - threshold) / (1 - threshold)
	return r.lo + (r.hi-r.lo)*f
}

// StarAt classifies the sky in direction dir.
func StarAt(dir mgl64.Vec3, th StarThresholds) (Tier, float64) {
	h := StarHashes(dir)
	return Classify(h[0], h[1], h[2], th)
}

// Sky colors. Stars are cool white: R and G nearly equal, B boosted.
var backgroundColor = RGB{R: 0.008, G: 0.008, B: 0.03}

func starColor(brightness float64) RGB {
	return RGB{R: brightness * 0.95, G: brightness * 0.97, B: brightness * 1.1}
}

// StarfieldGenerator produces seamless starfield cubemaps.
//
// Star placement is a function of view direction only: a direction on a
// shared edge hashes identically from both faces, so faces meet without
// seams. A StarfieldGenerator may be shared between goroutines.
type StarfieldGenerator struct {
	opts options
}

// NewStarfieldGenerator creates a starfield generator with the given options.
func NewStarfieldGenerator(opts ...Option) *StarfieldGenerator {
	return &StarfieldGenerator{opts: newOptions(opts)}
}

// GenerateStarfield is shorthand for NewStarfieldGenerator(opts...).Generate.
func GenerateStarfield(seed Seed, faceSize int, opts ...Option) (*PixelBuffer, CubemapLayout, error) {
	return NewStarfieldGenerator(opts...).Generate(seed, faceSize)
}

// Generate renders six faceSize×faceSize faces stacked vertically in Face
// order into one faceSize×(6*faceSize) buffer, and returns the layout that
// tells the consumer to view it as a cube.
//
// The seed is accepted for symmetry with the surface generator but does not
// change the sky: placement depends on direction alone, so every seed yields
// the same stars.
//
// Errors: ErrInvalidParameter for faceSize <= 0 or invalid thresholds;
// ErrAllocationFailure when the buffer exceeds the byte budget.
func (g *StarfieldGenerator) Generate(seed Seed, faceSize int) (*PixelBuffer, CubemapLayout, error) {
	if faceSize <= 0 {
		return nil, CubemapLayout{}, invalidf("face size must be positive, got %d", faceSize)
	}
	if faceSize > math.MaxInt/FaceCount {
		return nil, CubemapLayout{}, fmt.Errorf("%w: face size %d overflows", ErrAllocationFailure, faceSize)
	}
	th := g.opts.thresholds
	if err := th.Validate(); err != nil {
		return nil, CubemapLayout{}, err
	}
	layout := NewCubemapLayout(faceSize)
	buf, err := newPixelBuffer(layout.Width(), layout.Height(), g.opts.maxBytes)
	if err != nil {
		return nil, CubemapLayout{}, err
	}

	start := time.Now()
	pool, workers := g.opts.pool()
	if pool != nil {
		defer pool.Close()
	}

	bg := [3]uint8{quantize(backgroundColor.R), quantize(backgroundColor.G), quantize(backgroundColor.B)}
	parallel.ForEachRow(pool, layout.Height(), func(y int) {
		face := Face(y / faceSize)
		fy := y % faceSize
		for x := range faceSize {
			tier, b := StarAt(face.PixelDirection(x, fy, faceSize), th)
			if tier == TierNone {
				buf.setRGB(x, y, bg[0], bg[1], bg[2])
				continue
			}
			c := starColor(b)
			buf.setRGB(x, y, quantize(c.R), quantize(c.G), quantize(c.B))
		}
	})

	Logger().Debug("starfield cubemap generated",
		"seed", uint64(seed),
		"face_size", faceSize,
		"bytes", buf.Len(),
		"workers", workers,
		"elapsed", time.Since(start))

	return buf, layout, nil
}
