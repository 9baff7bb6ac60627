package orrery

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// =============================================================================
// Classification
// =============================================================================

func TestClassify_TierOrder(t *testing.T) {
	th := DefaultStarThresholds()
	tests := []struct {
		name       string
		h1, h2, h3 float64
		want       Tier
	}{
		{"all clear", 0.99999, 0.99999, 0.99999, TierBright},
		{"medium and dim", 0.1, 0.99999, 0.99999, TierMedium},
		{"dim only", 0.1, 0.1, 0.99999, TierDim},
		{"nothing", 0.1, 0.1, 0.1, TierNone},
		{"exactly at threshold", th.Bright, th.Medium, th.Dim, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, b := Classify(tt.h1, tt.h2, tt.h3, th)
			if got != tt.want {
				t.Errorf("Classify() tier = %v, want %v", got, tt.want)
			}
			if got == TierNone && b != 0 {
				t.Errorf("TierNone brightness = %v, want 0", b)
			}
		})
	}
}

func TestClassify_BrightnessRanges(t *testing.T) {
	th := DefaultStarThresholds()
	check := func(tier Tier, lo, hi float64, h1, h2, h3 float64) {
		t.Helper()
		got, b := Classify(h1, h2, h3, th)
		if got != tier {
			t.Fatalf("tier = %v, want %v", got, tier)
		}
		if b < lo || b > hi {
			t.Errorf("%v brightness = %v, want in [%v, %v]", tier, b, lo, hi)
		}
	}
	for _, f := range []float64{0.0001, 0.5, 0.9999} {
		check(TierBright, 0.85, 1.0, th.Bright+f*(1-th.Bright), 0, 0)
		check(TierMedium, 0.50, 0.80, 0, th.Medium+f*(1-th.Medium), 0)
		check(TierDim, 0.18, 0.42, 0, 0, th.Dim+f*(1-th.Dim))
	}
}

func TestStarThresholds_Validate(t *testing.T) {
	if err := DefaultStarThresholds().Validate(); err != nil {
		t.Errorf("defaults: %v", err)
	}
	for _, th := range []StarThresholds{
		{Bright: 1, Medium: 0.5, Dim: 0.5},
		{Bright: 0.5, Medium: 0, Dim: 0.5},
		{Bright: 0.5, Medium: 0.5, Dim: math.NaN()},
	} {
		if err := th.Validate(); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidParameter", th, err)
		}
	}
}

func TestStarHashes_Range(t *testing.T) {
	for f := range Face(FaceCount) {
		for y := range 8 {
			for x := range 8 {
				for i, h := range StarHashes(f.PixelDirection(x, y, 8)) {
					if h < 0 || h >= 1 {
						t.Fatalf("hash %d of %v (%d,%d) = %v, want [0, 1)", i, f, x, y, h)
					}
				}
			}
		}
	}
}

// Two faces reach the shared +X/-Z edge through the same arithmetic, so the
// edge classifies identically from either side.
func TestStarAt_SharedEdge(t *testing.T) {
	th := DefaultStarThresholds()
	for i := 0; i <= 64; i++ {
		s := -1 + 2*float64(i)/64
		a := FacePosX.Direction(1, s)
		b := FaceNegZ.Direction(-1, s)
		if a != b {
			t.Fatalf("edge direction differs: %v vs %v", a, b)
		}
		ta, ba := StarAt(a, th)
		tb, bb := StarAt(b, th)
		if ta != tb || ba != bb {
			t.Errorf("edge s=%v: (%v, %v) vs (%v, %v)", s, ta, ba, tb, bb)
		}
	}
}

// Every border pixel of every face must match the pixel of each neighbour
// that samples the same edge direction, both in direction and in colour.
func TestGenerateStarfield_SeamlessEdges(t *testing.T) {
	for _, size := range []int{2, 17, 128} {
		buf, layout, err := GenerateStarfield(42, size)
		if err != nil {
			t.Fatal(err)
		}
		pixel := func(f Face, x, y int) [4]uint8 {
			c := buf.RGBAAt(x, layout.FaceRect(f).Min.Y+y)
			return [4]uint8{c.R, c.G, c.B, c.A}
		}

		matches := 0
		for f := range Face(FaceCount) {
			for i := range size {
				for _, p := range [][2]int{{i, 0}, {i, size - 1}, {0, i}, {size - 1, i}} {
					dir := f.PixelDirection(p[0], p[1], size)
					for g := range Face(FaceCount) {
						if g == f || dir.Dot(g.Basis().Forward) <= 0 {
							continue
						}
						u, v := g.Project(dir)
						if math.Abs(u) > 1+1e-9 || math.Abs(v) > 1+1e-9 {
							continue
						}
						gx := int(math.Round((u + 1) * float64(size-1) / 2))
						gy := int(math.Round((1 - v) * float64(size-1) / 2))
						other := g.PixelDirection(gx, gy, size)
						if d := dir.Sub(other).Len(); d > 1e-4 {
							t.Fatalf("size %d: %v(%d, %d) and %v(%d, %d) are %g apart", size, f, p[0], p[1], g, gx, gy, d)
						}
						if a, b := pixel(f, p[0], p[1]), pixel(g, gx, gy); a != b {
							t.Fatalf("size %d: %v(%d, %d) = %v, %v(%d, %d) = %v", size, f, p[0], p[1], a, g, gx, gy, b)
						}
						matches++
					}
				}
			}
		}
		// Each face has four edges of size pixels, each shared with one
		// neighbour; corners are visited twice per face and shared with two.
		if matches < FaceCount*4*size {
			t.Errorf("size %d: only %d edge matches", size, matches)
		}
	}
}

// The +X/-Z edge of a full-size face is sampled identically by both faces.
func TestGenerateStarfield_EdgePixelsFullSize(t *testing.T) {
	if testing.Short() {
		t.Skip("2048 cubemap in -short mode")
	}
	const size = 2048
	buf, layout, err := GenerateStarfield(42, size)
	if err != nil {
		t.Fatal(err)
	}
	px, nz := layout.FaceRect(FacePosX).Min.Y, layout.FaceRect(FaceNegZ).Min.Y
	for y := range size {
		a := FacePosX.PixelDirection(size-1, y, size)
		b := FaceNegZ.PixelDirection(0, y, size)
		if d := a.Sub(b).Len(); d > 1e-4 {
			t.Fatalf("row %d: edge directions %g apart", y, d)
		}
		if ca, cb := buf.RGBAAt(size-1, px+y), buf.RGBAAt(0, nz+y); ca != cb {
			t.Fatalf("row %d: +X edge %v, -Z edge %v", y, ca, cb)
		}
	}
}

// =============================================================================
// Generation
// =============================================================================

func TestGenerateStarfield_Shape(t *testing.T) {
	buf, layout, err := GenerateStarfield(1, 32)
	if err != nil {
		t.Fatalf("GenerateStarfield() = %v", err)
	}
	if buf.Width() != 32 || buf.Height() != 192 {
		t.Errorf("size = %dx%d, want 32x192", buf.Width(), buf.Height())
	}
	if layout.FaceSize != 32 || layout.FaceCount != 6 ||
		layout.Stacking != StackingVertical || layout.TargetView != TargetViewCubeArray {
		t.Errorf("layout = %+v", layout)
	}
	if err := layout.Validate(buf); err != nil {
		t.Errorf("layout.Validate() = %v", err)
	}
	data := buf.Bytes()
	for i := 3; i < len(data); i += 4 {
		if data[i] != 255 {
			t.Fatalf("alpha at byte %d = %d, want 255", i, data[i])
		}
	}
}

func TestGenerateStarfield_SeedIndependent(t *testing.T) {
	a, _, err := GenerateStarfield(1, 24)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := GenerateStarfield(987654321, 24)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("starfield changed with the seed")
	}
}

func TestGenerateStarfield_WorkersDoNotChangeOutput(t *testing.T) {
	seq, _, err := GenerateStarfield(1, 40, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	par, _, err := GenerateStarfield(1, 40, WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seq.Bytes(), par.Bytes()) {
		t.Error("parallel starfield differs from sequential")
	}
}

func TestGenerateStarfield_Pixels(t *testing.T) {
	buf, _, err := GenerateStarfield(1, 64)
	if err != nil {
		t.Fatal(err)
	}
	bg := [3]uint8{quantize(backgroundColor.R), quantize(backgroundColor.G), quantize(backgroundColor.B)}

	stars := 0
	for y := range buf.Height() {
		for x := range buf.Width() {
			c := buf.RGBAAt(x, y)
			if c.R == bg[0] && c.G == bg[1] && c.B == bg[2] {
				continue
			}
			stars++
			if c.B < c.G || c.G < c.R {
				t.Fatalf("star (%d, %d) = %v is not cool white", x, y, c)
			}
		}
	}
	total := buf.Width() * buf.Height()
	if stars == 0 || stars > total/10 {
		t.Errorf("%d of %d pixels are stars", stars, total)
	}
}

func TestGenerateStarfield_Thresholds(t *testing.T) {
	dense := StarThresholds{Bright: 0.5, Medium: 0.5, Dim: 0.5}
	sparse := StarThresholds{Bright: 0.999999, Medium: 0.999999, Dim: 0.999999}

	count := func(th StarThresholds) int {
		buf, _, err := GenerateStarfield(1, 32, WithThresholds(th))
		if err != nil {
			t.Fatal(err)
		}
		bg := quantize(backgroundColor.B)
		n := 0
		for i := 2; i < buf.Len(); i += 4 {
			if buf.Bytes()[i] != bg {
				n++
			}
		}
		return n
	}
	if d, s := count(dense), count(sparse); d <= s {
		t.Errorf("dense thresholds gave %d stars, sparse %d", d, s)
	}
}

func TestGenerateStarfield_OnePixelFaces(t *testing.T) {
	buf, layout, err := GenerateStarfield(1, 1)
	if err != nil {
		t.Fatalf("GenerateStarfield(1) = %v", err)
	}
	if buf.Width() != 1 || buf.Height() != 6 || layout.FaceSize != 1 {
		t.Errorf("size = %dx%d, layout = %+v", buf.Width(), buf.Height(), layout)
	}
}

func TestGenerateStarfield_Errors(t *testing.T) {
	tests := []struct {
		name     string
		faceSize int
		opts     []Option
		want     error
	}{
		{"zero", 0, nil, ErrInvalidParameter},
		{"negative", -3, nil, ErrInvalidParameter},
		{"bad thresholds", 8, []Option{WithThresholds(StarThresholds{})}, ErrInvalidParameter},
		{"over budget", 64, []Option{WithMaxBytes(4096)}, ErrAllocationFailure},
		{"overflow", math.MaxInt / 2, nil, ErrAllocationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, _, err := GenerateStarfield(1, tt.faceSize, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if buf != nil {
				t.Error("buffer returned alongside an error")
			}
		})
	}
}

func TestGenerateStarfield_Full(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size cubemap")
	}
	buf, layout, err := GenerateStarfield(1, 2048)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width() != 2048 || buf.Height() != 12288 || buf.Len() != 100663296 {
		t.Errorf("buffer = %dx%d (%d bytes)", buf.Width(), buf.Height(), buf.Len())
	}
	if layout.FaceCount != 6 {
		t.Errorf("layout = %+v", layout)
	}
}

func BenchmarkGenerateStarfield(b *testing.B) {
	gen := NewStarfieldGenerator()
	for b.Loop() {
		if _, _, err := gen.Generate(1, 256); err != nil {
			b.Fatal(err)
		}
	}
}
