package orrery

import (
	"fmt"
	"image/color"
	"math"
)

// RGB is an opaque color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.RGBA{R: quantize(c.R), G: quantize(c.G), B: quantize(c.B), A: 255}
}

// Valid reports whether every component is a number in [0, 1].
func (c RGB) Valid() bool {
	return unit(c.R) && unit(c.G) && unit(c.B)
}

// Add returns c with d added to every component, unclamped.
func (c RGB) Add(d float64) RGB {
	return RGB{R: c.R + d, G: c.G + d, B: c.B + d}
}

// Scale returns c with every component multiplied by s, unclamped.
func (c RGB) Scale(s float64) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// ParseHex parses "#RGB" or "#RRGGBB" (the '#' is optional).
func ParseHex(hex string) (RGB, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	var ok bool
	switch len(hex) {
	case 3:
		r, ok = parseHex(hex[0:1])
		if ok {
			g, ok = parseHex(hex[1:2])
		}
		if ok {
			b, ok = parseHex(hex[2:3])
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		r, ok = parseHex(hex[0:2])
		if ok {
			g, ok = parseHex(hex[2:4])
		}
		if ok {
			b, ok = parseHex(hex[4:6])
		}
	}
	if !ok {
		return RGB{}, fmt.Errorf("%w: bad hex color %q", ErrInvalidParameter, hex)
	}

	return RGB{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}, nil
}

// MustHex is like ParseHex but panics on malformed input. Use it only for
// compiled-in palettes.
func MustHex(hex string) RGB {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", quantize(c.R), quantize(c.G), quantize(c.B))
}

func parseHex(s string) (uint32, bool) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}

// clamp01 restricts x to [0, 1]. NaN maps to 0.
func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// quantize maps [0, 1] to [0, 255], clamping out-of-range input.
// Values are truncated, not rounded.
func quantize(x float64) uint8 {
	return uint8(clamp01(x) * 255)
}

func unit(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 1
}
