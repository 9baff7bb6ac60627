package orrery

import "slices"

// Palette is an ordered list of band colors. Order is significant: the
// surface generator indexes it by a banding function of latitude, so
// reordering entries changes the surface.
type Palette []RGB

// Validate returns ErrInvalidParameter if the palette is empty or any entry
// has a component outside [0, 1].
func (p Palette) Validate() error {
	if len(p) == 0 {
		return invalidf("palette is empty")
	}
	for i, c := range p {
		if !c.Valid() {
			return invalidf("palette entry %d out of range: %+v", i, c)
		}
	}
	return nil
}

// Clone returns a copy of p.
func (p Palette) Clone() Palette {
	return slices.Clone(p)
}

// ParsePalette builds a palette from hex strings.
func ParsePalette(hexes ...string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, p.Validate()
}

// GasGiantPalette returns the 8-band Amber Titan palette: creams, tans and
// browns in the order the bands are crossed from the north pole.
func GasGiantPalette() Palette {
	return Palette{
		{R: 0.95, G: 0.82, B: 0.55}, // cream
		{R: 0.82, G: 0.65, B: 0.38}, // light brown
		{R: 0.98, G: 0.88, B: 0.62}, // pale yellow
		{R: 0.75, G: 0.58, B: 0.32}, // medium brown
		{R: 0.88, G: 0.72, B: 0.45}, // tan
		{R: 0.68, G: 0.52, B: 0.28}, // dark tan
		{R: 0.92, G: 0.78, B: 0.50}, // golden
		{R: 0.72, G: 0.55, B: 0.30}, // brown
	}
}

// IceGiantPalette returns the 6-band Azure Colossus palette.
func IceGiantPalette() Palette {
	return Palette{
		{R: 0.78, G: 0.88, B: 0.98}, // pale blue
		{R: 0.45, G: 0.68, B: 0.92}, // medium blue
		{R: 0.85, G: 0.92, B: 1.00}, // very light blue
		{R: 0.35, G: 0.58, B: 0.88}, // deep blue
		{R: 0.65, G: 0.80, B: 0.96}, // sky blue
		{R: 0.55, G: 0.72, B: 0.90}, // ocean blue
	}
}

// RingedGiantPalette returns a 6-band Saturn-like palette.
func RingedGiantPalette() Palette {
	return Palette{
		MustHex("#e3d3a6"),
		MustHex("#cdb887"),
		MustHex("#eadfbb"),
		MustHex("#bfa673"),
		MustHex("#d9c796"),
		MustHex("#c7b07c"),
	}
}

// Palettes maps preset names to palette constructors. "amber-titan" and
// "azure-colossus" are aliases of the gas and ice giant presets.
var Palettes = map[string]func() Palette{
	"gas-giant":      GasGiantPalette,
	"amber-titan":    GasGiantPalette,
	"ice-giant":      IceGiantPalette,
	"azure-colossus": IceGiantPalette,
	"ringed-giant":   RingedGiantPalette,
}
