package hud

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	tsdi "github.com/go-text/typesetting/di"
	tsfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/orrery"
)

// Errors returned by New.
var (
	ErrInvalidSize = errors.New("hud: invalid font size")
	ErrFont        = errors.New("hud: font")
)

// Align places a line inside the panel.
type Align int

// Alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Line is one row of overlay text.
type Line struct {
	Text  string
	Align Align
}

// Option configures a HUD.
type Option func(*config)

type config struct {
	size       float64
	padding    int
	mono       bool
	panel      color.RGBA
	foreground color.RGBA
}

func defaultConfig() config {
	return config{
		size:       14,
		padding:    8,
		panel:      color.RGBA{R: 0, G: 0, B: 12, A: 160},
		foreground: color.RGBA{R: 230, G: 236, B: 255, A: 255},
	}
}

// WithSize sets the font size in pixels.
func WithSize(px float64) Option {
	return func(c *config) { c.size = px }
}

// WithPadding sets the panel inset in pixels.
func WithPadding(px int) Option {
	return func(c *config) { c.padding = px }
}

// WithMono switches to the Go Mono face.
func WithMono() Option {
	return func(c *config) { c.mono = true }
}

// WithColors sets the panel and text colours. Colours are premultiplied.
func WithColors(panel, foreground color.RGBA) Option {
	return func(c *config) {
		c.panel = panel
		c.foreground = foreground
	}
}

// HUD renders lines of text on a translucent panel. It is safe for
// concurrent use; calls are serialized because font faces are stateful.
type HUD struct {
	cfg config

	mu     sync.Mutex
	face   font.Face
	shape  *tsfont.Face
	shaper shaping.HarfbuzzShaper
	lineH  int
	ascent int
}

// New parses the built-in Go fonts and returns a HUD.
func New(opts ...Option) (*HUD, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !(cfg.size > 0) || cfg.padding < 0 {
		return nil, fmt.Errorf("%w: size %v padding %d", ErrInvalidSize, cfg.size, cfg.padding)
	}

	ttf := goregular.TTF
	if cfg.mono {
		ttf = gomono.TTF
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    cfg.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	shape, err := tsfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		_ = face.Close()
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}

	m := face.Metrics()
	h := &HUD{
		cfg:    cfg,
		face:   face,
		shape:  shape,
		lineH:  m.Height.Ceil(),
		ascent: m.Ascent.Ceil(),
	}
	orrery.Logger().Debug("hud ready", "size", cfg.size, "mono", cfg.mono, "line_height", h.lineH)
	return h, nil
}

// Close releases the font face.
func (h *HUD) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.face.Close()
}

// LineHeight returns the distance between baselines in pixels.
func (h *HUD) LineHeight() int {
	return h.lineH
}

// Measure returns the shaped advance of s in pixels.
func (h *HUD) Measure(s string) float64 {
	if s == "" {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.measure(s)
}

func (h *HUD) measure(s string) float64 {
	runes := []rune(s)
	out := h.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: direction(runes),
		Face:      h.shape,
		Size:      fixed.Int26_6(h.cfg.size * 64),
		Script:    script(runes),
		Language:  language.NewLanguage("en"),
	})
	adv := out.Advance
	if adv < 0 {
		adv = -adv
	}
	return float64(adv) / 64
}

// Size returns the panel size needed for lines at the given width.
func (h *HUD) Size(width int, lines []Line) image.Point {
	return image.Pt(width, 2*h.cfg.padding+len(lines)*h.lineH)
}

// Render draws lines onto a new panel width pixels wide.
func (h *HUD) Render(width int, lines []Line) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: h.Size(width, lines)})
	h.Draw(img, lines)
	return img
}

// Draw paints the panel and lines over dst's whole bounds.
func (h *HUD) Draw(dst draw.Image, lines []Line) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(h.cfg.panel), image.Point{}, draw.Over)

	h.mu.Lock()
	defer h.mu.Unlock()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(h.cfg.foreground), Face: h.face}
	pad := h.cfg.padding
	for i, ln := range lines {
		if ln.Text == "" {
			continue
		}
		x := float64(b.Min.X + pad)
		if ln.Align == AlignRight {
			x = float64(b.Max.X-pad) - h.measure(ln.Text)
		}
		y := b.Min.Y + pad + i*h.lineH + h.ascent
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.I(y)}
		d.DrawString(ln.Text)
	}
}

// direction picks the shaping direction from the first strong character.
func direction(runes []rune) tsdi.Direction {
	for _, r := range runes {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return tsdi.DirectionRTL
		case bidi.L:
			return tsdi.DirectionLTR
		}
	}
	return tsdi.DirectionLTR
}

// script returns the script of the first rune with a specific one.
func script(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s != language.Common && s != language.Inherited {
			return s
		}
	}
	return language.Latin
}
