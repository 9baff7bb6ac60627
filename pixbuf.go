package orrery

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Channels is the number of bytes per pixel in every buffer (R, G, B, A).
const Channels = 4

// PixelBuffer is a generated RGBA8 image: row-major, origin top-left,
// 4 bytes per pixel, non-premultiplied (alpha is always 255 for generated
// textures).
//
// A PixelBuffer returned by a generator is immutable: the caller owns it and
// the generator keeps no reference. Bytes exposes the backing slice for
// zero-copy GPU upload; treat it as read-only.
type PixelBuffer struct {
	width  int
	height int
	data   []uint8
}

// newPixelBuffer allocates a buffer after checking the byte budget.
func newPixelBuffer(width, height int, limit int64) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, invalidf("dimensions must be positive, got %dx%d", width, height)
	}
	n, err := bufferBytes(width, height, limit)
	if err != nil {
		return nil, err
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, n),
	}, nil
}

// Width returns the width of the buffer in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Channels returns the number of channels per pixel (always 4).
func (b *PixelBuffer) Channels() int {
	return Channels
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.width * Channels
}

// Len returns the total number of bytes (width*height*4).
func (b *PixelBuffer) Len() int {
	return len(b.data)
}

// Bytes returns the raw RGBA data. The slice is shared, not copied.
func (b *PixelBuffer) Bytes() []uint8 {
	return b.data
}

// PixelOffset returns the byte offset of pixel (x, y).
func (b *PixelBuffer) PixelOffset(x, y int) int {
	return (y*b.width + x) * Channels
}

// RGBAAt returns the raw channel values of pixel (x, y).
// Out-of-bounds coordinates return transparent black.
func (b *PixelBuffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := b.PixelOffset(x, y)
	return color.RGBA{R: b.data[i+0], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}
}

// setRGB writes one opaque pixel. Only generators call this, before the
// buffer is returned.
func (b *PixelBuffer) setRGB(x, y int, r, g, bl uint8) {
	i := (y*b.width + x) * Channels
	b.data[i+0] = r
	b.data[i+1] = g
	b.data[i+2] = bl
	b.data[i+3] = 255
}

// ToImage converts the buffer to a new image.RGBA. Generated pixels are
// opaque, so the premultiplied and straight representations coincide.
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// SubImage copies the pixels inside r into a new image.RGBA.
// r is clipped to the buffer bounds.
func (b *PixelBuffer) SubImage(r image.Rectangle) *image.RGBA {
	r = r.Intersect(b.Bounds())
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := b.data[b.PixelOffset(r.Min.X, y):b.PixelOffset(r.Max.X, y)]
		copy(img.Pix[(y-r.Min.Y)*img.Stride:], src)
	}
	return img
}

// EncodePNG writes the buffer as PNG to w.
func (b *PixelBuffer) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.ToImage())
}

// SavePNG saves the buffer to a PNG file.
func (b *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := b.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("orrery: encode %s: %w", path, err)
	}
	return f.Close()
}

// At implements the image.Image interface.
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}
