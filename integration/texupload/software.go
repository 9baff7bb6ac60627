// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texupload

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/gpucontext"
)

// Software renderer errors.
var (
	// ErrForeignTexture is returned when Software is asked to draw a texture
	// it did not create.
	ErrForeignTexture = errors.New("texupload: texture not created by this drawer")

	// ErrTextureDestroyed is returned when a destroyed texture is used.
	ErrTextureDestroyed = errors.New("texupload: texture destroyed")
)

// Compile-time interface checks.
var (
	_ gpucontext.TextureDrawer        = (*Software)(nil)
	_ gpucontext.TextureCreator       = (*Software)(nil)
	_ gpucontext.Texture              = (*SoftwareTexture)(nil)
	_ gpucontext.TextureUpdater       = (*SoftwareTexture)(nil)
	_ gpucontext.TextureRegionUpdater = (*SoftwareTexture)(nil)
)

// Software is an in-memory renderer: textures are RGBA images and
// DrawTexture composites them onto Frame. It stands in for a GPU in
// headless runs.
type Software struct {
	Frame *image.RGBA

	// Created counts textures created; Uploaded counts bytes received.
	Created  int
	Uploaded int64
}

// NewSoftware returns a renderer with a transparent width×height frame.
func NewSoftware(width, height int) *Software {
	return &Software{Frame: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// TextureCreator returns s.
func (s *Software) TextureCreator() gpucontext.TextureCreator {
	return s
}

// NewTextureFromRGBA copies data into a new texture.
func (s *Software) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("texupload: data is %d bytes, want %d", len(data), width*height*4)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data)
	s.Created++
	s.Uploaded += int64(len(data))
	return &SoftwareTexture{img: img, owner: s}, nil
}

// DrawTexture composites tex over the frame with its top-left corner at
// (x, y), rounded down to whole pixels.
func (s *Software) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	st, ok := tex.(*SoftwareTexture)
	if !ok || st.owner != s {
		return ErrForeignTexture
	}
	if st.destroyed {
		return ErrTextureDestroyed
	}
	p := image.Pt(int(x), int(y))
	draw.Draw(s.Frame, st.img.Bounds().Add(p), st.img, image.Point{}, draw.Over)
	return nil
}

// SoftwareTexture is a texture created by Software.
type SoftwareTexture struct {
	img       *image.RGBA
	owner     *Software
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *SoftwareTexture) Width() int { return t.img.Bounds().Dx() }

// Height returns the texture height in pixels.
func (t *SoftwareTexture) Height() int { return t.img.Bounds().Dy() }

// Image returns the texture contents.
func (t *SoftwareTexture) Image() *image.RGBA { return t.img }

// Destroyed reports whether Destroy was called.
func (t *SoftwareTexture) Destroyed() bool { return t.destroyed }

// Destroy marks the texture unusable.
func (t *SoftwareTexture) Destroy() { t.destroyed = true }

// UpdateData replaces the whole texture.
func (t *SoftwareTexture) UpdateData(data []byte) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if len(data) != len(t.img.Pix) {
		return fmt.Errorf("texupload: data is %d bytes, want %d", len(data), len(t.img.Pix))
	}
	copy(t.img.Pix, data)
	t.owner.Uploaded += int64(len(data))
	return nil
}

// UpdateRegion replaces a w×h rectangle at (x, y) with packed rows.
func (t *SoftwareTexture) UpdateRegion(x, y, w, h int, data []byte) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	r := image.Rect(x, y, x+w, y+h)
	if w <= 0 || h <= 0 || !r.In(t.img.Bounds()) {
		return fmt.Errorf("texupload: region %v outside %v", r, t.img.Bounds())
	}
	if len(data) != w*h*4 {
		return fmt.Errorf("texupload: data is %d bytes, want %d", len(data), w*h*4)
	}
	for row := range h {
		i := t.img.PixOffset(x, y+row)
		copy(t.img.Pix[i:i+w*4], data[row*w*4:(row+1)*w*4])
	}
	t.owner.Uploaded += int64(len(data))
	return nil
}
