// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texupload

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/orrery"
)

// Overlay errors.
var (
	// ErrOverlayClosed is returned when operations are attempted on a closed overlay.
	ErrOverlayClosed = errors.New("texupload: overlay is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("texupload: invalid dimensions")

	// ErrNilDrawer is returned when RenderTo gets a nil TextureDrawer.
	ErrNilDrawer = errors.New("texupload: nil TextureDrawer")
)

// Overlay is a CPU image mirrored into a GPU texture.
//
// The texture is created on the first Flush and updated in place
// afterwards: only the dirty rectangle when the texture supports region
// updates, the whole image otherwise. A resize recreates the texture.
//
// Overlay is NOT safe for concurrent use.
type Overlay struct {
	img         *image.RGBA
	texture     gpucontext.Texture
	dirty       image.Rectangle
	sizeChanged bool
	closed      bool
}

// NewOverlay creates a transparent overlay.
func NewOverlay(width, height int) (*Overlay, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Overlay{img: img, dirty: img.Bounds()}, nil
}

// Image returns the CPU image. Mark changes with MarkDirty, or draw through
// Draw or DrawRect.
func (o *Overlay) Image() *image.RGBA {
	return o.img
}

// Bounds returns the overlay bounds.
func (o *Overlay) Bounds() image.Rectangle {
	return o.img.Bounds()
}

// MarkDirty flags r for upload on the next Flush.
func (o *Overlay) MarkDirty(r image.Rectangle) {
	o.dirty = o.dirty.Union(r.Intersect(o.img.Bounds()))
}

// IsDirty reports whether changes are waiting for upload.
func (o *Overlay) IsDirty() bool {
	return !o.dirty.Empty()
}

// Draw calls fn with the image and marks all of it dirty.
func (o *Overlay) Draw(fn func(*image.RGBA)) error {
	return o.DrawRect(o.img.Bounds(), fn)
}

// DrawRect calls fn with the image and marks only r dirty.
func (o *Overlay) DrawRect(r image.Rectangle, fn func(*image.RGBA)) error {
	if o.closed {
		return ErrOverlayClosed
	}
	fn(o.img)
	o.MarkDirty(r)
	return nil
}

// Resize reallocates the image, clearing it. The texture is recreated on
// the next Flush.
func (o *Overlay) Resize(width, height int) error {
	if o.closed {
		return ErrOverlayClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if o.img.Bounds().Dx() == width && o.img.Bounds().Dy() == height {
		return nil
	}
	o.img = image.NewRGBA(image.Rect(0, 0, width, height))
	o.dirty = o.img.Bounds()
	o.sizeChanged = true
	return nil
}

// Flush uploads pending changes through c and returns the texture.
func (o *Overlay) Flush(c gpucontext.TextureCreator) (gpucontext.Texture, error) {
	if o.closed {
		return nil, ErrOverlayClosed
	}
	if o.sizeChanged && o.texture != nil {
		destroy(o.texture)
		o.texture = nil
	}
	o.sizeChanged = false

	if o.texture == nil {
		if c == nil {
			return nil, ErrNilCreator
		}
		b := o.img.Bounds()
		tex, err := c.NewTextureFromRGBA(b.Dx(), b.Dy(), o.img.Pix)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTextureCreationFailed, err)
		}
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		o.texture = tex
		o.dirty = image.Rectangle{}
		orrery.Logger().Debug("overlay texture created", "width", b.Dx(), "height", b.Dy())
		return tex, nil
	}

	if o.dirty.Empty() {
		return o.texture, nil
	}
	if err := o.upload(); err != nil {
		return nil, err
	}
	o.dirty = image.Rectangle{}
	return o.texture, nil
}

func (o *Overlay) upload() error {
	r := o.dirty
	if ru, ok := o.texture.(gpucontext.TextureRegionUpdater); ok && r != o.img.Bounds() {
		if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), packRegion(o.img, r)); err != nil {
			return fmt.Errorf("texupload: region update failed: %w", err)
		}
		return nil
	}
	if u, ok := o.texture.(gpucontext.TextureUpdater); ok {
		if err := u.UpdateData(o.img.Pix); err != nil {
			return fmt.Errorf("texupload: texture update failed: %w", err)
		}
	}
	return nil
}

// packRegion copies r out of img into densely packed rows.
func packRegion(img *image.RGBA, r image.Rectangle) []byte {
	row := r.Dx() * 4
	out := make([]byte, 0, row*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[i:i+row]...)
	}
	return out
}

// RenderOptions controls where the overlay is drawn.
type RenderOptions struct {
	X, Y float32
}

// RenderTo flushes the overlay and draws it at the top-left corner.
func (o *Overlay) RenderTo(dc gpucontext.TextureDrawer) error {
	return o.RenderToEx(dc, RenderOptions{})
}

// RenderToEx flushes the overlay and draws it at opts.X, opts.Y.
func (o *Overlay) RenderToEx(dc gpucontext.TextureDrawer, opts RenderOptions) error {
	if dc == nil {
		return ErrNilDrawer
	}
	tex, err := o.Flush(dc.TextureCreator())
	if err != nil {
		return err
	}
	return dc.DrawTexture(tex, opts.X, opts.Y)
}

// Texture returns the current texture without flushing, or nil.
func (o *Overlay) Texture() gpucontext.Texture {
	return o.texture
}

// Close destroys the texture. Close is idempotent.
func (o *Overlay) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if o.texture != nil {
		destroy(o.texture)
		o.texture = nil
	}
	return nil
}
