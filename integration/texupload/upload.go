// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texupload

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/orrery"
)

// Common errors returned by the upload helpers.
var (
	// ErrNilCreator is returned when a nil TextureCreator is passed.
	ErrNilCreator = errors.New("texupload: nil TextureCreator")

	// ErrNilBuffer is returned when a nil buffer is passed.
	ErrNilBuffer = errors.New("texupload: nil buffer")

	// ErrTextureCreationFailed wraps errors from the renderer.
	ErrTextureCreationFailed = errors.New("texupload: texture creation failed")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// UploadSurface creates a texture holding a whole surface buffer.
func UploadSurface(c gpucontext.TextureCreator, buf *orrery.PixelBuffer) (gpucontext.Texture, error) {
	if c == nil {
		return nil, ErrNilCreator
	}
	if buf == nil {
		return nil, ErrNilBuffer
	}
	tex, err := c.NewTextureFromRGBA(buf.Width(), buf.Height(), buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTextureCreationFailed, err)
	}
	orrery.Logger().Debug("surface uploaded", "width", buf.Width(), "height", buf.Height())
	return tex, nil
}

// UploadCubemapFaces creates one texture per face of a stacked starfield
// buffer, in Face order. It serves renderers that cannot view a layered
// texture as a cube. Face data is passed without copying.
//
// If any face fails, the faces created so far are destroyed.
func UploadCubemapFaces(c gpucontext.TextureCreator, buf *orrery.PixelBuffer, layout orrery.CubemapLayout) ([orrery.FaceCount]gpucontext.Texture, error) {
	var faces [orrery.FaceCount]gpucontext.Texture
	if c == nil {
		return faces, ErrNilCreator
	}
	if err := layout.Validate(buf); err != nil {
		return faces, err
	}
	for f := range orrery.Face(orrery.FaceCount) {
		tex, err := c.NewTextureFromRGBA(layout.FaceSize, layout.FaceSize, layout.FaceData(buf, f))
		if err != nil {
			for _, t := range faces[:f] {
				destroy(t)
			}
			return [orrery.FaceCount]gpucontext.Texture{}, fmt.Errorf("%w: face %v: %w", ErrTextureCreationFailed, f, err)
		}
		faces[f] = tex
	}
	orrery.Logger().Debug("cubemap faces uploaded", "face_size", layout.FaceSize)
	return faces, nil
}
