package orrery

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Layout labels carried by CubemapLayout.
const (
	StackingVertical    = "vertical"
	TargetViewCubeArray = "cube-array"
)

// CubemapLayout describes how a starfield buffer is arranged: FaceCount
// square faces of FaceSize pixels stacked top to bottom in Face order, to be
// reinterpreted as FaceCount array layers and viewed as a cube.
//
// The layout is plain data; creating the GPU texture is up to the caller.
type CubemapLayout struct {
	FaceSize   int
	FaceCount  int
	Stacking   string
	TargetView string
}

// NewCubemapLayout returns the layout of a vertically stacked cubemap with
// the given face size.
func NewCubemapLayout(faceSize int) CubemapLayout {
	return CubemapLayout{
		FaceSize:   faceSize,
		FaceCount:  FaceCount,
		Stacking:   StackingVertical,
		TargetView: TargetViewCubeArray,
	}
}

// Width returns the width of the stacked image in pixels.
func (l CubemapLayout) Width() int {
	return l.FaceSize
}

// Height returns the height of the stacked image in pixels.
func (l CubemapLayout) Height() int {
	return l.FaceSize * l.FaceCount
}

// FaceRect returns the pixel rectangle of face f inside the stacked image.
func (l CubemapLayout) FaceRect(f Face) image.Rectangle {
	top := int(f) * l.FaceSize
	return image.Rect(0, top, l.FaceSize, top+l.FaceSize)
}

// BytesPerRow returns the byte length of one row of one face.
func (l CubemapLayout) BytesPerRow() int {
	return l.FaceSize * Channels
}

// FaceBytes returns the byte length of one face.
func (l CubemapLayout) FaceBytes() int {
	return l.BytesPerRow() * l.FaceSize
}

// FaceOffset returns the byte offset of face f in the stacked buffer. Faces
// are contiguous, so face f occupies [FaceOffset(f), FaceOffset(f)+FaceBytes()).
func (l CubemapLayout) FaceOffset(f Face) int {
	return int(f) * l.FaceBytes()
}

// FaceData returns the bytes of face f inside buf without copying.
func (l CubemapLayout) FaceData(buf *PixelBuffer, f Face) []byte {
	off := l.FaceOffset(f)
	return buf.Bytes()[off : off+l.FaceBytes()]
}

// Format returns the texel format of the buffer.
func (l CubemapLayout) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Extent returns the texture size with one array layer per face.
func (l CubemapLayout) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(l.FaceSize),
		Height:             uint32(l.FaceSize),
		DepthOrArrayLayers: uint32(l.FaceCount),
	}
}

// DataLayout returns the upload layout of the stacked buffer: each layer
// is FaceSize rows of BytesPerRow bytes, one layer after another.
func (l CubemapLayout) DataLayout() gputypes.TextureDataLayout {
	return gputypes.TextureDataLayout{
		BytesPerRow:  uint32(l.BytesPerRow()),
		RowsPerImage: uint32(l.FaceSize),
	}
}

// Dimension returns the dimension of the texture to create (a 2D array).
func (l CubemapLayout) Dimension() gputypes.TextureDimension {
	return gputypes.TextureDimension2D
}

// ViewDimension returns the view dimension to sample the array with.
func (l CubemapLayout) ViewDimension() gputypes.TextureViewDimension {
	return gputypes.TextureViewDimensionCube
}

// TextureDescriptor returns the descriptor of the 2D array texture that
// receives the buffer: one mip level, sampled and copy-destination usage.
func (l CubemapLayout) TextureDescriptor(label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          l.Extent(),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     l.Dimension(),
		Format:        l.Format(),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// ViewDescriptor returns the cube view over all FaceCount layers.
func (l CubemapLayout) ViewDescriptor(label string) gputypes.TextureViewDescriptor {
	return gputypes.TextureViewDescriptor{
		Label:           label,
		Format:          l.Format(),
		Dimension:       l.ViewDimension(),
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: uint32(l.FaceCount),
	}
}

// Validate reports whether the layout matches a buffer.
func (l CubemapLayout) Validate(buf *PixelBuffer) error {
	switch {
	case buf == nil:
		return invalidf("nil buffer")
	case l.FaceSize <= 0 || l.FaceCount != FaceCount:
		return invalidf("bad cubemap layout %+v", l)
	case buf.Width() != l.Width() || buf.Height() != l.Height():
		return invalidf("buffer is %dx%d, layout wants %dx%d", buf.Width(), buf.Height(), l.Width(), l.Height())
	}
	return nil
}
