// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texupload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/orrery"
)

// flakyCreator creates Software textures until budget runs out.
type flakyCreator struct {
	sw     *Software
	budget int
	made   []*SoftwareTexture
}

func (f *flakyCreator) NewTextureFromRGBA(w, h int, data []byte) (gpucontext.Texture, error) {
	if f.budget == 0 {
		return nil, errors.New("out of video memory")
	}
	f.budget--
	tex, err := f.sw.NewTextureFromRGBA(w, h, data)
	if err == nil {
		f.made = append(f.made, tex.(*SoftwareTexture))
	}
	return tex, err
}

// wholeTexture has no UpdateRegion, so Overlay falls back to UpdateData.
type wholeTexture struct {
	st      *SoftwareTexture
	updates int
}

func (w *wholeTexture) Width() int  { return w.st.Width() }
func (w *wholeTexture) Height() int { return w.st.Height() }

func (w *wholeTexture) UpdateData(data []byte) error {
	w.updates++
	return w.st.UpdateData(data)
}

type wholeCreator struct {
	sw  *Software
	tex *wholeTexture
}

func (c *wholeCreator) NewTextureFromRGBA(w, h int, data []byte) (gpucontext.Texture, error) {
	t, err := c.sw.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return nil, err
	}
	c.tex = &wholeTexture{st: t.(*SoftwareTexture)}
	return c.tex, nil
}

// =============================================================================
// Upload helpers
// =============================================================================

func TestUploadSurface(t *testing.T) {
	buf, err := orrery.GenerateBandedSurface(1, 32, 16, orrery.GasGiantPalette())
	if err != nil {
		t.Fatal(err)
	}
	sw := NewSoftware(32, 16)
	tex, err := UploadSurface(sw, buf)
	if err != nil {
		t.Fatalf("UploadSurface() = %v", err)
	}
	if tex.Width() != 32 || tex.Height() != 16 {
		t.Errorf("texture = %dx%d", tex.Width(), tex.Height())
	}
	if !bytes.Equal(tex.(*SoftwareTexture).Image().Pix, buf.Bytes()) {
		t.Error("texture contents differ from the buffer")
	}

	if _, err := UploadSurface(nil, buf); !errors.Is(err, ErrNilCreator) {
		t.Errorf("nil creator: %v", err)
	}
	if _, err := UploadSurface(sw, nil); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("nil buffer: %v", err)
	}
}

func TestUploadCubemapFaces(t *testing.T) {
	buf, layout, err := orrery.GenerateStarfield(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	sw := NewSoftware(8, 8)
	faces, err := UploadCubemapFaces(sw, buf, layout)
	if err != nil {
		t.Fatalf("UploadCubemapFaces() = %v", err)
	}
	if sw.Created != 6 {
		t.Errorf("created %d textures, want 6", sw.Created)
	}
	for f, tex := range faces {
		want := buf.SubImage(layout.FaceRect(orrery.Face(f)))
		if !bytes.Equal(tex.(*SoftwareTexture).Image().Pix, want.Pix) {
			t.Errorf("face %v contents differ", orrery.Face(f))
		}
	}
}

func TestUploadCubemapFaces_FailureCleansUp(t *testing.T) {
	buf, layout, _ := orrery.GenerateStarfield(1, 4)
	fc := &flakyCreator{sw: NewSoftware(4, 4), budget: 3}
	faces, err := UploadCubemapFaces(fc, buf, layout)
	if !errors.Is(err, ErrTextureCreationFailed) {
		t.Fatalf("error = %v, want ErrTextureCreationFailed", err)
	}
	for _, f := range faces {
		if f != nil {
			t.Error("partial faces returned")
		}
	}
	for i, tex := range fc.made {
		if !tex.Destroyed() {
			t.Errorf("face %d leaked", i)
		}
	}
}

func TestUploadCubemapFaces_LayoutMismatch(t *testing.T) {
	buf, _, _ := orrery.GenerateStarfield(1, 4)
	if _, err := UploadCubemapFaces(NewSoftware(1, 1), buf, orrery.NewCubemapLayout(8)); !errors.Is(err, orrery.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

// =============================================================================
// Overlay
// =============================================================================

func TestOverlay_LazyCreateAndRegionUpdate(t *testing.T) {
	sw := NewSoftware(64, 64)
	o, err := NewOverlay(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer o.Close()

	if o.Texture() != nil {
		t.Fatal("texture created before first flush")
	}
	if err := o.RenderTo(sw); err != nil {
		t.Fatalf("RenderTo() = %v", err)
	}
	if sw.Created != 1 || o.IsDirty() {
		t.Fatalf("after first render: created=%d dirty=%v", sw.Created, o.IsDirty())
	}

	red := color.RGBA{R: 255, A: 255}
	r := image.Rect(2, 3, 5, 4)
	_ = o.DrawRect(r, func(img *image.RGBA) {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, 3, red)
		}
	})
	before := sw.Uploaded
	if _, err := o.Flush(sw); err != nil {
		t.Fatal(err)
	}
	if got := sw.Uploaded - before; got != int64(r.Dx()*r.Dy()*4) {
		t.Errorf("uploaded %d bytes, want only the dirty region (%d)", got, r.Dx()*r.Dy()*4)
	}
	if c := o.Texture().(*SoftwareTexture).Image().RGBAAt(4, 3); c != red {
		t.Errorf("texture pixel = %v, want red", c)
	}
	if sw.Created != 1 {
		t.Errorf("texture recreated: created=%d", sw.Created)
	}

	// Clean overlays upload nothing.
	before = sw.Uploaded
	_, _ = o.Flush(sw)
	if sw.Uploaded != before {
		t.Error("clean flush uploaded data")
	}
}

func TestOverlay_FullUpdateFallback(t *testing.T) {
	wc := &wholeCreator{sw: NewSoftware(8, 8)}
	o, _ := NewOverlay(4, 4)
	if _, err := o.Flush(wc); err != nil {
		t.Fatal(err)
	}
	_ = o.DrawRect(image.Rect(0, 0, 1, 1), func(img *image.RGBA) {
		img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	})
	if _, err := o.Flush(wc); err != nil {
		t.Fatal(err)
	}
	if wc.tex.updates != 1 {
		t.Errorf("UpdateData called %d times, want 1", wc.tex.updates)
	}
}

func TestOverlay_ResizeRecreates(t *testing.T) {
	sw := NewSoftware(8, 8)
	o, _ := NewOverlay(4, 4)
	first, _ := o.Flush(sw)
	if err := o.Resize(6, 2); err != nil {
		t.Fatal(err)
	}
	second, err := o.Flush(sw)
	if err != nil {
		t.Fatal(err)
	}
	if !first.(*SoftwareTexture).Destroyed() {
		t.Error("old texture not destroyed")
	}
	if second.Width() != 6 || second.Height() != 2 {
		t.Errorf("new texture = %dx%d", second.Width(), second.Height())
	}
	if err := o.Resize(0, 2); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 2) = %v", err)
	}
}

func TestOverlay_RenderToComposites(t *testing.T) {
	sw := NewSoftware(10, 10)
	o, _ := NewOverlay(2, 2)
	_ = o.Draw(func(img *image.RGBA) {
		img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})
	})
	if err := o.RenderToEx(sw, RenderOptions{X: 5, Y: 3}); err != nil {
		t.Fatal(err)
	}
	if c := sw.Frame.RGBAAt(6, 4); c.B != 255 {
		t.Errorf("frame pixel = %v, want blue", c)
	}
	if c := sw.Frame.RGBAAt(0, 0); c.A != 0 {
		t.Errorf("frame outside overlay = %v, want transparent", c)
	}
}

func TestOverlay_Closed(t *testing.T) {
	sw := NewSoftware(4, 4)
	o, _ := NewOverlay(2, 2)
	tex, _ := o.Flush(sw)
	if err := o.Close(); err != nil {
		t.Fatal(err)
	}
	if err := o.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if !tex.(*SoftwareTexture).Destroyed() {
		t.Error("Close did not destroy the texture")
	}
	if _, err := o.Flush(sw); !errors.Is(err, ErrOverlayClosed) {
		t.Errorf("Flush after Close = %v", err)
	}
	if err := o.Draw(func(*image.RGBA) {}); !errors.Is(err, ErrOverlayClosed) {
		t.Errorf("Draw after Close = %v", err)
	}
	if err := o.RenderTo(nil); !errors.Is(err, ErrNilDrawer) {
		t.Errorf("RenderTo(nil) = %v", err)
	}
}

func TestNewOverlay_Invalid(t *testing.T) {
	if _, err := NewOverlay(0, 3); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewOverlay(0, 3) = %v", err)
	}
}

// =============================================================================
// Software
// =============================================================================

func TestSoftware_ForeignTexture(t *testing.T) {
	a, b := NewSoftware(4, 4), NewSoftware(4, 4)
	tex, _ := a.NewTextureFromRGBA(1, 1, make([]byte, 4))
	if err := b.DrawTexture(tex, 0, 0); !errors.Is(err, ErrForeignTexture) {
		t.Errorf("DrawTexture(foreign) = %v", err)
	}
	tex.(*SoftwareTexture).Destroy()
	if err := a.DrawTexture(tex, 0, 0); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("DrawTexture(destroyed) = %v", err)
	}
}

func TestSoftware_Validation(t *testing.T) {
	sw := NewSoftware(4, 4)
	if _, err := sw.NewTextureFromRGBA(2, 2, make([]byte, 15)); err == nil {
		t.Error("short data accepted")
	}
	tex, _ := sw.NewTextureFromRGBA(2, 2, make([]byte, 16))
	st := tex.(*SoftwareTexture)
	if err := st.UpdateRegion(1, 1, 2, 2, make([]byte, 16)); err == nil {
		t.Error("out of bounds region accepted")
	}
	if err := st.UpdateData(make([]byte, 3)); err == nil {
		t.Error("short update accepted")
	}
}
