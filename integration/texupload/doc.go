// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texupload hands orrery buffers to a gogpu renderer.
//
// The package depends only on the gpucontext interfaces, so it works with
// any renderer that can create textures from RGBA bytes:
//
//	creator := dc.TextureCreator()
//	sky, err := texupload.UploadCubemapFaces(creator, buf, layout)
//
// Overlay keeps a CPU image (the HUD) in sync with a texture, uploading only
// what changed, and draws it each frame:
//
//	overlay.Draw(func(img *image.RGBA) { hud.Draw(img, lines) })
//	overlay.RenderTo(dc)
//
// Software implements the same interfaces in memory for headless runs.
package texupload
