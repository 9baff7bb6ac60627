// Package orrery generates the procedural textures of a solar-system viewer
// on the CPU: a seamless starfield cubemap for the skybox and banded
// equirectangular surfaces for gas giants.
//
// # Overview
//
// Both generators fill an 8-bit RGBA [PixelBuffer] row by row on a worker
// pool. Output is a pure function of the seed and the parameters, and does
// not depend on the worker count.
//
//	buf, layout, err := orrery.GenerateStarfield(seed, 2048)
//	if err != nil {
//		return err
//	}
//	desc := layout.TextureDescriptor("skybox") // six layers, viewed as a cube
//
//	jove, err := orrery.GenerateBandedSurface(seed, 1024, 512, orrery.Palettes["gas-giant"]())
//
// # Starfield
//
// The cubemap is six square faces stacked vertically in +X, -X, +Y, -Y, +Z,
// -Z order. Each pixel is classified from three hashes of its view direction,
// so a direction on an edge shared by two faces looks the same on both and
// the sky has no seams. [CubemapLayout] carries what a renderer needs to
// create the 2D array texture and its cube view.
//
// # Banded surfaces
//
// A banded surface walks a [Palette] from pole to pole along a warped ramp,
// then adds turbulence, a drifting storm oval and seeded per-pixel jitter.
// Every scanline draws from its own random stream derived from the seed and
// the row index.
//
// # Errors
//
// Invalid arguments wrap [ErrInvalidParameter]; buffers larger than the byte
// budget (see [WithMaxBytes]) wrap [ErrAllocationFailure].
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to receive debug
// records about generation timing.
//
// # Related packages
//
//   - scene: bodies, orbits, cameras and lighting
//   - hud: text overlay
//   - config: TOML settings
//   - integration/texupload: hands buffers to a gpucontext renderer
package orrery
