// Package scene holds the host-side state of the viewer: celestial bodies and
// their orbits, the camera rig, per-frame input and lighting.
//
// Everything here is plain data updated once per frame by the caller; there
// is no global state and no rendering. Textures for the bodies come from the
// orrery generators, driven by each body's SurfaceSpec.
package scene
