package scene

import "github.com/go-gl/mathgl/mgl64"

// Key is a keyboard key the viewer reacts to.
type Key uint8

// Keys handled by the camera rig.
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyShift
	KeyTab
	KeySpace
)

// KeySet is a bit set of keys.
type KeySet uint32

// Keys builds a set from keys.
func Keys(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

// Input is one frame's worth of user input.
//
// Held lists keys that are down this frame; Pressed lists keys that went
// down since the previous frame, for toggles. MouseDelta is in pixels with
// +Y pointing down the screen, Scroll in wheel notches (positive zooms in).
type Input struct {
	MouseDelta mgl64.Vec2
	Dragging   bool
	Scroll     float64
	Held       KeySet
	Pressed    KeySet
}
