package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/orrery"
)

// maxPitch keeps cameras off the poles, where the up vector degenerates.
var maxPitch = mgl64.DegToRad(89)

var worldUp = mgl64.Vec3{0, 1, 0}

// OrbitCamera circles a target point. Yaw and Pitch are radians; at zero the
// camera sits on +Z of the target looking down -Z.
type OrbitCamera struct {
	Target      mgl64.Vec3
	Yaw         float64
	Pitch       float64
	Distance    float64
	MinDistance float64
	MaxDistance float64
	Sensitivity float64 // radians per pixel dragged
	ZoomFactor  float64 // distance ratio per scroll notch
}

// NewOrbitCamera returns an orbit camera looking at the origin from above
// the ecliptic.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Pitch:       mgl64.DegToRad(25),
		Distance:    80,
		MinDistance: 1,
		MaxDistance: 500,
		Sensitivity: 0.005,
		ZoomFactor:  1.1,
	}
}

// Update applies drag rotation and scroll zoom.
func (c *OrbitCamera) Update(in Input) {
	if in.Dragging {
		c.Yaw = wrapAngle(c.Yaw - in.MouseDelta.X()*c.Sensitivity)
		c.Pitch = clampPitch(c.Pitch + in.MouseDelta.Y()*c.Sensitivity)
	}
	if in.Scroll != 0 {
		c.Zoom(math.Pow(c.ZoomFactor, -in.Scroll))
	}
}

// Zoom multiplies the distance by ratio, keeping it within limits.
func (c *OrbitCamera) Zoom(ratio float64) {
	c.Distance = clamp(c.Distance*ratio, c.MinDistance, c.MaxDistance)
}

// offset is the unit vector from the target to the camera.
func (c *OrbitCamera) offset() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), cp * math.Cos(c.Yaw)}
}

// Position returns the camera position.
func (c *OrbitCamera) Position() mgl64.Vec3 {
	return c.Target.Add(c.offset().Mul(c.Distance))
}

// View returns the world-to-camera matrix.
func (c *OrbitCamera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), c.Target, worldUp)
}

// FlyCamera moves freely. At zero yaw and pitch it looks down -Z.
type FlyCamera struct {
	Position    mgl64.Vec3
	Yaw         float64
	Pitch       float64
	Speed       float64 // units per second
	Sensitivity float64 // radians per pixel
}

// NewFlyCamera returns a fly camera at pos.
func NewFlyCamera(pos mgl64.Vec3) *FlyCamera {
	return &FlyCamera{Position: pos, Speed: 20, Sensitivity: 0.003}
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{-math.Sin(c.Yaw) * cp, math.Sin(c.Pitch), -math.Cos(c.Yaw) * cp}
}

// Right returns the unit vector to the camera's right, in the ecliptic plane.
func (c *FlyCamera) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Update applies mouse look and WASD/QE movement over dt seconds. Shift
// doubles the speed.
func (c *FlyCamera) Update(in Input, dt float64) {
	c.Yaw = wrapAngle(c.Yaw - in.MouseDelta.X()*c.Sensitivity)
	c.Pitch = clampPitch(c.Pitch - in.MouseDelta.Y()*c.Sensitivity)

	var move mgl64.Vec3
	fwd, right := c.Forward(), c.Right()
	for _, k := range []struct {
		key Key
		dir mgl64.Vec3
	}{
		{KeyW, fwd}, {KeyS, fwd.Mul(-1)},
		{KeyD, right}, {KeyA, right.Mul(-1)},
		{KeyE, worldUp}, {KeyQ, worldUp.Mul(-1)},
	} {
		if in.Held.Has(k.key) {
			move = move.Add(k.dir)
		}
	}
	if move.Len() == 0 {
		return
	}
	speed := c.Speed
	if in.Held.Has(KeyShift) {
		speed *= 2
	}
	c.Position = c.Position.Add(move.Normalize().Mul(speed * dt))
}

// View returns the world-to-camera matrix.
func (c *FlyCamera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), worldUp)
}

// Mode selects the active camera of a Rig.
type Mode int

// Camera modes.
const (
	ModeOrbit Mode = iota
	ModeFly
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeFly {
		return "fly"
	}
	return "orbit"
}

// Rig owns both cameras and the projection. Tab switches between them; the
// new camera starts from the old one's pose so the view does not jump.
type Rig struct {
	Mode  Mode
	Orbit *OrbitCamera
	Fly   *FlyCamera
	FOV   float64 // vertical, degrees
	Near  float64
	Far   float64
}

// NewRig returns a rig in orbit mode.
func NewRig() *Rig {
	orbit := NewOrbitCamera()
	return &Rig{
		Mode:  ModeOrbit,
		Orbit: orbit,
		Fly:   NewFlyCamera(orbit.Position()),
		FOV:   60,
		Near:  0.1,
		Far:   5000,
	}
}

// Update handles the mode toggle and forwards input to the active camera.
func (r *Rig) Update(in Input, dt float64) {
	if in.Pressed.Has(KeyTab) {
		r.Toggle()
	}
	switch r.Mode {
	case ModeFly:
		r.Fly.Update(in, dt)
	default:
		r.Orbit.Update(in)
	}
}

// Toggle switches cameras, handing over position and heading.
func (r *Rig) Toggle() {
	switch r.Mode {
	case ModeOrbit:
		r.Fly.Position = r.Orbit.Position()
		r.Fly.Yaw = r.Orbit.Yaw
		r.Fly.Pitch = -r.Orbit.Pitch
		r.Mode = ModeFly
	default:
		r.Orbit.Yaw = r.Fly.Yaw
		r.Orbit.Pitch = -r.Fly.Pitch
		r.Orbit.Target = r.Fly.Position.Add(r.Fly.Forward().Mul(r.Orbit.Distance))
		r.Mode = ModeOrbit
	}
	orrery.Logger().Debug("camera mode", "mode", r.Mode.String())
}

// Position returns the active camera's position.
func (r *Rig) Position() mgl64.Vec3 {
	if r.Mode == ModeFly {
		return r.Fly.Position
	}
	return r.Orbit.Position()
}

// View returns the active camera's view matrix.
func (r *Rig) View() mgl64.Mat4 {
	if r.Mode == ModeFly {
		return r.Fly.View()
	}
	return r.Orbit.View()
}

// Projection returns the perspective projection for a viewport aspect ratio.
func (r *Rig) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(r.FOV), aspect, r.Near, r.Far)
}

// Focus switches to the orbit camera centred on body i, backing off to a
// few body radii.
func (r *Rig) Focus(s *System, i int) error {
	if i < 0 || i >= len(s.Bodies) {
		return ErrUnknownBody
	}
	r.Mode = ModeOrbit
	r.Orbit.Target = s.Position(i)
	r.Orbit.Distance = clamp(s.Bodies[i].Radius*6, r.Orbit.MinDistance, r.Orbit.MaxDistance)
	orrery.Logger().Debug("camera focus", "body", s.Bodies[i].Name)
	return nil
}

func clampPitch(p float64) float64 {
	return clamp(p, -maxPitch, maxPitch)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
