package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/orrery"
)

// PointLight radiates equally in all directions from Position.
type PointLight struct {
	Position  mgl64.Vec3
	Color     orrery.RGB
	Intensity float64
}

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Color     orrery.RGB
	Intensity float64
}

// Lighting is the set of lights in a frame.
type Lighting struct {
	Ambient AmbientLight
	Points  []PointLight
}

// At returns the Lambert intensity at point for a surface facing normal:
// the ambient intensity plus, for each point light, max(0, n·l).
func (l Lighting) At(point, normal mgl64.Vec3) float64 {
	n := normal.Normalize()
	sum := l.Ambient.Intensity
	for _, p := range l.Points {
		d := p.Position.Sub(point)
		if d.Len() == 0 {
			continue
		}
		sum += p.Intensity * math.Max(0, n.Dot(d.Normalize()))
	}
	return sum
}

// Shade lights an albedo colour at point. Light colours tint the result.
func (l Lighting) Shade(point, normal mgl64.Vec3, albedo orrery.RGB) orrery.RGB {
	n := normal.Normalize()
	a := l.Ambient.Intensity
	out := orrery.RGB{
		R: albedo.R * l.Ambient.Color.R * a,
		G: albedo.G * l.Ambient.Color.G * a,
		B: albedo.B * l.Ambient.Color.B * a,
	}
	for _, p := range l.Points {
		d := p.Position.Sub(point)
		if d.Len() == 0 {
			continue
		}
		k := p.Intensity * math.Max(0, n.Dot(d.Normalize()))
		out.R += albedo.R * p.Color.R * k
		out.G += albedo.G * p.Color.G * k
		out.B += albedo.B * p.Color.B * k
	}
	return out
}
