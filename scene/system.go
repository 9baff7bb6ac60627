package scene

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/orrery"
)

// Errors returned by the scene package.
var (
	ErrInvalidBody    = errors.New("scene: invalid body")
	ErrUnknownBody    = errors.New("scene: unknown body")
	ErrUnknownPalette = errors.New("scene: unknown palette")
)

// MaxTimeScale bounds SetTimeScale.
const MaxTimeScale = 1000

// System is a set of bodies advanced together. Parents must appear before
// their children in Bodies.
type System struct {
	Bodies    []Body
	TimeScale float64
	Paused    bool

	elapsed float64
}

// NewSystem validates bodies and returns a system running at normal speed.
func NewSystem(bodies ...Body) (*System, error) {
	for i := range bodies {
		if err := bodies[i].validate(i); err != nil {
			return nil, err
		}
	}
	return &System{Bodies: bodies, TimeScale: 1}, nil
}

// DefaultSystem returns a sun with four planets and one moon. The two
// showcase giants keep fixed surface seeds; the ice giant has no storm.
func DefaultSystem() *System {
	s, err := NewSystem(
		Body{
			Name: "sun", Radius: 5, SpinPeriod: 120, Parent: NoParent, Emissive: true,
			Surface: SurfaceSpec{Color: orrery.MustHex("#ffd36b"), Width: 256, Height: 128},
		},
		Body{
			Name: "cinder", Radius: 0.8, OrbitRadius: 12, OrbitPeriod: 24, SpinPeriod: 30,
			Tilt: 0.03, Parent: NoParent,
			Surface: SurfaceSpec{Color: orrery.MustHex("#8a7667"), Width: 256, Height: 128},
		},
		Body{
			Name: "jove", Radius: 3, OrbitRadius: 26, OrbitPeriod: 90, SpinPeriod: 10,
			Tilt: 0.05, Parent: NoParent,
			Surface: SurfaceSpec{
				Palette: "amber-titan", Width: 2048, Height: 1024,
				Seed: ptr(orrery.Seed(12345)), Jitter: ptr(0.02),
			},
		},
		Body{
			Name: "io", Radius: 0.4, OrbitRadius: 5, OrbitPeriod: 8, SpinPeriod: 8,
			Parent: 2,
			Surface: SurfaceSpec{Color: orrery.MustHex("#d9c25a"), Width: 128, Height: 64},
		},
		Body{
			Name: "saturnine", Radius: 2.5, OrbitRadius: 40, OrbitPeriod: 160, SpinPeriod: 11,
			Tilt: 0.47, Parent: NoParent,
			Surface: SurfaceSpec{Palette: "ringed-giant", Width: 1024, Height: 512},
		},
		Body{
			Name: "azure", Radius: 1.8, OrbitRadius: 54, OrbitPeriod: 260, SpinPeriod: 16,
			Tilt: 1.7, Parent: NoParent,
			Surface: SurfaceSpec{
				Palette: "azure-colossus", Width: 2048, Height: 1024,
				Seed: ptr(orrery.Seed(54321)), Jitter: ptr(0.015), Storm: &orrery.Storm{},
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return s
}

// Index returns the index of the body called name.
func (s *System) Index(name string) (int, bool) {
	for i := range s.Bodies {
		if s.Bodies[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Elapsed returns the simulated time in seconds.
func (s *System) Elapsed() float64 {
	return s.elapsed
}

// SetTimeScale sets the simulation speed, clamped to [0, MaxTimeScale], and
// returns the value applied.
func (s *System) SetTimeScale(scale float64) float64 {
	if math.IsNaN(scale) {
		scale = 1
	}
	s.TimeScale = math.Max(0, math.Min(MaxTimeScale, scale))
	return s.TimeScale
}

// Update advances every body by dt wall-clock seconds scaled by TimeScale.
// It does nothing while paused.
func (s *System) Update(dt float64) {
	if s.Paused || dt <= 0 {
		return
	}
	step := dt * s.TimeScale
	s.elapsed += step
	for i := range s.Bodies {
		s.Bodies[i].advance(step)
	}
}

// Position returns the world position of body i, following its parents.
func (s *System) Position(i int) mgl64.Vec3 {
	var p mgl64.Vec3
	for i != NoParent {
		b := &s.Bodies[i]
		a := b.orbitAngle
		p = p.Add(mgl64.Vec3{b.OrbitRadius * math.Cos(a), 0, -b.OrbitRadius * math.Sin(a)})
		i = b.Parent
	}
	return p
}

// Transform returns the model matrix of body i: translate, spin about Y,
// tilt about Z, then scale to the body radius.
func (s *System) Transform(i int) mgl64.Mat4 {
	b := &s.Bodies[i]
	r := b.Radius
	return mgl64.Translate3D(s.Position(i).Elem()).
		Mul4(mgl64.HomogRotate3DY(b.spinAngle)).
		Mul4(mgl64.HomogRotate3DZ(b.Tilt)).
		Mul4(mgl64.Scale3D(r, r, r))
}

// Lighting returns a point light at every emissive body plus a faint
// ambient term.
func (s *System) Lighting() Lighting {
	l := Lighting{Ambient: AmbientLight{Color: orrery.RGB{R: 1, G: 1, B: 1}, Intensity: 0.06}}
	for i := range s.Bodies {
		if s.Bodies[i].Emissive {
			l.Points = append(l.Points, PointLight{
				Position:  s.Position(i),
				Color:     s.Bodies[i].Surface.Color,
				Intensity: 1,
			})
		}
	}
	return l
}
