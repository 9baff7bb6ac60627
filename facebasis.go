package orrery

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one cubemap face. The order matches the layer order of a
// cube texture: +X, -X, +Y, -Y, +Z, -Z.
type Face int

// Cubemap faces.
const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// FaceCount is the number of faces in a cubemap.
const FaceCount = 6

var faceNames = [FaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

// String returns the face label, e.g. "+X".
func (f Face) String() string {
	if f < 0 || f >= FaceCount {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Slug returns a file-name friendly label, e.g. "px" or "nz".
func (f Face) Slug() string {
	if f < 0 || f >= FaceCount {
		return fmt.Sprintf("face%d", int(f))
	}
	return [FaceCount]string{"px", "nx", "py", "ny", "pz", "nz"}[f]
}

// FaceBasis orients one face in world space. For image coordinates
// u (right) and v (up) in [-1, 1], the face samples the direction
// Forward + Right*u + Up*v. Right × Up == Forward on every face.
type FaceBasis struct {
	Forward mgl64.Vec3
	Up      mgl64.Vec3
	Right   mgl64.Vec3
}

// faceBases follows the conventional cube texture orientation, so the faces
// can be uploaded as layers without flipping.
var faceBases = [FaceCount]FaceBasis{
	FacePosX: {Forward: mgl64.Vec3{1, 0, 0}, Up: mgl64.Vec3{0, 1, 0}, Right: mgl64.Vec3{0, 0, -1}},
	FaceNegX: {Forward: mgl64.Vec3{-1, 0, 0}, Up: mgl64.Vec3{0, 1, 0}, Right: mgl64.Vec3{0, 0, 1}},
	FacePosY: {Forward: mgl64.Vec3{0, 1, 0}, Up: mgl64.Vec3{0, 0, -1}, Right: mgl64.Vec3{1, 0, 0}},
	FaceNegY: {Forward: mgl64.Vec3{0, -1, 0}, Up: mgl64.Vec3{0, 0, 1}, Right: mgl64.Vec3{1, 0, 0}},
	FacePosZ: {Forward: mgl64.Vec3{0, 0, 1}, Up: mgl64.Vec3{0, 1, 0}, Right: mgl64.Vec3{1, 0, 0}},
	FaceNegZ: {Forward: mgl64.Vec3{0, 0, -1}, Up: mgl64.Vec3{0, 1, 0}, Right: mgl64.Vec3{-1, 0, 0}},
}

// FaceBases returns the compiled-in basis table. The array is returned by
// value; the table itself cannot be modified.
func FaceBases() [FaceCount]FaceBasis {
	return faceBases
}

// Basis returns the basis of face f.
func (f Face) Basis() FaceBasis {
	return faceBases[f]
}

// Direction returns the unit direction seen at face coordinates (u, v),
// where u grows to the right and v grows upward, both in [-1, 1].
func (f Face) Direction(u, v float64) mgl64.Vec3 {
	b := faceBases[f]
	return b.Forward.Add(b.Right.Mul(u)).Add(b.Up.Mul(v)).Normalize()
}

// PixelNDC maps pixel (x, y) on a size×size face to face coordinates.
// Edge pixels sit exactly on the face border (u or v is ±1), so neighbouring
// faces sample the same directions along their shared edge. v is inverted
// so image row 0 is the top of the face. A 1-pixel face maps to its centre.
func PixelNDC(x, y, size int) (u, v float64) {
	if size <= 1 {
		return 0, 0
	}
	return edgeNDC(x, size), edgeNDC(size-1-y, size)
}

// edgeNDC maps i in [0, size) onto [-1, 1]. The numerator is an exact
// integer, so edgeNDC(size-1-i) == -edgeNDC(i) bit for bit.
func edgeNDC(i, size int) float64 {
	return float64(2*i-(size-1)) / float64(size-1)
}

// PixelDirection returns the direction sampled by pixel (x, y) on a
// size×size image of face f.
func (f Face) PixelDirection(x, y, size int) mgl64.Vec3 {
	u, v := PixelNDC(x, y, size)
	return f.Direction(u, v)
}

// FaceForDirection returns the face a direction falls on and its face
// coordinates, inverting Direction. Ties on an edge go to the first face in
// +X, -X, +Y, -Y, +Z, -Z order. The zero vector maps to +Z at the centre.
func FaceForDirection(dir mgl64.Vec3) (f Face, u, v float64) {
	ax, ay, az := math.Abs(dir[0]), math.Abs(dir[1]), math.Abs(dir[2])
	switch {
	case ax == 0 && ay == 0 && az == 0:
		return FacePosZ, 0, 0
	case ax >= ay && ax >= az:
		f = FacePosX
		if dir[0] < 0 {
			f = FaceNegX
		}
	case ay >= az:
		f = FacePosY
		if dir[1] < 0 {
			f = FaceNegY
		}
	default:
		f = FacePosZ
		if dir[2] < 0 {
			f = FaceNegZ
		}
	}
	u, v = f.Project(dir)
	return f, u, v
}

// Project returns the face coordinates where the ray along dir crosses the
// plane of face f. The result is meaningful only when dir points into the
// face's hemisphere (dir·Forward > 0); on a shared edge, both faces project
// it onto their boundary.
func (f Face) Project(dir mgl64.Vec3) (u, v float64) {
	b := faceBases[f]
	d := dir.Dot(b.Forward)
	return dir.Dot(b.Right) / d, dir.Dot(b.Up) / d
}
