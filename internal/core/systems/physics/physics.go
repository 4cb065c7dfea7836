// Package physics resolves swept movement of boxes against per-voxel
// collision maps.
//
// Bodies are registered in a System under string ids. MoveBody marches rays
// from the leading faces of a body along the requested displacement, consults
// the collision grids of every other body at each step and applies the
// componentwise smallest displacement any ray could travel.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// probeEpsilon pulls probes taken from a max face back inside the cell that
// face closes, so a face sitting exactly on a voxel boundary does not count as
// entering the next voxel.
const probeEpsilon = 1e-9

// AABB is an axis-aligned box covering [Min, Max).
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Contains reports whether p lies in the half-open box.
func (a AABB) Contains(p mgl64.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() < a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() < a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() < a.Max.Z()
}

// Intersects reports whether the two boxes share any volume.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

// Size returns the extent of the box on each axis.
func (a AABB) Size() mgl64.Vec3 { return a.Max.Sub(a.Min) }

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

func isZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// boundedStep is r clamped to at most one unit, keeping its sign.
func boundedStep(r float64) float64 {
	if math.Abs(r) < 1 {
		return r
	}
	return sign(r)
}
