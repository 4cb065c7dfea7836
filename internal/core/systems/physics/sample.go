package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// sample is a ray origin on the boundary of a moving body. bias is added to
// the point before a voxel lookup; it is -probeEpsilon on axes where the point
// sits on a max face so the lookup lands in the voxel the face closes.
type sample struct {
	point mgl64.Vec3
	bias  mgl64.Vec3
}

type axisCoord struct {
	value float64
	bias  float64
}

// span returns points of [pos, pos+dim) on one axis at unit spacing from pos,
// closed by the max face. Any voxel at least one unit wide that overlaps the
// range contains one of them.
func span(pos, dim float64) []axisCoord {
	n := int(math.Ceil(dim))
	out := make([]axisCoord, 0, n+1)
	for k := 0; k < n; k++ {
		out = append(out, axisCoord{value: pos + float64(k)})
	}
	return append(out, axisCoord{value: pos + dim, bias: -probeEpsilon})
}

// leadingFace is the face of [pos, pos+dim) that moves into new space when
// travelling with sign v.
func leadingFace(pos, dim, v float64) axisCoord {
	if v > 0 {
		return axisCoord{value: pos + dim, bias: -probeEpsilon}
	}
	return axisCoord{value: pos}
}

// samplePoints lists the ray origins for moving a box at pos with size dims
// along v: for every axis v moves on, the leading face of that axis crossed
// with points spanning the box on the other two. Spans include both faces, so
// the corners of the box are among the samples. A box without volume yields
// no samples.
func samplePoints(pos, dims, v mgl64.Vec3) []sample {
	if !isFinite(pos) || !isFinite(dims) {
		return nil
	}
	for a := 0; a < 3; a++ {
		if !(dims[a] > 0) {
			return nil
		}
	}

	var perAxis [3][]axisCoord
	for a := 0; a < 3; a++ {
		perAxis[a] = span(pos[a], dims[a])
	}

	seen := make(map[sample]struct{})
	var out []sample
	for a := 0; a < 3; a++ {
		if v[a] == 0 {
			continue
		}
		axes := perAxis
		axes[a] = []axisCoord{leadingFace(pos[a], dims[a], v[a])}

		for _, cx := range axes[0] {
			for _, cy := range axes[1] {
				for _, cz := range axes[2] {
					s := sample{
						point: mgl64.Vec3{cx.value, cy.value, cz.value},
						bias:  mgl64.Vec3{cx.bias, cy.bias, cz.bias},
					}
					if _, dup := seen[s]; dup {
						continue
					}
					seen[s] = struct{}{}
					out = append(out, s)
				}
			}
		}
	}
	return out
}
