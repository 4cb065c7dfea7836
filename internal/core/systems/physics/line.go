package physics

import "github.com/go-gl/mathgl/mgl64"

// StepFunc is called for every marching step with the point reached so far and
// the proposed step, at most one unit per axis. It returns the displacement
// actually allowed.
type StepFunc func(current, proposed mgl64.Vec3) (applied mgl64.Vec3)

// Raycast marches from toward to, asking step how far each bounded step may
// go, and returns the point reached.
//
// An axis whose proposed component is refused (applied 0) is blocked for the
// rest of the ray. An axis that is allowed through spends the whole proposed
// component of the remaining distance even when step applies less of it, so
// slowing surfaces shorten the total distance travelled. Marching stops early
// once a step applies nothing, and never takes more than ceil(max |to-from|)
// iterations.
func Raycast(from, to mgl64.Vec3, step StepFunc) mgl64.Vec3 {
	current := from
	remaining := to.Sub(from)

	for !isZero(remaining) {
		var proposed mgl64.Vec3
		for a := 0; a < 3; a++ {
			proposed[a] = boundedStep(remaining[a])
		}
		if isZero(proposed) {
			break
		}

		applied := step(current, proposed)
		if isZero(applied) {
			break
		}

		for a := 0; a < 3; a++ {
			switch {
			case proposed[a] == 0:
			case applied[a] == 0:
				remaining[a] = 0
			default:
				current[a] += applied[a]
				remaining[a] -= proposed[a]
			}
		}
	}

	return current
}
