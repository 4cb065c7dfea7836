package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollisionKind is the surface behaviour of a voxel.
type CollisionKind uint8

const (
	// KindAir is fully passable.
	KindAir CollisionKind = iota
	// KindSolid stops travel on every axis that would enter the voxel.
	KindSolid
	// KindTrap moves like air. It marks voxels that should eventually hold a
	// body once it is fully inside.
	KindTrap
	// KindFluid divides the displacement entering the voxel by Factor.
	KindFluid
	// KindLedge lets a body in only along the signs of Direction.
	KindLedge
)

func (k CollisionKind) String() string {
	switch k {
	case KindAir:
		return "air"
	case KindSolid:
		return "solid"
	case KindTrap:
		return "trap"
	case KindFluid:
		return "fluid"
	case KindLedge:
		return "ledge"
	default:
		return "unknown"
	}
}

// Collision describes how a voxel responds to a body entering it. The zero
// value is Air.
type Collision struct {
	Kind      CollisionKind
	Factor    float64
	Direction mgl64.Vec3
}

func Air() Collision   { return Collision{Kind: KindAir} }
func Solid() Collision { return Collision{Kind: KindSolid} }
func Trap() Collision  { return Collision{Kind: KindTrap} }

// Fluid slows movement through the voxel by factor, which must be at least 1.
func Fluid(factor float64) Collision {
	return Collision{Kind: KindFluid, Factor: factor}
}

// Ledge only lets movement through when it agrees in sign with direction.
func Ledge(direction mgl64.Vec3) Collision {
	return Collision{Kind: KindLedge, Direction: direction}
}

// Validate rejects Fluid factors below one and unknown kinds.
func (c Collision) Validate() error {
	switch c.Kind {
	case KindAir, KindSolid, KindTrap, KindLedge:
		return nil
	case KindFluid:
		if math.IsNaN(c.Factor) || c.Factor < 1 {
			return fmt.Errorf("%w: %v", ErrInvalidFluidFactor, c.Factor)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCollision, c.Kind)
	}
}

func (c Collision) String() string {
	switch c.Kind {
	case KindFluid:
		return fmt.Sprintf("fluid(%g)", c.Factor)
	case KindLedge:
		return fmt.Sprintf("ledge(%g, %g, %g)", c.Direction.X(), c.Direction.Y(), c.Direction.Z())
	default:
		return c.Kind.String()
	}
}

// Respond returns the part of requested that may enter a voxel of type c.
func Respond(c Collision, requested mgl64.Vec3) mgl64.Vec3 {
	switch c.Kind {
	case KindSolid:
		return mgl64.Vec3{}
	case KindFluid:
		factor := c.Factor
		if math.IsNaN(factor) || factor < 1 {
			factor = 1
		}
		return requested.Mul(1 / factor)
	case KindLedge:
		var out mgl64.Vec3
		for a := 0; a < 3; a++ {
			if sign(c.Direction[a]) == sign(requested[a]) {
				out[a] = requested[a]
			}
		}
		return out
	default:
		return requested
	}
}
