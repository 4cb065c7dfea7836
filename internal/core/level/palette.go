package level

import (
	"fmt"
	"maps"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/voxelphys/internal/core/systems/physics"
)

// Stock block codes.
const (
	CodeAir          = 0
	CodeSolid        = 1
	CodeDestructable = 2
	CodeTrap         = 5
)

// Palette maps the integer codes used in level files to collision types.
type Palette map[int]physics.Collision

// DefaultPalette returns the codes every level understands. Destructable
// blocks collide like solid ones.
func DefaultPalette() Palette {
	return Palette{
		CodeAir:          physics.Air(),
		CodeSolid:        physics.Solid(),
		CodeDestructable: physics.Solid(),
		CodeTrap:         physics.Trap(),
	}
}

// PaletteEntry adds or overrides one palette code.
type PaletteEntry struct {
	Code      int        `json:"code" yaml:"code"`
	Type      string     `json:"type" yaml:"type"`
	Factor    float64    `json:"factor,omitempty" yaml:"factor,omitempty"`
	Direction [3]float64 `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Collision builds the collision type the entry describes.
func (e PaletteEntry) Collision() (physics.Collision, error) {
	var c physics.Collision
	switch strings.ToLower(e.Type) {
	case "air", "":
		c = physics.Air()
	case "solid", "destructable":
		c = physics.Solid()
	case "trap":
		c = physics.Trap()
	case "fluid":
		c = physics.Fluid(e.Factor)
	case "ledge":
		c = physics.Ledge(mgl64.Vec3(e.Direction))
	default:
		return physics.Collision{}, fmt.Errorf("%w: %q (code %d)", ErrUnknownType, e.Type, e.Code)
	}
	if err := c.Validate(); err != nil {
		return physics.Collision{}, fmt.Errorf("palette code %d: %w", e.Code, err)
	}
	return c, nil
}

// Extend returns a copy of p with entries applied on top.
func (p Palette) Extend(entries []PaletteEntry) (Palette, error) {
	out := maps.Clone(p)
	if out == nil {
		out = make(Palette, len(entries))
	}

	seen := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Code]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePaletteID, e.Code)
		}
		seen[e.Code] = struct{}{}

		c, err := e.Collision()
		if err != nil {
			return nil, err
		}
		out[e.Code] = c
	}
	return out, nil
}

// Lookup resolves code, failing on codes the palette does not know.
func (p Palette) Lookup(code int) (physics.Collision, error) {
	c, ok := p[code]
	if !ok {
		return physics.Collision{}, fmt.Errorf("%w: %d", ErrUnknownCode, code)
	}
	return c, nil
}
