package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/voxelphys/internal/core/grid"
)

// Dynamic is anything with a transform.
type Dynamic interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)

	Rotation() mgl64.Vec3
	SetRotation(mgl64.Vec3)

	Dimensions() mgl64.Vec3
	SetDimensions(mgl64.Vec3)
}

// Body is a Dynamic taking part in movement resolution. Its collision grid
// covers the region [Position, Position+Dimensions).
type Body interface {
	Dynamic

	Collision() *grid.Grid[Collision]

	// Nailed bodies ignore every movement request.
	Nailed() bool
}

// Translate moves d by v.
func Translate(d Dynamic, v mgl64.Vec3) {
	d.SetPosition(d.Position().Add(v))
}

// Rotate adds v to the rotation of d.
func Rotate(d Dynamic, v mgl64.Vec3) {
	d.SetRotation(d.Rotation().Add(v))
}

// Scale adds v to the dimensions of d.
func Scale(d Dynamic, v mgl64.Vec3) {
	d.SetDimensions(d.Dimensions().Add(v))
}

// Bounds returns the region occupied by b.
func Bounds(b Dynamic) AABB {
	return AABB{Min: b.Position(), Max: b.Position().Add(b.Dimensions())}
}

var _ Body = (*DynamicBody)(nil)

// DynamicBody is the stock Body implementation used by level files and the
// scene loop.
type DynamicBody struct {
	position   mgl64.Vec3
	rotation   mgl64.Vec3
	dimensions mgl64.Vec3
	velocity   mgl64.Vec3

	collision *grid.Grid[Collision]
	nailed    bool
}

// NewDynamicBody places a body at position. Its dimensions are the absolute
// size of the collision grid, or zero when collision is nil.
func NewDynamicBody(position mgl64.Vec3, collision *grid.Grid[Collision], nailed bool) *DynamicBody {
	b := &DynamicBody{
		position:  position,
		collision: collision,
		nailed:    nailed,
	}
	if collision != nil {
		b.dimensions = mgl64.Vec3{
			float64(collision.AbsoluteWidth()),
			float64(collision.AbsoluteHeight()),
			float64(collision.AbsoluteDepth()),
		}
	}
	return b
}

// NewUniformGrid builds a w×h×d grid of unit voxels all set to c.
func NewUniformGrid(w, h, d int, c Collision) (*grid.Grid[Collision], error) {
	return grid.NewWithDefault(1, 1, 1, w, h, d, c)
}

func (b *DynamicBody) Position() mgl64.Vec3     { return b.position }
func (b *DynamicBody) SetPosition(p mgl64.Vec3) { b.position = p }

func (b *DynamicBody) Rotation() mgl64.Vec3     { return b.rotation }
func (b *DynamicBody) SetRotation(r mgl64.Vec3) { b.rotation = r }

func (b *DynamicBody) Dimensions() mgl64.Vec3     { return b.dimensions }
func (b *DynamicBody) SetDimensions(d mgl64.Vec3) { b.dimensions = d }

func (b *DynamicBody) Velocity() mgl64.Vec3     { return b.velocity }
func (b *DynamicBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }

func (b *DynamicBody) Collision() *grid.Grid[Collision] { return b.collision }

func (b *DynamicBody) Nailed() bool          { return b.nailed }
func (b *DynamicBody) SetNailed(nailed bool) { b.nailed = nailed }
