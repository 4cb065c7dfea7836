// Package grid provides a dense three dimensional container addressed by
// integer (x, y, z) coordinates. It backs both per-body collision maps and
// render tile maps.
package grid

import (
	"errors"
	"fmt"
)

// ErrDimension is returned when a grid would be built or resized with a size
// parameter below one.
var ErrDimension = errors.New("grid dimension must be at least 1")

// Grid is a W×H×D array of cells, each TileWidth×TileHeight×TileDepth units
// large. Cells are stored depth-major, then row-major.
type Grid[T any] struct {
	TileWidth  int
	TileHeight int
	TileDepth  int

	Width  int
	Height int
	Depth  int

	cells []T
}

// New creates a grid whose cells hold the zero value of T. Callers that need
// meaningful content should use NewWithDefault.
func New[T any](tileWidth, tileHeight, tileDepth, width, height, depth int) (*Grid[T], error) {
	if err := checkDimensions(
		dim{"tile_width", tileWidth}, dim{"tile_height", tileHeight}, dim{"tile_depth", tileDepth},
		dim{"width", width}, dim{"height", height}, dim{"depth", depth},
	); err != nil {
		return nil, err
	}

	return &Grid[T]{
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		TileDepth:  tileDepth,
		Width:      width,
		Height:     height,
		Depth:      depth,
		cells:      make([]T, width*height*depth),
	}, nil
}

// NewWithDefault creates a grid with every cell set to def.
func NewWithDefault[T any](tileWidth, tileHeight, tileDepth, width, height, depth int, def T) (*Grid[T], error) {
	g, err := New[T](tileWidth, tileHeight, tileDepth, width, height, depth)
	if err != nil {
		return nil, err
	}
	g.Clear(def)
	return g, nil
}

type dim struct {
	name  string
	value int
}

func checkDimensions(dims ...dim) error {
	for _, d := range dims {
		if d.value < 1 {
			return fmt.Errorf("%w: %s=%d", ErrDimension, d.name, d.value)
		}
	}
	return nil
}

// InRange reports whether (x, y, z) addresses a cell of the grid.
func (g *Grid[T]) InRange(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < g.Width && y < g.Height && z < g.Depth
}

func (g *Grid[T]) index(x, y, z int) int {
	return (z*g.Height+y)*g.Width + x
}

// At returns the cell at (x, y, z) and false when the coordinates are out of range.
func (g *Grid[T]) At(x, y, z int) (T, bool) {
	if !g.InRange(x, y, z) {
		var zero T
		return zero, false
	}
	return g.cells[g.index(x, y, z)], true
}

// Ref returns a pointer to the cell at (x, y, z), or nil when out of range.
func (g *Grid[T]) Ref(x, y, z int) *T {
	if !g.InRange(x, y, z) {
		return nil
	}
	return &g.cells[g.index(x, y, z)]
}

// Insert replaces the cell at (x, y, z). Out of range coordinates are ignored;
// use InRange first when that needs to be detected.
func (g *Grid[T]) Insert(x, y, z int, value T) {
	if g.InRange(x, y, z) {
		g.cells[g.index(x, y, z)] = value
	}
}

// Clear sets every cell to value.
func (g *Grid[T]) Clear(value T) {
	for i := range g.cells {
		g.cells[i] = value
	}
}

// Flatten hands the cells over as a linear slice ordered by depth, then rows
// top to bottom, then columns left to right, so cell (x, y, z) lands at
// z*Width*Height + y*Width + x. The grid is emptied and must not be reused.
func (g *Grid[T]) Flatten() []T {
	out := g.cells
	g.cells = nil
	g.Width, g.Height, g.Depth = 0, 0, 0
	return out
}

// Resize changes the cell counts. Cells keep their coordinates, new cells are
// set to fill and cells outside the new bounds are discarded.
func (g *Grid[T]) Resize(width, height, depth int, fill T) error {
	if err := checkDimensions(dim{"width", width}, dim{"height", height}, dim{"depth", depth}); err != nil {
		return err
	}

	cells := make([]T, width*height*depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				i := (z*height+y)*width + x
				if v, ok := g.At(x, y, z); ok {
					cells[i] = v
				} else {
					cells[i] = fill
				}
			}
		}
	}

	g.Width, g.Height, g.Depth = width, height, depth
	g.cells = cells
	return nil
}

// Each visits every cell in flatten order until fn returns false.
func (g *Grid[T]) Each(fn func(x, y, z int, value T) bool) {
	for z := 0; z < g.Depth; z++ {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				if !fn(x, y, z, g.cells[g.index(x, y, z)]) {
					return
				}
			}
		}
	}
}

// Dimensions returns the cell counts.
func (g *Grid[T]) Dimensions() (width, height, depth int) {
	return g.Width, g.Height, g.Depth
}

// AbsoluteWidth is the width of the grid in world units.
func (g *Grid[T]) AbsoluteWidth() int { return g.TileWidth * g.Width }

// AbsoluteHeight is the height of the grid in world units.
func (g *Grid[T]) AbsoluteHeight() int { return g.TileHeight * g.Height }

// AbsoluteDepth is the depth of the grid in world units.
func (g *Grid[T]) AbsoluteDepth() int { return g.TileDepth * g.Depth }
