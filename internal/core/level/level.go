// Package level loads level descriptions: a render tile map plus the bodies
// taking part in movement resolution, each with a voxel collision map written
// as palette codes.
package level

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/voxelphys/internal/core/grid"
	"github.com/zeusync/voxelphys/internal/core/systems/physics"
)

// Document is the on-disk form of a level, shared by JSON and YAML.
type Document struct {
	Name       string         `json:"name" yaml:"name"`
	TileWidth  int            `json:"tile_width" yaml:"tile_width"`
	TileHeight int            `json:"tile_height" yaml:"tile_height"`
	Palette    []PaletteEntry `json:"palette,omitempty" yaml:"palette,omitempty"`
	Tiles      [][]int        `json:"tiles,omitempty" yaml:"tiles,omitempty"`
	Bodies     []BodyDocument `json:"bodies" yaml:"bodies"`
}

// BodyDocument describes one body. Collision is indexed [z][y][x].
type BodyDocument struct {
	ID        string     `json:"id" yaml:"id"`
	Position  [3]float64 `json:"position" yaml:"position"`
	Rotation  [3]float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Velocity  [3]float64 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Nailed    bool       `json:"nailed,omitempty" yaml:"nailed,omitempty"`
	Collision [][][]int  `json:"collision" yaml:"collision"`
}

// Body is a loaded body ready to be registered.
type Body struct {
	ID   string
	Body *physics.DynamicBody
}

// Level is a validated, built Document.
type Level struct {
	Name    string
	Tiles   *grid.Grid[int]
	Bodies  []Body
	Palette Palette
}

// LoadJSON decodes and builds a level from JSON.
func LoadJSON(r io.Reader) (*Level, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode level json: %w", err)
	}
	return doc.Build()
}

// LoadYAML decodes and builds a level from YAML.
func LoadYAML(r io.Reader) (*Level, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode level yaml: %w", err)
	}
	return doc.Build()
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(bytes.NewReader(data))
	case ".yaml", ".yml":
		return LoadYAML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Build resolves palette codes and constructs the grids.
func (d *Document) Build() (*Level, error) {
	if d.TileWidth < 0 || d.TileHeight < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTileSize, d.TileWidth, d.TileHeight)
	}

	palette, err := DefaultPalette().Extend(d.Palette)
	if err != nil {
		return nil, err
	}

	tiles, err := buildTiles(max(d.TileWidth, 1), max(d.TileHeight, 1), d.Tiles)
	if err != nil {
		return nil, err
	}

	lvl := &Level{
		Name:    d.Name,
		Tiles:   tiles,
		Palette: palette,
		Bodies:  make([]Body, 0, len(d.Bodies)),
	}

	seen := make(map[string]struct{}, len(d.Bodies))
	for i, bd := range d.Bodies {
		if bd.ID == "" {
			return nil, fmt.Errorf("%w: body #%d", ErrMissingID, i)
		}
		if _, dup := seen[bd.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBody, bd.ID)
		}
		seen[bd.ID] = struct{}{}

		collision, err := buildCollision(palette, bd.Collision)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", bd.ID, err)
		}

		body := physics.NewDynamicBody(mgl64.Vec3(bd.Position), collision, bd.Nailed)
		body.SetRotation(mgl64.Vec3(bd.Rotation))
		body.SetVelocity(mgl64.Vec3(bd.Velocity))
		lvl.Bodies = append(lvl.Bodies, Body{ID: bd.ID, Body: body})
	}

	return lvl, nil
}

// buildTiles grows the grid row by row so ragged rows end up padded with 0.
func buildTiles(tileWidth, tileHeight int, rows [][]int) (*grid.Grid[int], error) {
	g, err := grid.New[int](tileWidth, tileHeight, 1, 1, 1, 1)
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		w, h, _ := g.Dimensions()
		if err = g.Resize(max(w, len(row)), max(h, y+1), 1, 0); err != nil {
			return nil, err
		}
		for x, code := range row {
			g.Insert(x, y, 0, code)
		}
	}
	return g, nil
}

func buildCollision(palette Palette, layers [][][]int) (*grid.Grid[physics.Collision], error) {
	var width, height int
	for _, layer := range layers {
		height = max(height, len(layer))
		for _, row := range layer {
			width = max(width, len(row))
		}
	}
	if width == 0 || height == 0 {
		return nil, ErrEmptyCollision
	}

	g, err := physics.NewUniformGrid(width, height, len(layers), physics.Air())
	if err != nil {
		return nil, err
	}

	for z, layer := range layers {
		for y, row := range layer {
			for x, code := range row {
				c, err := palette.Lookup(code)
				if err != nil {
					return nil, fmt.Errorf("cell (%d, %d, %d): %w", x, y, z, err)
				}
				g.Insert(x, y, z, c)
			}
		}
	}
	return g, nil
}

// Populate registers every body of the level in s.
func (l *Level) Populate(s *physics.System) error {
	for _, b := range l.Bodies {
		if _, err := s.Insert(b.ID, b.Body); err != nil {
			return err
		}
	}
	return nil
}

// TileList returns the tile codes of the first layer in row-major order,
// indexed y*width+x.
func (l *Level) TileList() []int {
	w, h, _ := l.Tiles.Dimensions()
	out := make([]int, w*h)
	l.Tiles.Each(func(x, y, z int, code int) bool {
		if z == 0 {
			out[y*w+x] = code
		}
		return true
	})
	return out
}
