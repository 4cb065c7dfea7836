package level

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/voxelphys/internal/core/systems/physics"
)

func TestLoadYAMLFile(t *testing.T) {
	lvl, err := LoadFile("testdata/room.yaml")
	require.NoError(t, err)

	assert.Equal(t, "room", lvl.Name)
	assert.Equal(t, 16, lvl.Tiles.TileWidth)
	w, h, d := lvl.Tiles.Dimensions()
	assert.Equal(t, [3]int{2, 3, 1}, [3]int{w, h, d})
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, lvl.TileList())

	require.Len(t, lvl.Bodies, 2)
	player, pool := lvl.Bodies[0], lvl.Bodies[1]
	assert.Equal(t, "player", player.ID)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, player.Body.Velocity())
	assert.False(t, player.Body.Nailed())

	assert.True(t, pool.Body.Nailed())
	assert.Equal(t, mgl64.Vec3{3, 2, 1}, pool.Body.Dimensions())
	g := pool.Body.Collision()
	c, _ := g.At(0, 0, 0)
	assert.Equal(t, physics.Fluid(2), c)
	c, _ = g.At(0, 1, 0)
	assert.Equal(t, physics.Solid(), c)
	c, _ = g.At(2, 1, 0)
	assert.Equal(t, physics.Air(), c, "ragged rows are padded with air")
}

func TestLoadJSONFile(t *testing.T) {
	lvl, err := LoadFile("testdata/room.json")
	require.NoError(t, err)

	require.Len(t, lvl.Bodies, 2)
	wall := lvl.Bodies[1].Body
	assert.Equal(t, mgl64.Vec3{1, 2, 2}, wall.Dimensions())

	c, _ := wall.Collision().At(0, 0, 1)
	assert.Equal(t, physics.Solid(), c, "destructable collides as solid")
	c, _ = wall.Collision().At(0, 1, 1)
	assert.Equal(t, physics.Trap(), c)
}

func TestPopulateAndMove(t *testing.T) {
	lvl, err := LoadFile("testdata/room.yaml")
	require.NoError(t, err)

	s := physics.NewSystem()
	require.NoError(t, lvl.Populate(s))
	assert.Equal(t, []string{"player", "pool"}, s.IDs())

	applied, err := s.MoveBody("player", mgl64.Vec3{3, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, applied.X(), 1e-9)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown code",
			doc:  "bodies: [{id: a, collision: [[[9]]]}]",
			want: ErrUnknownCode,
		},
		{
			name: "empty collision",
			doc:  "bodies: [{id: a, collision: [[]]}]",
			want: ErrEmptyCollision,
		},
		{
			name: "duplicate id",
			doc:  "bodies: [{id: a, collision: [[[0]]]}, {id: a, collision: [[[1]]]}]",
			want: ErrDuplicateBody,
		},
		{
			name: "missing id",
			doc:  "bodies: [{collision: [[[0]]]}]",
			want: ErrMissingID,
		},
		{
			name: "unknown type",
			doc:  "palette: [{code: 7, type: lava}]",
			want: ErrUnknownType,
		},
		{
			name: "bad fluid factor",
			doc:  "palette: [{code: 7, type: fluid, factor: 0.5}]",
			want: physics.ErrInvalidFluidFactor,
		},
		{
			name: "palette code twice",
			doc:  "palette: [{code: 7, type: trap}, {code: 7, type: air}]",
			want: ErrDuplicatePaletteID,
		},
		{
			name: "negative tile size",
			doc:  "tile_width: -1",
			want: ErrInvalidTileSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPaletteOverridesDefault(t *testing.T) {
	lvl, err := LoadYAML(strings.NewReader(`
palette: [{code: 1, type: trap}]
bodies: [{id: a, collision: [[[1]]]}]
`))
	require.NoError(t, err)

	c, _ := lvl.Bodies[0].Body.Collision().At(0, 0, 0)
	assert.Equal(t, physics.Trap(), c)
	assert.Equal(t, physics.Solid(), DefaultPalette()[CodeSolid])
}

func TestLoadFileUnsupported(t *testing.T) {
	_, err := LoadFile("testdata/room.toml")
	assert.Error(t, err)

	_, err = LoadFile("level.go")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEmptyLevelHasSingleTile(t *testing.T) {
	lvl, err := LoadJSON(strings.NewReader(`{"name": "void"}`))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, lvl.TileList())
	assert.Empty(t, lvl.Bodies)
}

func TestShippedDemoLevel(t *testing.T) {
	lvl, err := LoadFile("../../../levels/demo.yaml")
	require.NoError(t, err)

	s := physics.NewSystem()
	require.NoError(t, lvl.Populate(s))

	// fluid, then open floor up to the ledge and on to the wall
	applied, err := s.MoveBody("player", mgl64.Vec3{10, 0, 0})
	require.NoError(t, err)
	assert.Greater(t, applied.X(), 0.0)
	assert.Less(t, applied.X(), 6.0)
}
