package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroDimensions(t *testing.T) {
	for i := 0; i < 6; i++ {
		dims := []int{2, 2, 2, 2, 2, 2}
		dims[i] = 0

		g, err := New[int](dims[0], dims[1], dims[2], dims[3], dims[4], dims[5])
		assert.Nil(t, g)
		assert.True(t, errors.Is(err, ErrDimension), "param %d", i)

		g, err = NewWithDefault(dims[0], dims[1], dims[2], dims[3], dims[4], dims[5], 7)
		assert.Nil(t, g)
		assert.ErrorIs(t, err, ErrDimension)
	}
}

func TestNewErrorNamesParameter(t *testing.T) {
	_, err := New[int](0, 2, 2, 2, 2, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile_width=0")
}

func TestSize(t *testing.T) {
	g, err := NewWithDefault(2, 2, 2, 3, 2, 1, uint8(0))
	require.NoError(t, err)

	w, h, d := g.Dimensions()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, 1, d)
	assert.Len(t, g.cells, 6)
	assert.Equal(t, 6, g.AbsoluteWidth())
	assert.Equal(t, 4, g.AbsoluteHeight())
	assert.Equal(t, 2, g.AbsoluteDepth())
}

func TestAtAndInsert(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 2, 2, 2, -1)
	require.NoError(t, err)

	g.Insert(1, 0, 1, 42)
	v, ok := g.At(1, 0, 1)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = g.At(0, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, -1, v)

	_, ok = g.At(2, 0, 0)
	assert.False(t, ok)
	_, ok = g.At(0, -1, 0)
	assert.False(t, ok)

	// out of range inserts are ignored
	g.Insert(5, 5, 5, 99)
	g.Each(func(_, _, _ int, value int) bool {
		assert.NotEqual(t, 99, value)
		return true
	})
}

func TestRef(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 2, 1, 1, 0)
	require.NoError(t, err)

	p := g.Ref(1, 0, 0)
	require.NotNil(t, p)
	*p = 5
	v, _ := g.At(1, 0, 0)
	assert.Equal(t, 5, v)

	assert.Nil(t, g.Ref(0, 1, 0))
}

func TestInRange(t *testing.T) {
	g, err := New[bool](1, 1, 1, 3, 2, 1)
	require.NoError(t, err)

	assert.True(t, g.InRange(0, 0, 0))
	assert.True(t, g.InRange(2, 1, 0))
	assert.False(t, g.InRange(3, 0, 0))
	assert.False(t, g.InRange(0, 2, 0))
	assert.False(t, g.InRange(0, 0, 1))
}

func TestFlattenSingleSlice(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 2, 2, 1, 0)
	require.NoError(t, err)

	g.Insert(0, 0, 0, 2)
	g.Insert(1, 0, 0, 4)
	g.Insert(0, 1, 0, 8)
	g.Insert(1, 1, 0, 16)

	assert.Equal(t, []int{2, 4, 8, 16}, g.Flatten())
}

func TestFlattenDepthMajor(t *testing.T) {
	g, err := NewWithDefault(2, 2, 2, 2, 2, 2, 0)
	require.NoError(t, err)

	g.Insert(0, 0, 1, 32)
	g.Insert(1, 0, 1, 64)
	g.Insert(0, 1, 1, 128)
	g.Insert(1, 1, 1, 256)
	g.Insert(0, 0, 0, 2)
	g.Insert(1, 0, 0, 4)
	g.Insert(0, 1, 0, 8)
	g.Insert(1, 1, 0, 16)

	assert.Equal(t, []int{2, 4, 8, 16, 32, 64, 128, 256}, g.Flatten())
	assert.False(t, g.InRange(0, 0, 0))
}

func TestResizeGrowAndShrink(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 2, 2, 1, 1)
	require.NoError(t, err)
	g.Insert(1, 1, 0, 9)

	require.NoError(t, g.Resize(3, 2, 2, 0))
	w, h, d := g.Dimensions()
	assert.Equal(t, []int{3, 2, 2}, []int{w, h, d})

	v, _ := g.At(1, 1, 0)
	assert.Equal(t, 9, v)
	v, _ = g.At(2, 0, 0)
	assert.Equal(t, 0, v)
	v, _ = g.At(0, 0, 1)
	assert.Equal(t, 0, v)

	require.NoError(t, g.Resize(1, 1, 1, 0))
	assert.Equal(t, []int{1}, g.Flatten())
}

func TestResizeRejectsZero(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 2, 2, 1, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Resize(0, 2, 1, 0), ErrDimension)
	w, h, d := g.Dimensions()
	assert.Equal(t, []int{2, 2, 1}, []int{w, h, d})
}

func TestEachStopsEarly(t *testing.T) {
	g, err := NewWithDefault(1, 1, 1, 4, 1, 1, 0)
	require.NoError(t, err)

	visited := 0
	g.Each(func(x, _, _ int, _ int) bool {
		visited++
		return x < 1
	})
	assert.Equal(t, 2, visited)
}
