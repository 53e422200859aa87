package costmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/costmap/internal/testutil"
)

func bilinear(p Position) float64 {
	return 1 + 2*p.X - 0.5*p.Y + 0.25*p.X*p.Y
}

func bilinearGrid(t *testing.T, start Index) *Grid {
	t.Helper()
	g := newTestGrid(t, 0)
	g.SetStartIndex(start)
	for it := NewIterator(g); it.Next(); {
		p, err := g.IndexToPosition(it.Index())
		require.NoError(t, err)
		require.NoError(t, g.Set("l", it.Index(), float32(bilinear(p))))
	}
	return g
}

func TestAtPositionLinearReproducesBilinearField(t *testing.T) {
	t.Parallel()

	queries := []Position{
		{X: 0.2, Y: -1.7},
		{X: 2.9, Y: 3.1},
		{X: -4.4, Y: 4.4},
		{X: -0.5, Y: 0.5},
		{X: 1.01, Y: -3.99},
	}
	for _, start := range []Index{{0, 0}, {3, 6}, {9, 1}} {
		g := bilinearGrid(t, start)
		for _, q := range queries {
			v, err := g.AtPosition("l", q, InterpolationLinear)
			require.NoError(t, err)
			testutil.AssertFloatNear(t, float64(v), bilinear(q), 1e-4)
		}
	}
}

func TestAtPositionLinearFallsBackToNearest(t *testing.T) {
	t.Parallel()

	g := bilinearGrid(t, Index{4, 4})

	// Near the +x/+y corner the neighbours on the query side are outside.
	v, err := g.AtPosition("l", Position{X: 4.9, Y: 4.9}, InterpolationLinear)
	require.NoError(t, err)
	testutil.AssertFloatNear(t, float64(v), bilinear(Position{X: 4.5, Y: 4.5}), 1e-5)

	v, err = g.AtPosition("l", Position{X: -4.8, Y: 0.7}, InterpolationLinear)
	require.NoError(t, err)
	testutil.AssertFloatNear(t, float64(v), bilinear(Position{X: -4.5, Y: 0.5}), 1e-5)
}

func TestAtPositionLinearBlendsSentinelCells(t *testing.T) {
	t.Parallel()

	// Only off-map neighbours trigger the fallback; a sentinel is sampled
	// like any other value.
	g := newTestGrid(t, 0)
	require.NoError(t, g.SetAtPosition("l", Position{X: 0.5, Y: 0.5}, NoInformation))

	v, err := g.AtPosition("l", Position{X: 0.25, Y: 0.25}, InterpolationLinear)
	require.NoError(t, err)
	testutil.AssertFloatNear(t, float64(v), 0.75*0.75*float64(NoInformation), 1e-3)
}

func TestAtPositionNearest(t *testing.T) {
	t.Parallel()

	g := bilinearGrid(t, Index{2, 7})
	v, err := g.AtPosition("l", Position{X: 0.9, Y: -2.1}, InterpolationNearest)
	require.NoError(t, err)
	testutil.AssertFloatNear(t, float64(v), bilinear(Position{X: 0.5, Y: -2.5}), 1e-5)
}

func TestAtPositionErrors(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 1)

	_, err := g.AtPosition("l", Position{X: 7, Y: 0}, InterpolationNearest)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = g.AtPosition("l", Position{X: 7, Y: 0}, InterpolationLinear)
	assert.True(t, errors.Is(err, ErrOutOfRange), "fallback surfaces the range failure")

	_, err = g.AtPosition("l", Position{}, InterpolationCubic)
	assert.True(t, errors.Is(err, ErrUnsupportedInterpolation))

	_, err = g.AtPosition("missing", Position{}, InterpolationLinear)
	assert.True(t, errors.Is(err, ErrLayerNotFound))

	err = g.SetAtPosition("l", Position{X: 0, Y: -6}, 3)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	err = g.SetAtPosition("missing", Position{}, 3)
	assert.True(t, errors.Is(err, ErrLayerNotFound))
}

func TestInterpolationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nearest", InterpolationNearest.String())
	assert.Equal(t, "linear", InterpolationLinear.String())
	assert.Equal(t, "cubic", InterpolationCubic.String())
	assert.Equal(t, "interpolation(9)", Interpolation(9).String())
}
