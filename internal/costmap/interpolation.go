package costmap

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AtPosition returns the layer value at a world position. Linear
// interpolation that cannot find all four neighbours inside the map falls
// back to the nearest cell.
func (g *Grid) AtPosition(name string, pos Position, method Interpolation) (float32, error) {
	switch method {
	case InterpolationLinear:
		if v, ok := g.atPositionLinear(name, pos); ok {
			return v, nil
		}
		return g.atPositionNearest(name, pos)
	case InterpolationNearest:
		return g.atPositionNearest(name, pos)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedInterpolation, method)
	}
}

// SetAtPosition writes the cell containing a world position.
func (g *Grid) SetAtPosition(name string, pos Position, v float32) error {
	l, err := g.layer(name)
	if err != nil {
		return err
	}
	idx, err := g.PositionToIndex(pos)
	if err != nil {
		return fmt.Errorf("set at position: %w", err)
	}
	l.data.Set(idx[0], idx[1], v)
	return nil
}

func (g *Grid) atPositionNearest(name string, pos Position) (float32, error) {
	l, err := g.layer(name)
	if err != nil {
		return 0, err
	}
	idx, err := g.PositionToIndex(pos)
	if err != nil {
		return 0, fmt.Errorf("at position: %w", err)
	}
	return l.data.At(idx[0], idx[1]), nil
}

// atPositionLinear fits f(x, y) = a + bx + cy + dxy through the enclosing
// cell and the three neighbours on the side of the query point, then
// evaluates it at the query. Coordinates are taken relative to the enclosing
// cell centre to keep the system well conditioned. Neighbours are stepped on
// logical indices so the buffer rotation never hides an in-map neighbour.
func (g *Grid) atPositionLinear(name string, pos Position) (float32, bool) {
	l, ok := g.layers[name]
	if !ok || !g.hasGeometry() {
		return 0, false
	}
	center, ok := logicalIndexFromPosition(pos, g.length, g.position, g.resolution, g.size)
	if !ok {
		return 0, false
	}
	p0, _ := positionFromLogicalIndex(center, g.length, g.position, g.resolution, g.size)

	// Axis 0 grows toward -x, so the neighbour on the +x side is index - 1.
	rowStep, colStep := 1, 1
	if pos.X >= p0.X {
		rowStep = -1
	}
	if pos.Y >= p0.Y {
		colStep = -1
	}
	neighbours := [4]Index{
		center,
		center.Add(Index{rowStep, 0}),
		center.Add(Index{0, colStep}),
		center.Add(Index{rowStep, colStep}),
	}

	a := mat.NewDense(4, 4, nil)
	b := mat.NewVecDense(4, nil)
	for i, idx := range neighbours {
		p, ok := positionFromLogicalIndex(idx, g.length, g.position, g.resolution, g.size)
		if !ok {
			return 0, false
		}
		dx, dy := p.X-p0.X, p.Y-p0.Y
		a.SetRow(i, []float64{1, dx, dy, dx * dy})
		buf := bufferIndexFromIndex(idx, g.size, g.startIndex)
		b.SetVec(i, float64(l.data.At(buf[0], buf[1])))
	}

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, b); err != nil {
		return 0, false
	}

	dx, dy := pos.X-p0.X, pos.Y-p0.Y
	v := coef.AtVec(0) + coef.AtVec(1)*dx + coef.AtVec(2)*dy + coef.AtVec(3)*dx*dy
	return float32(v), true
}
