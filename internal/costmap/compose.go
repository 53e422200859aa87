package costmap

import (
	"fmt"
	"math"
)

// ExtendToInclude grows the map so that it also covers other's rectangle.
// The grown map stays on the original cell lattice: every old cell centre is
// a cell centre of the new map, and every old cell keeps its value at its
// world position. The map never shrinks. It reports whether the map was
// resized.
func (g *Grid) ExtendToInclude(other *Grid) bool {
	if other == nil || !other.hasGeometry() {
		return false
	}
	if !g.hasGeometry() {
		g.SetGeometry(other.length, other.resolution, other.position)
		return true
	}

	self := mapRect(g.position, g.length)
	union := self.Union(mapRect(other.position, other.length))
	eps := snapTolerance * g.resolution
	if union.X.Lo >= self.X.Lo-eps && union.X.Hi <= self.X.Hi+eps &&
		union.Y.Lo >= self.Y.Lo-eps && union.Y.Hi <= self.Y.Hi+eps {
		return false
	}

	lo := [2]float64{union.X.Lo, union.Y.Lo}
	hi := [2]float64{union.X.Hi, union.Y.Hi}
	oldCenter := [2]float64{g.position.X, g.position.Y}
	var size Size
	var center [2]float64
	for i := 0; i < 2; i++ {
		size[i], center[i] = alignedExtent(lo[i], hi[i], oldCenter[i], g.size[i], g.resolution)
	}

	old := g.Clone()
	g.SetGeometry(
		Length{X: float64(size[0]) * g.resolution, Y: float64(size[1]) * g.resolution},
		g.resolution,
		Position{X: center[0], Y: center[1]},
	)

	for it := NewIterator(old); it.Next(); {
		src := it.Index()
		pos, ok := positionFromIndex(src, old.length, old.position, old.resolution, old.size, old.startIndex)
		if !ok {
			continue
		}
		dst, ok := indexFromPosition(pos, g.length, g.position, g.resolution, g.size, g.startIndex)
		if !ok {
			continue
		}
		for name, l := range old.layers {
			g.layers[name].data.Set(dst[0], dst[1], l.data.At(src[0], src[1]))
		}
	}

	diagf("extendToInclude: frame=%s size %s -> %s position %v -> %v",
		g.frameID, old.size, g.size, old.position, g.position)
	return true
}

// alignedExtent picks the cell count and centre of one grown axis covering
// [lo, hi]. The centre is snapped back onto the lattice of a map centred at
// oldCenter with oldCells cells by removing the sub-cell remainder of the
// naive shift, which moves it by at most half a cell. When the cell count
// parity changes the lattice target carries a half-cell offset, since an
// odd/even change moves cell centres by half a cell relative to the centre.
func alignedExtent(lo, hi, oldCenter float64, oldCells int, resolution float64) (int, float64) {
	cells := int(math.Ceil((hi-lo)/resolution - snapTolerance))
	if cells < oldCells {
		cells = oldCells
	}
	eps := snapTolerance * resolution
	for {
		var parityOffset float64
		if (cells-oldCells)%2 != 0 {
			parityOffset = 0.5 * resolution
		}
		center := 0.5 * (lo + hi)
		center -= math.Remainder(center-oldCenter-parityOffset, resolution)
		half := 0.5 * float64(cells) * resolution
		if center-half <= lo+eps && center+half >= hi-eps {
			return cells, center
		}
		// Snapping left a sliver uncovered; one more cell flips the parity
		// correction toward the uncovered side.
		cells++
	}
}

// AddDataFrom copies cells of other into g. With extend set, g first grows
// to include other. Every selected layer (all of other's layers when none
// are given) is created in g when missing. A cell of g is written when it is
// invalid or overwrite is set, its centre lies inside other, and other holds
// information for that layer there. Cells outside other are left untouched.
//
// It returns false without modifying g when a selected layer is missing from
// other, and false when there is nothing to merge into.
func (g *Grid) AddDataFrom(other *Grid, extend, overwrite bool, layers ...string) (bool, error) {
	if other == nil || !other.hasGeometry() {
		opsf("addDataFrom: source map has no geometry")
		return false, nil
	}
	if len(layers) == 0 {
		layers = other.Layers()
	}
	for _, name := range layers {
		if !other.Exists(name) {
			opsf("addDataFrom: source map lacks layer %q", name)
			return false, fmt.Errorf("add data: %w: %q", ErrLayerNotFound, name)
		}
	}

	if extend {
		g.ExtendToInclude(other)
	}
	if !g.hasGeometry() {
		return false, nil
	}
	for _, name := range layers {
		if !g.Exists(name) {
			g.addEmpty(name, other.layers[name].sentinel)
		}
	}

	copied := 0
	for it := NewIterator(g); it.Next(); {
		idx := it.Index()
		if !overwrite && g.IsValid(idx) {
			continue
		}
		pos, ok := positionFromIndex(idx, g.length, g.position, g.resolution, g.size, g.startIndex)
		if !ok {
			continue
		}
		src, ok := indexFromPosition(pos, other.length, other.position, other.resolution, other.size, other.startIndex)
		if !ok {
			continue
		}
		for _, name := range layers {
			ol := other.layers[name]
			v := ol.data.At(src[0], src[1])
			if ol.isSentinel(v) {
				continue
			}
			g.layers[name].data.Set(idx[0], idx[1], v)
			copied++
		}
	}
	diagf("addDataFrom: frame=%s layers=%v overwrite=%t copied_values=%d", g.frameID, layers, overwrite, copied)
	return true, nil
}
