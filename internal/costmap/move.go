package costmap

// Move re-centres the map on position without reallocating. The world shift
// is rounded to whole cells so the lattice never drifts. Cells that scroll
// out of the map are reset to their sentinel and reported as evicted
// regions (physical indices, QuadrantUndefined) for the caller to refill.
// It reports whether the map moved by at least one cell.
func (g *Grid) Move(position Position) (bool, []BufferRegion) {
	if !g.hasGeometry() {
		return false, nil
	}
	indexShift, alignedShift := quantizeShift(position.Sub(g.position), g.resolution)

	var evicted []BufferRegion
	for axis := 0; axis < 2; axis++ {
		shift := indexShift[axis]
		if shift == 0 {
			continue
		}
		n := g.size[axis]
		nCells := shift
		if nCells < 0 {
			nCells = -nCells
		}

		if nCells >= n {
			// Entire map is dropped.
			g.ClearAll()
			evicted = append(evicted, BufferRegion{Size: g.size, Quadrant: QuadrantUndefined})
			continue
		}

		// Physical slot of the first cell that scrolls out. A positive shift
		// drops the cells at the start of the window, a negative shift those
		// at its end.
		first := g.startIndex[axis]
		if shift < 0 {
			first -= nCells
		}
		first = wrapIndex(first, n)

		if first+nCells <= n {
			evicted = append(evicted, g.evictBand(axis, first, nCells))
			continue
		}
		// The band wraps past the end of the buffer.
		head := n - first
		evicted = append(evicted, g.evictBand(axis, first, head))
		evicted = append(evicted, g.evictBand(axis, 0, nCells-head))
	}

	g.startIndex = wrapIndexToRange(g.startIndex.Add(indexShift), g.size)
	g.position = g.position.Add(alignedShift)

	moved := !indexShift.IsZero()
	if moved {
		tracef("move: frame=%s shift=%v start=%v position=%v evicted_regions=%d",
			g.frameID, indexShift, g.startIndex, g.position, len(evicted))
	}
	return moved, evicted
}

// evictBand clears count physical rows (axis 0) or columns (axis 1) starting
// at first and returns the cleared region.
func (g *Grid) evictBand(axis, first, count int) BufferRegion {
	if axis == 0 {
		g.clearRows(first, count)
		return BufferRegion{StartIndex: Index{first, 0}, Size: Size{count, g.size[1]}, Quadrant: QuadrantUndefined}
	}
	g.clearCols(first, count)
	return BufferRegion{StartIndex: Index{0, first}, Size: Size{g.size[0], count}, Quadrant: QuadrantUndefined}
}
