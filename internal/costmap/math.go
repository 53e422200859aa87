package costmap

import (
	"math"

	"github.com/golang/geo/r2"
)

// Index algebra shared by every component. Nothing outside this file
// translates between logical and physical indices.

// wrapIndex reduces any integer, including negatives, into [0, n).
func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func wrapIndexToRange(idx Index, size Size) Index {
	return Index{wrapIndex(idx[0], size[0]), wrapIndex(idx[1], size[1])}
}

func checkIndexInRange(idx Index, size Size) bool {
	return idx[0] >= 0 && idx[1] >= 0 && idx[0] < size[0] && idx[1] < size[1]
}

// bufferIndexFromIndex maps a logical (unrotated) index to its storage slot.
func bufferIndexFromIndex(idx Index, size Size, start Index) Index {
	return wrapIndexToRange(idx.Add(start), size)
}

// indexFromBufferIndex maps a storage slot back to its logical index.
func indexFromBufferIndex(buf Index, size Size, start Index) Index {
	return wrapIndexToRange(buf.Sub(start), size)
}

// vectorToOrigin is the offset from the map centre to the (+x, +y) corner.
func vectorToOrigin(length Length) r2.Point {
	return length.Mul(0.5)
}

// vectorToFirstCell is the offset from the map centre to the centre of logical cell (0, 0).
func vectorToFirstCell(length Length, resolution float64) r2.Point {
	return length.Mul(0.5).Sub(r2.Point{X: 0.5 * resolution, Y: 0.5 * resolution})
}

// positionWithinMap reports whether pos lies inside the map rectangle. The
// (+x, +y) edges are inclusive and the (-x, -y) edges exclusive so that every
// inside position maps to exactly one cell.
func positionWithinMap(pos Position, length Length, mapPos Position) bool {
	t := mapPos.Add(vectorToOrigin(length)).Sub(pos)
	return t.X >= 0 && t.Y >= 0 && t.X < length.X && t.Y < length.Y
}

// logicalIndexFromPosition returns the unrotated index of the cell containing pos.
func logicalIndexFromPosition(pos Position, length Length, mapPos Position, resolution float64, size Size) (Index, bool) {
	if !positionWithinMap(pos, length, mapPos) {
		return Index{}, false
	}
	v := mapPos.Add(vectorToOrigin(length)).Sub(pos).Mul(1 / resolution)
	idx := Index{int(math.Floor(v.X)), int(math.Floor(v.Y))}
	for i := range idx {
		if idx[i] >= size[i] {
			idx[i] = size[i] - 1
		}
		if idx[i] < 0 {
			idx[i] = 0
		}
	}
	return idx, true
}

// indexFromPosition returns the physical index of the cell containing pos.
func indexFromPosition(pos Position, length Length, mapPos Position, resolution float64, size Size, start Index) (Index, bool) {
	idx, ok := logicalIndexFromPosition(pos, length, mapPos, resolution, size)
	if !ok {
		return Index{}, false
	}
	return bufferIndexFromIndex(idx, size, start), true
}

// positionFromLogicalIndex returns the centre of an unrotated cell.
func positionFromLogicalIndex(idx Index, length Length, mapPos Position, resolution float64, size Size) (Position, bool) {
	if !checkIndexInRange(idx, size) {
		return Position{}, false
	}
	offset := r2.Point{X: float64(idx[0]) * resolution, Y: float64(idx[1]) * resolution}
	return mapPos.Add(vectorToFirstCell(length, resolution)).Sub(offset), true
}

// positionFromIndex returns the centre of the cell stored at physical index buf.
func positionFromIndex(buf Index, length Length, mapPos Position, resolution float64, size Size, start Index) (Position, bool) {
	if !checkIndexInRange(buf, size) {
		return Position{}, false
	}
	return positionFromLogicalIndex(indexFromBufferIndex(buf, size, start), length, mapPos, resolution, size)
}

// quantizeShift rounds a world displacement to whole cells. The index shift
// is expressed in buffer order (opposite sign to the world axes); the aligned
// shift is the world displacement the index shift actually represents.
func quantizeShift(shift Position, resolution float64) (Index, Position) {
	cells := [2]float64{shift.X / resolution, shift.Y / resolution}
	var indexShift Index
	for i, c := range cells {
		indexShift[i] = -int(math.Round(c))
	}
	aligned := Position{
		X: -float64(indexShift[0]) * resolution,
		Y: -float64(indexShift[1]) * resolution,
	}
	return indexShift, aligned
}

// mapRect is the axis-aligned bounding rectangle of a map.
func mapRect(mapPos Position, length Length) r2.Rect {
	return r2.RectFromCenterSize(mapPos, length)
}
