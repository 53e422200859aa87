package costmap

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// snapTolerance absorbs floating point noise (in cells) when a window edge
// sits on a cell boundary.
const snapTolerance = 1e-6

// SubmapGeometry is the clipped and lattice-snapped geometry of a sub-window.
// StartIndex is the physical index, in the source buffer, of the window's
// (+x, +y) cell.
type SubmapGeometry struct {
	Position   Position
	Length     Length
	Resolution float64
	Size       Size
	StartIndex Index
}

type segment struct {
	start, n int
	wrapped  bool
}

// axisSegments splits a window of n cells starting at physical slot p into
// the contiguous runs it occupies in a circular axis of N slots.
func axisSegments(p, n, N int) []segment {
	if p+n <= N {
		return []segment{{start: p, n: n}}
	}
	first := N - p
	return []segment{{start: p, n: first}, {start: 0, n: n - first, wrapped: true}}
}

func quadrantOf(rowWrapped, colWrapped bool) Quadrant {
	switch {
	case !rowWrapped && !colWrapped:
		return QuadrantTopLeft
	case !rowWrapped && colWrapped:
		return QuadrantTopRight
	case rowWrapped && !colWrapped:
		return QuadrantBottomLeft
	default:
		return QuadrantBottomRight
	}
}

// ResolveRegions decomposes a window of size cells, whose (+x, +y) cell is
// stored at physical index start, into at most four physical rectangles.
// Each region carries the quadrant of the un-rotated window it fills; placing
// every region at its DestinationIndex reconstructs the window exactly once.
// It fails with ErrOutOfRange when the window does not fit inside the buffer.
func ResolveRegions(start Index, size Size, bufferSize Size, bufferStart Index) ([]BufferRegion, error) {
	if !checkIndexInRange(start, bufferSize) {
		return nil, fmt.Errorf("%w: submap start %v outside buffer %v", ErrOutOfRange, start, bufferSize)
	}
	logical := indexFromBufferIndex(start, bufferSize, bufferStart)
	for i := 0; i < 2; i++ {
		if size[i] <= 0 || logical[i]+size[i] > bufferSize[i] {
			return nil, fmt.Errorf("%w: cannot access submap of size %v at %v in buffer %v",
				ErrOutOfRange, size, logical, bufferSize)
		}
	}

	rows := axisSegments(start[0], size[0], bufferSize[0])
	cols := axisSegments(start[1], size[1], bufferSize[1])
	regions := make([]BufferRegion, 0, len(rows)*len(cols))
	for _, r := range rows {
		for _, c := range cols {
			regions = append(regions, BufferRegion{
				StartIndex: Index{r.start, c.start},
				Size:       Size{r.n, c.n},
				Quadrant:   quadrantOf(r.wrapped, c.wrapped),
			})
		}
	}
	return regions, nil
}

// SubmapGeometry clips the requested window against the map and snaps it to
// whole cells. It reports false when the window does not overlap the map or
// the overlap has no area.
func (g *Grid) SubmapGeometry(pos Position, length Length) (SubmapGeometry, bool) {
	if !g.hasGeometry() || length.X <= 0 || length.Y <= 0 {
		return SubmapGeometry{}, false
	}
	clip := mapRect(g.position, g.length).Intersection(r2.RectFromCenterSize(pos, length))
	if clip.IsEmpty() || clip.X.Length() <= 0 || clip.Y.Length() <= 0 {
		return SubmapGeometry{}, false
	}

	corner := g.position.Add(vectorToOrigin(g.length))
	cornerAxes := [2]float64{corner.X, corner.Y}
	hi := [2]float64{clip.X.Hi, clip.Y.Hi}
	lo := [2]float64{clip.X.Lo, clip.Y.Lo}

	var first Index
	var size Size
	for i := 0; i < 2; i++ {
		f := int(math.Floor((cornerAxes[i]-hi[i])/g.resolution + snapTolerance))
		l := int(math.Ceil((cornerAxes[i]-lo[i])/g.resolution-snapTolerance)) - 1
		if f < 0 {
			f = 0
		}
		if l > g.size[i]-1 {
			l = g.size[i] - 1
		}
		if l < f {
			l = f
		}
		first[i] = f
		size[i] = l - f + 1
	}

	subLength := Length{X: float64(size[0]) * g.resolution, Y: float64(size[1]) * g.resolution}
	topLeft := corner.Sub(r2.Point{X: float64(first[0]) * g.resolution, Y: float64(first[1]) * g.resolution})
	return SubmapGeometry{
		Position:   topLeft.Sub(vectorToOrigin(subLength)),
		Length:     subLength,
		Resolution: g.resolution,
		Size:       size,
		StartIndex: bufferIndexFromIndex(first, g.size, g.startIndex),
	}, true
}
