package costmap

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// FrameID is a human-readable coordinate frame identifier like "odom" or "site/main-st-001".
type FrameID string

// Cost values used by navigation layers. NoInformation is the default sentinel
// for every layer.
const (
	FreeSpace                 float32 = 0
	InscribedInflatedObstacle float32 = 253
	LethalObstacle            float32 = 254
	NoInformation             float32 = 255
)

// Position is a world-frame coordinate pair in metres.
type Position = r2.Point

// Length is the metric extent of the map along x and y.
type Length = r2.Point

// Index addresses a cell as (row, col). Indices returned by the Grid are
// physical buffer indices unless a function states otherwise.
type Index [2]int

// Add returns the element-wise sum of two indices.
func (i Index) Add(o Index) Index { return Index{i[0] + o[0], i[1] + o[1]} }

// Sub returns the element-wise difference of two indices.
func (i Index) Sub(o Index) Index { return Index{i[0] - o[0], i[1] - o[1]} }

// IsZero reports whether both components are zero.
func (i Index) IsZero() bool { return i[0] == 0 && i[1] == 0 }

func (i Index) String() string { return fmt.Sprintf("(%d, %d)", i[0], i[1]) }

// Size is the number of cells per axis: Size[0] rows along x, Size[1] cols along y.
type Size [2]int

// Cells returns the total number of cells.
func (s Size) Cells() int { return s[0] * s[1] }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s[0], s[1]) }

// Quadrant tags where a BufferRegion lands in an un-rotated destination window.
type Quadrant int

const (
	QuadrantUndefined Quadrant = iota
	QuadrantTopLeft
	QuadrantTopRight
	QuadrantBottomLeft
	QuadrantBottomRight
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantTopLeft:
		return "top_left"
	case QuadrantTopRight:
		return "top_right"
	case QuadrantBottomLeft:
		return "bottom_left"
	case QuadrantBottomRight:
		return "bottom_right"
	default:
		return "undefined"
	}
}

// BufferRegion is a rectangle of physical cells plus the quadrant it occupies
// in a destination window.
type BufferRegion struct {
	StartIndex Index
	Size       Size
	Quadrant   Quadrant
}

// DestinationIndex returns the top-left cell of the region inside a window of
// the given size, anchoring the region to the corner named by its quadrant.
func (r BufferRegion) DestinationIndex(window Size) Index {
	switch r.Quadrant {
	case QuadrantTopRight:
		return Index{0, window[1] - r.Size[1]}
	case QuadrantBottomLeft:
		return Index{window[0] - r.Size[0], 0}
	case QuadrantBottomRight:
		return Index{window[0] - r.Size[0], window[1] - r.Size[1]}
	default:
		return Index{0, 0}
	}
}

// Interpolation selects how AtPosition reconstructs values between cell centres.
type Interpolation int

const (
	InterpolationNearest Interpolation = iota
	InterpolationLinear
	InterpolationCubic
)

func (m Interpolation) String() string {
	switch m {
	case InterpolationNearest:
		return "nearest"
	case InterpolationLinear:
		return "linear"
	case InterpolationCubic:
		return "cubic"
	default:
		return fmt.Sprintf("interpolation(%d)", int(m))
	}
}
