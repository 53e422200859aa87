package costmap

import (
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r3"
)

// layer is one named buffer plus the value that marks "no information" in it.
type layer struct {
	data     *Matrix
	sentinel float32
}

func (l *layer) isSentinel(v float32) bool {
	if math.IsNaN(float64(l.sentinel)) {
		return math.IsNaN(float64(v))
	}
	return v == l.sentinel
}

func (l *layer) clone() *layer {
	return &layer{data: l.data.Clone(), sentinel: l.sentinel}
}

// Grid is a dense multi-layer raster centred on a world-frame position.
// All layers share one geometry. Copy a Grid with Clone; plain assignment of
// a *Grid shares the buffers.
type Grid struct {
	layers      map[string]*layer
	layerNames  []string // insertion order
	basicLayers []string

	frameID        FrameID
	timestampNanos int64

	position   Position
	length     Length
	resolution float64
	size       Size
	startIndex Index
}

// New creates a grid with the given layers. Buffers stay empty until
// SetGeometry allocates them.
func New(layers ...string) *Grid {
	g := &Grid{layers: make(map[string]*layer, len(layers))}
	for _, name := range layers {
		if _, ok := g.layers[name]; ok {
			continue
		}
		g.layers[name] = &layer{data: &Matrix{}, sentinel: NoInformation}
		g.layerNames = append(g.layerNames, name)
	}
	return g
}

// SetGeometry sizes every layer for the requested extent, fills every cell
// with its sentinel and resets the start index. The stored length is
// Size*resolution, which may differ from the requested length.
// Non-positive length or resolution, or a length that rounds to zero cells,
// is a programming error and panics.
func (g *Grid) SetGeometry(length Length, resolution float64, position Position) {
	if length.X <= 0 || length.Y <= 0 {
		panic(fmt.Sprintf("costmap: map length must be positive, got %v", length))
	}
	if resolution <= 0 {
		panic(fmt.Sprintf("costmap: resolution must be positive, got %f", resolution))
	}

	size := Size{
		int(math.Round(length.X / resolution)),
		int(math.Round(length.Y / resolution)),
	}
	if size[0] == 0 || size[1] == 0 {
		panic(fmt.Sprintf("costmap: length %v is less than one cell at resolution %f", length, resolution))
	}
	g.resize(size)
	g.ClearAll()

	g.resolution = resolution
	g.length = Length{X: float64(size[0]) * resolution, Y: float64(size[1]) * resolution}
	g.position = position
	g.startIndex = Index{}

	diagf("setGeometry: frame=%s size=%s resolution=%.4f position=%v", g.frameID, size, resolution, position)
}

// SetGeometryFrom applies the geometry computed for a submap.
func (g *Grid) SetGeometryFrom(geom SubmapGeometry) {
	g.SetGeometry(geom.Length, geom.Resolution, geom.Position)
}

func (g *Grid) resize(size Size) {
	g.size = size
	for _, l := range g.layers {
		l.data.resize(size[0], size[1])
	}
}

func (g *Grid) hasGeometry() bool {
	return g.resolution > 0 && g.size.Cells() > 0
}

// Add creates the layer filled with value, or overwrites every cell of an
// existing layer with value.
func (g *Grid) Add(name string, value float32) {
	if l, ok := g.layers[name]; ok {
		l.data.resize(g.size[0], g.size[1])
		l.data.Fill(value)
		return
	}
	g.layers[name] = &layer{data: NewMatrix(g.size[0], g.size[1], value), sentinel: NoInformation}
	g.layerNames = append(g.layerNames, name)
}

// AddMatrix stores a copy of m as the named layer, replacing existing data.
func (g *Grid) AddMatrix(name string, m *Matrix) error {
	if m == nil || m.Size() != g.size {
		return fmt.Errorf("add layer %q: %w", name, ErrSizeMismatch)
	}
	if l, ok := g.layers[name]; ok {
		l.data = m.Clone()
		return nil
	}
	g.layers[name] = &layer{data: m.Clone(), sentinel: NoInformation}
	g.layerNames = append(g.layerNames, name)
	return nil
}

// addEmpty creates a sentinel-filled layer that uses the given sentinel.
func (g *Grid) addEmpty(name string, sentinel float32) {
	g.layers[name] = &layer{data: NewMatrix(g.size[0], g.size[1], sentinel), sentinel: sentinel}
	g.layerNames = append(g.layerNames, name)
}

// Exists reports whether the layer is part of the grid.
func (g *Grid) Exists(name string) bool {
	_, ok := g.layers[name]
	return ok
}

// HasSameLayers reports whether every layer of g also exists in other.
func (g *Grid) HasSameLayers(other *Grid) bool {
	for _, name := range g.layerNames {
		if !other.Exists(name) {
			return false
		}
	}
	return true
}

func (g *Grid) layer(name string) (*layer, error) {
	l, ok := g.layers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	return l, nil
}

// Get returns the named layer buffer. The buffer is shared with the grid.
func (g *Grid) Get(name string) (*Matrix, error) {
	l, err := g.layer(name)
	if err != nil {
		return nil, err
	}
	return l.data, nil
}

// At returns the value stored at a physical index. The index is not
// bounds-checked beyond the underlying slice.
func (g *Grid) At(name string, idx Index) (float32, error) {
	l, err := g.layer(name)
	if err != nil {
		return 0, err
	}
	return l.data.At(idx[0], idx[1]), nil
}

// Set writes a value at a physical index.
func (g *Grid) Set(name string, idx Index, v float32) error {
	l, err := g.layer(name)
	if err != nil {
		return err
	}
	l.data.Set(idx[0], idx[1], v)
	return nil
}

// Erase removes the layer and drops it from the basic layers.
func (g *Grid) Erase(name string) error {
	if _, ok := g.layers[name]; !ok {
		return fmt.Errorf("erase: %w: %q", ErrLayerNotFound, name)
	}
	delete(g.layers, name)
	g.layerNames = slices.DeleteFunc(g.layerNames, func(s string) bool { return s == name })
	g.basicLayers = slices.DeleteFunc(g.basicLayers, func(s string) bool { return s == name })
	return nil
}

// Layers returns the layer names in insertion order.
func (g *Grid) Layers() []string {
	return slices.Clone(g.layerNames)
}

// BasicLayers returns the layers whose joint validity defines a known cell.
func (g *Grid) BasicLayers() []string {
	return slices.Clone(g.basicLayers)
}

// SetBasicLayers replaces the basic layer set. Every name must exist.
func (g *Grid) SetBasicLayers(names ...string) error {
	for _, name := range names {
		if !g.Exists(name) {
			return fmt.Errorf("set basic layers: %w: %q", ErrLayerNotFound, name)
		}
	}
	g.basicLayers = slices.Clone(names)
	return nil
}

// Sentinel returns the "no information" value of the layer.
func (g *Grid) Sentinel(name string) (float32, error) {
	l, err := g.layer(name)
	if err != nil {
		return 0, err
	}
	return l.sentinel, nil
}

// SetSentinel changes the "no information" value of the layer. Existing
// cells are not rewritten.
func (g *Grid) SetSentinel(name string, v float32) error {
	l, err := g.layer(name)
	if err != nil {
		return err
	}
	l.sentinel = v
	return nil
}

// Clear resets every cell of the layer to its sentinel.
func (g *Grid) Clear(name string) error {
	l, err := g.layer(name)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	l.data.Fill(l.sentinel)
	return nil
}

// ClearBasic clears the basic layers.
func (g *Grid) ClearBasic() {
	for _, name := range g.basicLayers {
		g.layers[name].data.Fill(g.layers[name].sentinel)
	}
}

// ClearAll clears every layer.
func (g *Grid) ClearAll() {
	for _, l := range g.layers {
		l.data.Fill(l.sentinel)
	}
}

// clearRows clears nRows physical rows starting at row in every layer.
func (g *Grid) clearRows(row, nRows int) {
	for _, l := range g.layers {
		l.data.fillBlock(row, 0, nRows, g.size[1], l.sentinel)
	}
}

// clearCols clears nCols physical columns starting at col in every layer.
func (g *Grid) clearCols(col, nCols int) {
	for _, l := range g.layers {
		l.data.fillBlock(0, col, g.size[0], nCols, l.sentinel)
	}
}

// IsValid reports whether every basic layer holds information at idx.
// A grid without basic layers has no valid cells.
func (g *Grid) IsValid(idx Index) bool {
	return g.IsValidIn(idx, g.basicLayers...)
}

// IsValidIn reports whether every listed layer holds information at idx.
// An empty list or an unknown layer is never valid.
func (g *Grid) IsValidIn(idx Index, names ...string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !g.IsValidLayer(idx, name) {
			return false
		}
	}
	return true
}

// IsValidLayer reports whether the layer holds information at idx.
func (g *Grid) IsValidLayer(idx Index, name string) bool {
	l, ok := g.layers[name]
	if !ok {
		return false
	}
	return !l.isSentinel(l.data.At(idx[0], idx[1]))
}

// PositionToIndex returns the physical index of the cell containing pos.
func (g *Grid) PositionToIndex(pos Position) (Index, error) {
	if !g.hasGeometry() {
		return Index{}, ErrNoGeometry
	}
	idx, ok := indexFromPosition(pos, g.length, g.position, g.resolution, g.size, g.startIndex)
	if !ok {
		return Index{}, fmt.Errorf("%w: %v", ErrOutOfRange, pos)
	}
	return idx, nil
}

// IndexToPosition returns the centre of the cell at a physical index.
func (g *Grid) IndexToPosition(idx Index) (Position, error) {
	if !g.hasGeometry() {
		return Position{}, ErrNoGeometry
	}
	pos, ok := positionFromIndex(idx, g.length, g.position, g.resolution, g.size, g.startIndex)
	if !ok {
		return Position{}, fmt.Errorf("%w: index %v outside %v", ErrOutOfRange, idx, g.size)
	}
	return pos, nil
}

// IsInside reports whether pos lies within the map rectangle.
func (g *Grid) IsInside(pos Position) bool {
	return positionWithinMap(pos, g.length, g.position)
}

// Position3 returns the cell centre with the layer value as z. It reports
// false when the cell holds no information.
func (g *Grid) Position3(name string, idx Index) (r3.Vector, bool) {
	if !g.IsValidLayer(idx, name) {
		return r3.Vector{}, false
	}
	pos, err := g.IndexToPosition(idx)
	if err != nil {
		return r3.Vector{}, false
	}
	v, _ := g.At(name, idx)
	return r3.Vector{X: pos.X, Y: pos.Y, Z: float64(v)}, true
}

// Vector reads the layers prefix+"x", prefix+"y" and prefix+"z" at idx.
func (g *Grid) Vector(prefix string, idx Index) (r3.Vector, bool) {
	names := []string{prefix + "x", prefix + "y", prefix + "z"}
	if !g.IsValidIn(idx, names...) {
		return r3.Vector{}, false
	}
	var c [3]float64
	for i, name := range names {
		c[i] = float64(g.layers[name].data.At(idx[0], idx[1]))
	}
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}, true
}

// Length returns the metric extent of the map.
func (g *Grid) Length() Length { return g.length }

// Position returns the world-frame centre of the map.
func (g *Grid) Position() Position { return g.position }

// Resolution returns the cell edge length in metres.
func (g *Grid) Resolution() float64 { return g.resolution }

// Size returns the number of cells per axis.
func (g *Grid) Size() Size { return g.size }

// StartIndex returns the circular buffer rotation.
func (g *Grid) StartIndex() Index { return g.startIndex }

// SetStartIndex overrides the circular buffer rotation, wrapped into range.
func (g *Grid) SetStartIndex(idx Index) {
	g.startIndex = wrapIndexToRange(idx, g.size)
}

// FrameID returns the frame the map is expressed in.
func (g *Grid) FrameID() FrameID { return g.frameID }

// SetFrameID sets the frame the map is expressed in.
func (g *Grid) SetFrameID(id FrameID) { g.frameID = id }

// TimestampNanos returns the acquisition time in unix nanoseconds.
func (g *Grid) TimestampNanos() int64 { return g.timestampNanos }

// SetTimestampNanos sets the acquisition time in unix nanoseconds.
func (g *Grid) SetTimestampNanos(ts int64) { g.timestampNanos = ts }

// ResetTimestamp zeroes the acquisition time.
func (g *Grid) ResetTimestamp() { g.timestampNanos = 0 }

// Clone returns a deep copy of the grid, including every layer buffer.
func (g *Grid) Clone() *Grid {
	c := *g
	c.layers = make(map[string]*layer, len(g.layers))
	for name, l := range g.layers {
		c.layers[name] = l.clone()
	}
	c.layerNames = slices.Clone(g.layerNames)
	c.basicLayers = slices.Clone(g.basicLayers)
	return &c
}

// emptyLike returns a geometry-less grid with the layers and metadata of g.
func (g *Grid) emptyLike() *Grid {
	e := New(g.layerNames...)
	for name, l := range g.layers {
		e.layers[name].sentinel = l.sentinel
	}
	e.basicLayers = slices.Clone(g.basicLayers)
	e.frameID = g.frameID
	e.timestampNanos = g.timestampNanos
	return e
}
