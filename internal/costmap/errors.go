package costmap

import "errors"

var (
	// ErrLayerNotFound indicates a layer name that is not part of the grid.
	ErrLayerNotFound = errors.New("costmap: no map layer available")
	// ErrOutOfRange indicates a position outside the map or an index outside the buffer.
	ErrOutOfRange = errors.New("costmap: position is out of range")
	// ErrUnsupportedInterpolation indicates an interpolation method with no implementation.
	ErrUnsupportedInterpolation = errors.New("costmap: interpolation method not implemented")
	// ErrSizeMismatch indicates a buffer whose dimensions differ from the grid size.
	ErrSizeMismatch = errors.New("costmap: buffer size does not match map size")
	// ErrNoGeometry indicates an operation on a grid whose geometry was never set.
	ErrNoGeometry = errors.New("costmap: map geometry not set")
)
