// Package costmap owns the dense multi-layer raster anchored to a moving
// world-frame centre.
//
// Responsibilities: geometry and index algebra, named layer storage with
// per-layer sentinels, circular pan-and-evict (Move), submap extraction
// across the buffer wraparound, grid composition (ExtendToInclude,
// AddDataFrom) and bilinear reconstruction of continuous values.
// Key types: Grid, Matrix, BufferRegion, SubmapGeometry, Snapshot.
//
// Every layer is a fixed arena of Size[0] x Size[1] cells. The grid keeps a
// per-axis StartIndex rotation: physical = (logical + StartIndex) mod Size.
// Moving the grid only rotates StartIndex and clears the cells that scrolled
// out; no layer is ever reallocated or copied in bulk.
//
// Frame convention: buffer axis 0 grows toward -x and axis 1 grows toward -y,
// so logical index (0, 0) is the (+x, +y) corner of the map.
//
// A Grid is not safe for concurrent mutation. Readers may share a Grid only
// while no writer (Move, Add, Erase, SetGeometry, Clear*, ExtendToInclude,
// AddDataFrom) is active.
//
// No SQL/database code is allowed in this package; persistence goes through
// the SnapshotStore interface.
package costmap
