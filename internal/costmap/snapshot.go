package costmap

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the persisted form of a grid. The scalar fields mirror the
// snapshot table columns so stores can filter without decoding the blob.
type Snapshot struct {
	SnapshotID        string  // set by the store on insert
	FrameID           string  // matches frame_id TEXT NOT NULL
	TakenUnixNanos    int64   // matches taken_unix_nanos INTEGER NOT NULL
	MapTimestampNanos int64   // matches map_timestamp_nanos INTEGER NOT NULL
	SizeX             int     // matches size_x INTEGER NOT NULL
	SizeY             int     // matches size_y INTEGER NOT NULL
	Resolution        float64 // matches resolution REAL NOT NULL
	PositionX         float64 // matches position_x REAL NOT NULL
	PositionY         float64 // matches position_y REAL NOT NULL
	LayersJSON        string  // matches layers_json TEXT NOT NULL
	GridBlob          []byte  // matches grid_blob BLOB NOT NULL (gob+gzip gridState)
	SnapshotReason    string  // matches snapshot_reason TEXT
}

// SnapshotStore persists grid snapshots. Implemented by sqlite.SnapshotStore.
type SnapshotStore interface {
	InsertSnapshot(s *Snapshot) (string, error)
}

// gridState is the blob payload. Layer data is stored in physical order
// together with the start index, so a restored grid has the same rotation.
type gridState struct {
	Layers      []layerState
	BasicLayers []string
	StartIndex  Index
}

type layerState struct {
	Name     string
	Sentinel float32
	Data     []float32
}

// serializeGrid compresses the grid state using gob encoding and gzip compression.
func serializeGrid(state gridState) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(state); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeGrid decompresses and decodes grid state from a gob+gzip blob.
func deserializeGrid(blob []byte) (gridState, error) {
	var state gridState
	if len(blob) == 0 {
		return state, fmt.Errorf("empty grid blob")
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return state, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&state); err != nil {
		return state, fmt.Errorf("failed to decode grid state: %w", err)
	}
	return state, nil
}

// Snapshot captures the grid into its persisted form.
func (g *Grid) Snapshot(reason string) (*Snapshot, error) {
	state := gridState{
		BasicLayers: append([]string(nil), g.basicLayers...),
		StartIndex:  g.startIndex,
	}
	for _, name := range g.layerNames {
		l := g.layers[name]
		state.Layers = append(state.Layers, layerState{
			Name:     name,
			Sentinel: l.sentinel,
			Data:     append([]float32(nil), l.data.Data()...),
		})
	}

	blob, err := serializeGrid(state)
	if err != nil {
		return nil, fmt.Errorf("serialize grid: %w", err)
	}
	names, err := json.Marshal(g.layerNames)
	if err != nil {
		return nil, fmt.Errorf("encode layer names: %w", err)
	}

	return &Snapshot{
		FrameID:           string(g.frameID),
		TakenUnixNanos:    time.Now().UnixNano(),
		MapTimestampNanos: g.timestampNanos,
		SizeX:             g.size[0],
		SizeY:             g.size[1],
		Resolution:        g.resolution,
		PositionX:         g.position.X,
		PositionY:         g.position.Y,
		LayersJSON:        string(names),
		GridBlob:          blob,
		SnapshotReason:    reason,
	}, nil
}

// FromSnapshot rebuilds a grid from a snapshot, including its buffer
// rotation, per-layer sentinels and basic layers.
func FromSnapshot(s *Snapshot) (*Grid, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	state, err := deserializeGrid(s.GridBlob)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(state.Layers))
	for _, ls := range state.Layers {
		names = append(names, ls.Name)
	}
	g := New(names...)
	g.frameID = FrameID(s.FrameID)
	g.timestampNanos = s.MapTimestampNanos

	size := Size{s.SizeX, s.SizeY}
	if size.Cells() > 0 && s.Resolution > 0 {
		g.SetGeometry(
			Length{X: float64(size[0]) * s.Resolution, Y: float64(size[1]) * s.Resolution},
			s.Resolution,
			Position{X: s.PositionX, Y: s.PositionY},
		)
	}
	if g.size != size {
		return nil, fmt.Errorf("snapshot %s: geometry %s restored as %s: %w", s.SnapshotID, size, g.size, ErrSizeMismatch)
	}

	for _, ls := range state.Layers {
		if len(ls.Data) != size.Cells() {
			return nil, fmt.Errorf("snapshot %s: layer %q holds %d cells, want %d: %w",
				s.SnapshotID, ls.Name, len(ls.Data), size.Cells(), ErrSizeMismatch)
		}
		l := g.layers[ls.Name]
		l.sentinel = ls.Sentinel
		copy(l.data.Data(), ls.Data)
	}
	if err := g.SetBasicLayers(state.BasicLayers...); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.SnapshotID, err)
	}
	g.SetStartIndex(state.StartIndex)
	return g, nil
}

// Persist snapshots the grid and writes it via the provided store. It
// returns the id assigned by the store.
func (g *Grid) Persist(store SnapshotStore, reason string) (string, error) {
	if g == nil || store == nil {
		return "", nil
	}
	snap, err := g.Snapshot(reason)
	if err != nil {
		return "", err
	}
	id, err := store.InsertSnapshot(snap)
	if err != nil {
		opsf("persist: frame=%s reason=%s failed: %v", g.frameID, reason, err)
		return "", err
	}
	snap.SnapshotID = id
	diagf("persist: frame=%s size=%s id=%s reason=%s blob_bytes=%d",
		g.frameID, g.size, id, reason, len(snap.GridBlob))
	return id, nil
}
