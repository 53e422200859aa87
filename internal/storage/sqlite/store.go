// Package sqlite persists costmap snapshots in a SQLite database.
//
// The schema is owned by the embedded migrations and applied on Open.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/costmap/internal/costmap"
)

// Logf is the package logger. It defaults to log.Printf but may be replaced
// by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// ErrSnapshotNotFound is returned when no snapshot matches the lookup.
var ErrSnapshotNotFound = errors.New("sqlite: snapshot not found")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// SnapshotStore provides persistence for costmap snapshots.
type SnapshotStore struct {
	db *sql.DB
}

var _ costmap.SnapshotStore = (*SnapshotStore)(nil)

// Open opens (creating if needed) the database at path, applies pragmas and
// runs pending migrations.
func Open(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &SnapshotStore{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	Logf("[costmap/sqlite] opened snapshot store at %s", path)
	return s, nil
}

// NewSnapshotStore wraps an existing database handle. The caller owns the
// schema and must have run MigrateUp.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// InsertSnapshot stores a snapshot and returns its id. A missing id is
// generated and written back into the snapshot.
func (s *SnapshotStore) InsertSnapshot(snap *costmap.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("insert snapshot: nil snapshot")
	}
	if snap.SnapshotID == "" {
		snap.SnapshotID = uuid.New().String()
	}
	if snap.TakenUnixNanos == 0 {
		snap.TakenUnixNanos = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO costmap_snapshots (
			snapshot_id, frame_id, taken_unix_nanos, map_timestamp_nanos,
			size_x, size_y, resolution, position_x, position_y,
			layers_json, grid_blob, snapshot_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.SnapshotID, snap.FrameID, snap.TakenUnixNanos, snap.MapTimestampNanos,
		snap.SizeX, snap.SizeY, snap.Resolution, snap.PositionX, snap.PositionY,
		snap.LayersJSON, snap.GridBlob, snap.SnapshotReason,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return snap.SnapshotID, nil
}

const selectSnapshot = `
	SELECT snapshot_id, frame_id, taken_unix_nanos, map_timestamp_nanos,
	       size_x, size_y, resolution, position_x, position_y,
	       layers_json, grid_blob, snapshot_reason
	FROM costmap_snapshots`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*costmap.Snapshot, error) {
	var snap costmap.Snapshot
	var reason sql.NullString
	err := row.Scan(
		&snap.SnapshotID,
		&snap.FrameID,
		&snap.TakenUnixNanos,
		&snap.MapTimestampNanos,
		&snap.SizeX,
		&snap.SizeY,
		&snap.Resolution,
		&snap.PositionX,
		&snap.PositionY,
		&snap.LayersJSON,
		&snap.GridBlob,
		&reason,
	)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		snap.SnapshotReason = reason.String
	}
	return &snap, nil
}

// GetSnapshot returns the snapshot with the given id.
func (s *SnapshotStore) GetSnapshot(id string) (*costmap.Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRow(selectSnapshot+` WHERE snapshot_id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// LatestSnapshot returns the most recently taken snapshot for a frame.
func (s *SnapshotStore) LatestSnapshot(frameID string) (*costmap.Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRow(
		selectSnapshot+` WHERE frame_id = ? ORDER BY taken_unix_nanos DESC, rowid DESC LIMIT 1`,
		frameID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: frame %s", ErrSnapshotNotFound, frameID)
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshots newest first. An empty frameID lists every
// frame; a non-positive limit returns all rows.
func (s *SnapshotStore) ListSnapshots(frameID string, limit int) ([]*costmap.Snapshot, error) {
	query := selectSnapshot
	var args []interface{}
	if frameID != "" {
		query += ` WHERE frame_id = ?`
		args = append(args, frameID)
	}
	query += ` ORDER BY taken_unix_nanos DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*costmap.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes the snapshot with the given id.
func (s *SnapshotStore) DeleteSnapshot(id string) error {
	res, err := s.db.Exec(`DELETE FROM costmap_snapshots WHERE snapshot_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}
