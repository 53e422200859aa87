package sqlite

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/costmap/internal/costmap"
)

// setupSnapshotStore opens a migrated store in a temp directory.
func setupSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "costmap.db")
	store, err := Open(dbPath)
	require.NoError(t, err, "Open should succeed")
	t.Cleanup(func() { store.Close() })
	return store
}

func testGrid(t *testing.T, frame costmap.FrameID) *costmap.Grid {
	t.Helper()

	g := costmap.New("cost", "height")
	g.SetFrameID(frame)
	g.SetGeometry(costmap.Length{X: 2, Y: 1}, 0.5, costmap.Position{X: 1, Y: -1})
	require.NoError(t, g.SetBasicLayers("cost"))
	require.NoError(t, g.SetSentinel("height", -1))
	require.NoError(t, g.Clear("height"))
	require.NoError(t, g.Set("cost", costmap.Index{1, 0}, costmap.LethalObstacle))
	require.NoError(t, g.Set("height", costmap.Index{3, 1}, 0.25))
	g.SetStartIndex(costmap.Index{1, 1})
	g.SetTimestampNanos(42)
	return g
}

func TestOpenAppliesMigrations(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)

	version, dirty, err := store.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Re-running is a no-op.
	require.NoError(t, store.MigrateUp())
}

func TestMigrateDownDropsTable(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)

	require.NoError(t, store.MigrateDown())
	_, err := store.ListSnapshots("", 0)
	assert.Error(t, err, "table should be gone after rolling back")
}

func TestPersistAndRestoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)
	g := testGrid(t, "odom")

	id, err := g.Persist(store, "manual")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := store.GetSnapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "odom", snap.FrameID)
	assert.Equal(t, "manual", snap.SnapshotReason)
	assert.Equal(t, 4, snap.SizeX)
	assert.Equal(t, 2, snap.SizeY)
	assert.JSONEq(t, `["cost","height"]`, snap.LayersJSON)

	restored, err := costmap.FromSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, g.Size(), restored.Size())
	assert.Equal(t, g.StartIndex(), restored.StartIndex())
	assert.Equal(t, g.Position(), restored.Position())
	assert.Equal(t, g.BasicLayers(), restored.BasicLayers())
	assert.Equal(t, int64(42), restored.TimestampNanos())

	for it := costmap.NewIterator(g); it.Next(); {
		for _, name := range g.Layers() {
			want, err := g.At(name, it.Index())
			require.NoError(t, err)
			got, err := restored.At(name, it.Index())
			require.NoError(t, err)
			assert.Equal(t, want, got, "layer %s at %v", name, it.Index())
		}
	}
}

func TestLatestAndListSnapshots(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)

	for i, frame := range []string{"map", "map", "odom"} {
		g := testGrid(t, costmap.FrameID(frame))
		snap, err := g.Snapshot("periodic")
		require.NoError(t, err)
		snap.TakenUnixNanos = int64(100 + i)
		_, err = store.InsertSnapshot(snap)
		require.NoError(t, err)
	}

	latest, err := store.LatestSnapshot("map")
	require.NoError(t, err)
	assert.Equal(t, int64(101), latest.TakenUnixNanos)

	all, err := store.ListSnapshots("", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(102), all[0].TakenUnixNanos)

	maps, err := store.ListSnapshots("map", 1)
	require.NoError(t, err)
	require.Len(t, maps, 1)
	assert.Equal(t, "map", maps[0].FrameID)

	_, err = store.LatestSnapshot("base_link")
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
}

func TestDeleteSnapshot(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)

	id, err := testGrid(t, "map").Persist(store, "manual")
	require.NoError(t, err)

	require.NoError(t, store.DeleteSnapshot(id))
	_, err = store.GetSnapshot(id)
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))

	err = store.DeleteSnapshot(id)
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
}

func TestInsertSnapshotKeepsGivenID(t *testing.T) {
	t.Parallel()
	store := setupSnapshotStore(t)

	snap, err := testGrid(t, "map").Snapshot("manual")
	require.NoError(t, err)
	snap.SnapshotID = "fixed-id"

	id, err := store.InsertSnapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = store.InsertSnapshot(snap)
	assert.Error(t, err, "duplicate id should violate the primary key")

	_, err = store.InsertSnapshot(nil)
	assert.Error(t, err)
}

// Not parallel: the logger is package state.
func TestSetLogger(t *testing.T) {
	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { SetLogger(log.Printf) })

	store, err := Open(filepath.Join(t.TempDir(), "logged.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NotEmpty(t, lines)
	assert.Contains(t, lines[len(lines)-1], "[costmap/sqlite] opened snapshot store")

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted %d", 1) })
}
