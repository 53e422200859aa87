package costmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func collect(next func() bool, index func() Index) []Index {
	var out []Index
	for next() {
		out = append(out, index())
	}
	return out
}

func TestIteratorCoversGridInStorageOrder(t *testing.T) {
	t.Parallel()

	g := New("l")
	g.SetGeometry(Length{X: 2, Y: 3}, 1, Position{})
	g.SetStartIndex(Index{1, 2})

	it := NewIterator(g)
	got := collect(it.Next, it.Index)
	want := []Index{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("iterator order mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, it.Next(), "exhausted iterator stays exhausted")

	it.Reset()
	assert.True(t, it.Next())
	assert.Equal(t, Index{0, 0}, it.Index())
	assert.Equal(t, Index{1, 1}, it.UnwrappedIndex())
}

func TestIteratorOnEmptyGrid(t *testing.T) {
	t.Parallel()

	it := NewIterator(New("l"))
	assert.False(t, it.Next())
}

func TestSubmapIterator(t *testing.T) {
	t.Parallel()

	g := New("l")
	g.SetGeometry(Length{X: 5, Y: 5}, 1, Position{})
	g.SetStartIndex(Index{3, 3})

	it := NewSubmapIterator(g, Index{4, 4}, Size{3, 2})
	assert.Equal(t, Size{3, 2}, it.Size())

	var physical, local []Index
	for it.Next() {
		physical = append(physical, it.Index())
		local = append(local, it.SubmapIndex())
	}
	wantPhysical := []Index{{4, 4}, {4, 0}, {0, 4}, {0, 0}, {1, 4}, {1, 0}}
	wantLocal := []Index{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}
	if diff := cmp.Diff(wantPhysical, physical); diff != "" {
		t.Errorf("physical indices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantLocal, local); diff != "" {
		t.Errorf("submap indices mismatch (-want +got):\n%s", diff)
	}

	it.Reset()
	assert.Len(t, collect(it.Next, it.Index), 6)
}

func TestSubmapIteratorClipsToBuffer(t *testing.T) {
	t.Parallel()

	g := New("l")
	g.SetGeometry(Length{X: 5, Y: 5}, 1, Position{})

	it := NewSubmapIterator(g, Index{3, 3}, Size{10, 10})
	assert.Equal(t, Size{2, 2}, it.Size())
	assert.Len(t, collect(it.Next, it.Index), 4)

	empty := NewSubmapIterator(g, Index{0, 0}, Size{0, 3})
	assert.False(t, empty.Next())
}

func TestSubmapIteratorFromGeometry(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 0)
	g.SetStartIndex(Index{6, 6})
	fillByPosition(t, g, "l")

	geom, ok := g.SubmapGeometry(Position{X: -1, Y: 1}, Length{X: 2, Y: 4})
	if !ok {
		t.Fatal("expected overlap")
	}
	sub, ok := g.GetSubmap(Position{X: -1, Y: 1}, Length{X: 2, Y: 4})
	if !ok {
		t.Fatal("expected submap")
	}

	it := NewSubmapIteratorFromGeometry(g, geom)
	n := 0
	for it.Next() {
		want, _ := g.At("l", it.Index())
		got, _ := sub.At("l", it.SubmapIndex())
		assert.Equal(t, want, got, "submap index %v", it.SubmapIndex())
		n++
	}
	assert.Equal(t, geom.Size.Cells(), n)
}
