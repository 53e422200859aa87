package costmap

// Iterator walks every cell of a grid in storage order. It is restartable
// with Reset and yields physical indices:
//
//	for it := NewIterator(g); it.Next(); {
//		idx := it.Index()
//	}
type Iterator struct {
	size   Size
	start  Index
	linear int
	total  int
}

// NewIterator returns an iterator over the whole grid.
func NewIterator(g *Grid) *Iterator {
	return &Iterator{size: g.size, start: g.startIndex, linear: -1, total: g.size.Cells()}
}

// Next advances to the next cell and reports whether one exists.
func (it *Iterator) Next() bool {
	if it.linear+1 >= it.total {
		it.linear = it.total
		return false
	}
	it.linear++
	return true
}

// Index returns the physical index of the current cell.
func (it *Iterator) Index() Index {
	return Index{it.linear / it.size[1], it.linear % it.size[1]}
}

// UnwrappedIndex returns the logical index of the current cell.
func (it *Iterator) UnwrappedIndex() Index {
	return indexFromBufferIndex(it.Index(), it.size, it.start)
}

// Reset rewinds the iterator to before the first cell.
func (it *Iterator) Reset() { it.linear = -1 }

// SubmapIterator walks a rectangular window of a grid row by row in logical
// order, yielding physical indices.
type SubmapIterator struct {
	bufferSize  Size
	bufferStart Index
	startLogic  Index
	size        Size
	offset      Index
	started     bool
	done        bool
}

// NewSubmapIterator iterates the window of size cells whose first cell is
// stored at physical index start. The window is clipped to the buffer.
func NewSubmapIterator(g *Grid, start Index, size Size) *SubmapIterator {
	it := &SubmapIterator{bufferSize: g.size, bufferStart: g.startIndex}
	it.startLogic = indexFromBufferIndex(start, g.size, g.startIndex)
	for i := 0; i < 2; i++ {
		it.size[i] = size[i]
		if it.startLogic[i]+it.size[i] > g.size[i] {
			it.size[i] = g.size[i] - it.startLogic[i]
		}
	}
	it.done = it.size[0] <= 0 || it.size[1] <= 0
	return it
}

// NewSubmapIteratorFromGeometry iterates the window described by geom.
func NewSubmapIteratorFromGeometry(g *Grid, geom SubmapGeometry) *SubmapIterator {
	return NewSubmapIterator(g, geom.StartIndex, geom.Size)
}

// Next advances to the next cell and reports whether one exists.
func (it *SubmapIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}
	it.offset[1]++
	if it.offset[1] >= it.size[1] {
		it.offset[1] = 0
		it.offset[0]++
	}
	if it.offset[0] >= it.size[0] {
		it.done = true
		return false
	}
	return true
}

// Index returns the physical index of the current cell.
func (it *SubmapIterator) Index() Index {
	return bufferIndexFromIndex(it.startLogic.Add(it.offset), it.bufferSize, it.bufferStart)
}

// SubmapIndex returns the position of the current cell inside the window.
func (it *SubmapIterator) SubmapIndex() Index { return it.offset }

// Size returns the clipped window size.
func (it *SubmapIterator) Size() Size { return it.size }

// Reset rewinds the iterator to before the first cell.
func (it *SubmapIterator) Reset() {
	it.offset = Index{}
	it.started = false
	it.done = it.size[0] <= 0 || it.size[1] <= 0
}
