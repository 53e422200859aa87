package costmap

// Matrix is a dense row-major buffer of cells. Rows run along buffer axis 0,
// columns along axis 1. Raw accessors do not bounds-check beyond the slice
// itself; callers validate indices through the Grid.
type Matrix struct {
	rows, cols int
	data       []float32
}

// NewMatrix allocates a rows x cols buffer filled with value.
func NewMatrix(rows, cols int, value float32) *Matrix {
	m := &Matrix{rows: rows, cols: cols, data: make([]float32, rows*cols)}
	m.Fill(value)
	return m
}

// NewMatrixFromRows copies a slice of equal-length rows into a new buffer.
func NewMatrixFromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	cols := len(rows[0])
	m := &Matrix{rows: len(rows), cols: cols, data: make([]float32, len(rows)*cols)}
	for r, row := range rows {
		if len(row) != cols {
			return nil, ErrSizeMismatch
		}
		copy(m.data[r*cols:(r+1)*cols], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Size returns the buffer dimensions as a Size.
func (m *Matrix) Size() Size { return Size{m.rows, m.cols} }

// At returns the cell at (row, col).
func (m *Matrix) At(row, col int) float32 { return m.data[row*m.cols+col] }

// Set writes the cell at (row, col).
func (m *Matrix) Set(row, col int, v float32) { m.data[row*m.cols+col] = v }

// Data exposes the underlying row-major storage.
func (m *Matrix) Data() []float32 { return m.data }

// Fill sets every cell to v.
func (m *Matrix) Fill(v float32) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, data: make([]float32, len(m.data))}
	copy(c.data, m.data)
	return c
}

// resize reallocates the buffer without preserving contents.
func (m *Matrix) resize(rows, cols int) {
	m.rows, m.cols = rows, cols
	if cap(m.data) >= rows*cols {
		m.data = m.data[:rows*cols]
		return
	}
	m.data = make([]float32, rows*cols)
}

// fillBlock sets an nRows x nCols block starting at (row, col) to v.
func (m *Matrix) fillBlock(row, col, nRows, nCols int, v float32) {
	for r := row; r < row+nRows; r++ {
		line := m.data[r*m.cols+col : r*m.cols+col+nCols]
		for i := range line {
			line[i] = v
		}
	}
}

// copyBlock copies an nRows x nCols block of src starting at src(sr, sc)
// into m starting at (dr, dc).
func (m *Matrix) copyBlock(dr, dc int, src *Matrix, sr, sc, nRows, nCols int) {
	for r := 0; r < nRows; r++ {
		dst := m.data[(dr+r)*m.cols+dc : (dr+r)*m.cols+dc+nCols]
		copy(dst, src.data[(sr+r)*src.cols+sc:(sr+r)*src.cols+sc+nCols])
	}
}
