package relation

// ClusterID identifies the class of a cell inside its column PLI.
type ClusterID int32

// Unique marks a cell whose value occurs once in its column (or a null under
// the nulls-not-equal policy). Two Unique cells never agree.
const Unique ClusterID = -1

// Records is the compressed form of the relation: per row, the cluster id of
// each cell. Cells are stored row-major in one slice so comparing two rows
// walks contiguous memory.
type Records struct {
	numRows int
	width   int
	cells   []ClusterID
}

func newRecords(numRows, width int) *Records {
	cells := make([]ClusterID, numRows*width)
	for i := range cells {
		cells[i] = Unique
	}
	return &Records{numRows: numRows, width: width, cells: cells}
}

// NumRows returns the number of rows.
func (r *Records) NumRows() int {
	return r.numRows
}

// Width returns the number of columns.
func (r *Records) Width() int {
	return r.width
}

// Row returns the cluster ids of row i. The slice aliases internal storage.
func (r *Records) Row(i int) []ClusterID {
	return r.cells[i*r.width : (i+1)*r.width]
}

// At returns the cluster id of the cell at (row, col).
func (r *Records) At(row, col int) ClusterID {
	return r.cells[row*r.width+col]
}

// Agree reports whether rows a and b share a non-singleton class in col.
func (r *Records) Agree(a, b, col int) bool {
	va := r.cells[a*r.width+col]
	return va != Unique && va == r.cells[b*r.width+col]
}
