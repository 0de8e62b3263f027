// Package scantable defines the columnar data model cached by scancache:
// an indexed mass-spectrometry scan table and the fragment isolation
// windows derived from it.
package scantable

import "math"

// Stream names identify the two persisted shard families of one cached
// source: the primary MS1 indexed table and the MS2 fragment windows.
const (
	StreamPrimary = "ms1_indexed"
	StreamWindows = "ms2_window"
)

// Table is an indexed dataset of detected data points, stored as six
// parallel columns aligned by row index. All columns have identical
// length; row i across the columns describes one detected point.
type Table struct {
	// RT is the retention time of each point, in seconds.
	RT []float32

	// Mobility is the ion mobility (1/K0) of each point.
	Mobility []float32

	// MZ is the mass-to-charge ratio of each point.
	MZ []float32

	// Intensity is the detected intensity of each point.
	Intensity []uint32

	// FrameIndex is the instrument frame each point was detected in.
	FrameIndex []uint32

	// ScanIndex is the scan position within the frame.
	ScanIndex []uint32
}

// NewTable returns an empty table with capacity for n rows per column.
func NewTable(n int) *Table {
	return &Table{
		RT:         make([]float32, 0, n),
		Mobility:   make([]float32, 0, n),
		MZ:         make([]float32, 0, n),
		Intensity:  make([]uint32, 0, n),
		FrameIndex: make([]uint32, 0, n),
		ScanIndex:  make([]uint32, 0, n),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.MZ)
}

// Aligned reports whether all six columns have the same length.
func (t *Table) Aligned() bool {
	if t == nil {
		return true
	}
	n := len(t.MZ)
	return len(t.RT) == n &&
		len(t.Mobility) == n &&
		len(t.Intensity) == n &&
		len(t.FrameIndex) == n &&
		len(t.ScanIndex) == n
}

// SizeBytes returns the in-memory size of the column data in bytes
// (six 4-byte columns per row). Slice headers are not counted.
func (t *Table) SizeBytes() int64 {
	return int64(t.Len()) * 24
}

// Slice returns the rows [i, j) as a table sharing column storage with t.
func (t *Table) Slice(i, j int) Table {
	return Table{
		RT:         t.RT[i:j],
		Mobility:   t.Mobility[i:j],
		MZ:         t.MZ[i:j],
		Intensity:  t.Intensity[i:j],
		FrameIndex: t.FrameIndex[i:j],
		ScanIndex:  t.ScanIndex[i:j],
	}
}

// Append appends all rows of o to t.
func (t *Table) Append(o *Table) {
	t.RT = append(t.RT, o.RT...)
	t.Mobility = append(t.Mobility, o.Mobility...)
	t.MZ = append(t.MZ, o.MZ...)
	t.Intensity = append(t.Intensity, o.Intensity...)
	t.FrameIndex = append(t.FrameIndex, o.FrameIndex...)
	t.ScanIndex = append(t.ScanIndex, o.ScanIndex...)
}

// Equal reports whether t and o hold identical rows. Float columns are
// compared bit for bit, so NaN payloads and signed zeros must match
// exactly.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t.Len() == o.Len()
	}
	return eqFloat32(t.RT, o.RT) &&
		eqFloat32(t.Mobility, o.Mobility) &&
		eqFloat32(t.MZ, o.MZ) &&
		eqUint32(t.Intensity, o.Intensity) &&
		eqUint32(t.FrameIndex, o.FrameIndex) &&
		eqUint32(t.ScanIndex, o.ScanIndex)
}

func eqFloat32(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}

func eqUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Shard is a contiguous row-range partition of one table, the unit of
// compression and parallel I/O. MZMin and MZMax record the m/z of the
// shard's first and last row (or the window key for a fragment window
// shard); they are provenance metadata and are never used for routing.
type Shard struct {
	Table

	MZMin float32
	MZMax float32
}

// Range is a half-open m/z interval [Low, High).
type Range struct {
	Low  float32
	High float32
}

// Window is one fragment isolation window: the m/z range it was acquired
// with and the points detected inside it. Window keys are unique within
// a cache entry and their order is preserved across a save/load cycle.
type Window struct {
	Range Range
	Data  *Table
}
