package febus

import "time"

// Data is the result of one extraction call: a contiguous, non-overlapping
// time×distance matrix with its axes and the normalized file metadata.
// The record is created once per call and never mutated afterwards.
type Data struct {
	// Values is the row-major Rows×Cols matrix. Rows are time samples in
	// read order, columns are channels.
	Values []float64
	Rows   int
	Cols   int

	// Dates holds the absolute timestamp of every row. Empty for
	// header-only and empty-window results.
	Dates []time.Time

	// Times holds the per-row offset in seconds from the first retained
	// sample.
	Times []float64

	// Distances holds the physical position of every column in metres.
	// For an empty-window result it describes the full un-windowed
	// channel set.
	Distances []float64

	// Meta is the normalized file metadata.
	Meta *Metadata
}

// At returns the matrix element at the given row and column.
func (d *Data) At(row, col int) float64 {
	return d.Values[row*d.Cols+col]
}

// NumRows returns the number of time samples.
func (d *Data) NumRows() int { return d.Rows }

// NumCols returns the number of channels.
func (d *Data) NumCols() int { return d.Cols }

// buildTimeAxes generates the per-row absolute and relative time axes:
// the first selected block's start time plus successive multiples of the
// sampling interval.
func buildTimeAxes(blockStart float64, dt float64, rows int) ([]time.Time, []float64) {
	dates := make([]time.Time, rows)
	rel := make([]float64, rows)
	for i := 0; i < rows; i++ {
		offset := float64(i) * dt
		dates[i] = time.Unix(0, int64((blockStart+offset)*1e9)).UTC()
		rel[i] = offset
	}
	return dates, rel
}

// stridedSubset returns the elements of full at positions
// first, first+stride, ... last (1-based, inclusive).
func stridedSubset(full []float64, r channelRange) []float64 {
	out := make([]float64, 0, r.count())
	for i := r.first; i <= r.last; i += r.stride {
		out = append(out, full[i-1])
	}
	return out
}
