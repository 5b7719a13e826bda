package febus

// DecimateReadThreshold is the decimation stride at or above which a
// single strided read beats reading the full channel range and decimating
// in memory. The crossover depends on the store's per-read cost; either
// strategy is correct for any stride.
const DecimateReadThreshold = 50

// readStrategy selects how the channel decimation is applied.
type readStrategy int

const (
	// directStridedRead pushes the stride into the store: one larger
	// strided read, fewer total reads.
	directStridedRead readStrategy = iota

	// readThenDecimate reads the contiguous channel range and applies
	// the stride in memory, which is cheaper per read at small strides.
	readThenDecimate
)

func chooseStrategy(stride int) readStrategy {
	if stride == 1 || stride >= DecimateReadThreshold {
		return directStridedRead
	}
	return readThenDecimate
}

// assemble reads the resolved selection from the raw 3-D dataset
// (dimensions: channel, in-block-sample, block) and reorders it into a
// row-major (time-sample × channel) matrix, concatenating the retained
// sample window of each selected block in block order.
func assemble(ds Dataset, cr channelRange, sw sampleWindow, tw blockRange) ([]float64, int, int, error) {
	nchan := cr.count()
	nsamp := sw.count()
	nblocks := tw.count()

	var raw []float64
	var err error
	switch chooseStrategy(cr.stride) {
	case directStridedRead:
		raw, err = ds.ReadHyperslab(
			[]uint64{uint64(cr.first - 1), uint64(sw.first - 1), uint64(tw.first - 1)},
			[]uint64{uint64(nchan), uint64(nsamp), uint64(nblocks)},
			[]uint64{uint64(cr.stride), 1, 1},
		)
	case readThenDecimate:
		full := cr.last - cr.first + 1
		raw, err = ds.ReadSlice(
			[]uint64{uint64(cr.first - 1), uint64(sw.first - 1), uint64(tw.first - 1)},
			[]uint64{uint64(full), uint64(nsamp), uint64(nblocks)},
		)
		// A short read is caught by the shape check below; decimating
		// it would misattribute samples to channels first.
		if err == nil && len(raw) == full*nsamp*nblocks {
			raw = decimateChannels(raw, full, nsamp*nblocks, cr.stride)
		}
	}
	if err != nil {
		return nil, 0, 0, wrapError("bulk data read", err)
	}

	rows := nblocks * nsamp
	if len(raw) != rows*nchan {
		gotRows, gotCols := len(raw), 1
		if nchan > 0 && len(raw)%nchan == 0 {
			gotRows, gotCols = len(raw)/nchan, nchan
		}
		return nil, 0, 0, &AssemblyError{
			GotRows: gotRows, GotCols: gotCols,
			WantRows: rows, WantCols: nchan,
		}
	}

	// raw is (channel, sample, block) row-major; the output row for
	// block b, in-block sample s is b*nsamp+s.
	out := make([]float64, rows*nchan)
	for c := 0; c < nchan; c++ {
		for s := 0; s < nsamp; s++ {
			base := (c*nsamp + s) * nblocks
			for b := 0; b < nblocks; b++ {
				out[(b*nsamp+s)*nchan+c] = raw[base+b]
			}
		}
	}
	return out, rows, nchan, nil
}

// decimateChannels keeps every stride-th channel of a (channels × inner)
// row-major block.
func decimateChannels(raw []float64, channels, inner, stride int) []float64 {
	kept := (channels-1)/stride + 1
	out := make([]float64, 0, kept*inner)
	for c := 0; c < channels; c += stride {
		out = append(out, raw[c*inner:(c+1)*inner]...)
	}
	return out
}
