package febus

import "math"

// sampleWindow is the inclusive, 1-based sub-range of in-block samples
// that tiles without gaps or overlap across consecutive blocks.
type sampleWindow struct {
	first, last int
}

func (w sampleWindow) count() int {
	return w.last - w.first + 1
}

// resolveBlockGeometry computes the minimal non-overlapping sample window
// per block. Consecutive blocks repeat BlockOverlap percent of their
// duration; keeping round(BlockInterval/dt) samples from each block yields
// a gap-free, overlap-free sequence.
//
// The window is always anchored at the first available sample of the raw
// extent. Searching for the best-aligned anchor instead is a known
// alternative that is intentionally not implemented.
func resolveBlockGeometry(m *Metadata) (sampleWindow, error) {
	dt := m.SamplingInterval()
	rawSamples := m.Extent[3] - m.Extent[2] + 1
	covered := float64(rawSamples) * dt
	if covered < m.BlockInterval {
		return sampleWindow{}, &GeometryError{
			ExtentDuration: covered,
			BlockInterval:  m.BlockInterval,
		}
	}
	return sampleWindow{
		first: 1,
		last:  int(math.Round(m.BlockInterval / dt)),
	}, nil
}
