package febus

import "go.uber.org/zap"

// blockRange is an inclusive, 1-based selection of raw blocks along the
// time axis.
type blockRange struct {
	first, last int
}

func (r blockRange) count() int {
	return r.last - r.first + 1
}

// channelRange is an inclusive, 1-based selection of channels along the
// distance axis, with a decimation stride.
type channelRange struct {
	first, last, stride int
}

// count returns the number of channels in the strided range
// first, first+stride, ... last.
func (r channelRange) count() int {
	return (r.last-r.first)/r.stride + 1
}

// resolveTimeWindow maps the configured time selection onto block
// indices. times holds one start timestamp per raw block, in seconds
// since the epoch and non-decreasing. The second return value is false
// when no block start falls within the requested range; that is an
// empty-result condition, not an error.
func resolveTimeWindow(times []float64, cfg *config) (blockRange, bool) {
	nblocks := len(times)

	if cfg.blocks != nil {
		r := blockRange{first: cfg.blocks[0], last: cfg.blocks[1]}
		if r.first < 1 || r.last > nblocks {
			// Deliberately not clamped: the store's own bounds
			// validation decides what an out-of-range slice does.
			cfg.logger.Warn("block selection outside available range",
				zap.Int("first", r.first),
				zap.Int("last", r.last),
				zap.Int("available", nblocks))
		}
		return r, true
	}

	lo, hi := 0.0, 0.0
	bounded := cfg.tlim != nil
	if bounded {
		lo = float64(cfg.tlim[0].UnixNano()) / 1e9
		hi = float64(cfg.tlim[1].UnixNano()) / 1e9
	}

	first, last := 0, 0
	for i, ts := range times {
		if bounded && (ts < lo || ts > hi) {
			continue
		}
		if first == 0 {
			first = i + 1
		}
		last = i + 1
	}
	if first == 0 {
		if bounded {
			cfg.logger.Warn("no blocks within requested time range",
				zap.Time("lo", cfg.tlim[0]),
				zap.Time("hi", cfg.tlim[1]),
				zap.Int("available", nblocks))
		} else {
			cfg.logger.Warn("file holds no blocks")
		}
		return blockRange{}, false
	}
	return blockRange{first: first, last: last}, true
}

// resolveDistanceWindow maps the configured distance selection onto
// channel indices. dists holds the physical position of every stored
// channel in metres. The second return value is false when no channel
// position falls within the requested range.
func resolveDistanceWindow(dists []float64, cfg *config) (channelRange, bool) {
	first, last := 0, 0
	for i, d := range dists {
		if cfg.xlim != nil && (d < cfg.xlim[0] || d > cfg.xlim[1]) {
			continue
		}
		if first == 0 {
			first = i + 1
		}
		last = i + 1
	}
	if first == 0 {
		if cfg.xlim != nil {
			cfg.logger.Warn("no channels within requested distance range",
				zap.Float64("lo", cfg.xlim[0]),
				zap.Float64("hi", cfg.xlim[1]),
				zap.Int("available", len(dists)))
		} else {
			cfg.logger.Warn("zone holds no channels")
		}
		return channelRange{}, false
	}
	return channelRange{first: first, last: last, stride: cfg.stride}, true
}
