package febus

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a single extraction call.
type Option func(*config)

type config struct {
	tlim    *[2]time.Time
	blocks  *[2]int
	xlim    *[2]float64
	stride  int
	zone    int
	source  int
	header  bool
	version string
	logger  *zap.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		stride: 1,
		zone:   1,
		source: 1,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// validate enforces the call contract before any file access.
func (c *config) validate() error {
	if c.tlim != nil && c.blocks != nil {
		return validationErrorf("time range and block range are mutually exclusive")
	}
	if c.tlim != nil && c.tlim[1].Before(c.tlim[0]) {
		return validationErrorf("time range end %v precedes start %v", c.tlim[1], c.tlim[0])
	}
	if c.blocks != nil && c.blocks[1] < c.blocks[0] {
		return validationErrorf("block range end %d precedes start %d", c.blocks[1], c.blocks[0])
	}
	if c.xlim != nil && c.xlim[1] < c.xlim[0] {
		return validationErrorf("distance range end %g precedes start %g", c.xlim[1], c.xlim[0])
	}
	if c.stride < 1 {
		return validationErrorf("decimation stride %d, must be at least 1", c.stride)
	}
	if c.zone != 1 {
		return validationErrorf("zone %d selected, only zone 1 is supported", c.zone)
	}
	if c.source != 1 {
		return validationErrorf("source %d selected, only source 1 is supported", c.source)
	}
	return nil
}

// WithTimeRange selects the blocks whose start timestamp falls within
// [lo, hi]. Mutually exclusive with WithBlocks. The default is all blocks.
func WithTimeRange(lo, hi time.Time) Option {
	return func(c *config) {
		c.tlim = &[2]time.Time{lo, hi}
	}
}

// WithBlocks selects blocks by 1-based index, first through last
// inclusive. Indices outside the available range are warned about and
// passed through to the store unclamped. Mutually exclusive with
// WithTimeRange.
func WithBlocks(first, last int) Option {
	return func(c *config) {
		c.blocks = &[2]int{first, last}
	}
}

// WithDistanceRange selects the channels whose physical position in
// metres falls within [lo, hi]. The default is all channels.
func WithDistanceRange(lo, hi float64) Option {
	return func(c *config) {
		c.xlim = &[2]float64{lo, hi}
	}
}

// WithDecimation keeps every stride-th channel of the resolved distance
// window. The stride must be at least 1.
func WithDecimation(stride int) Option {
	return func(c *config) {
		c.stride = stride
	}
}

// WithZone selects a zone by 1-based index. Only index 1 is supported.
func WithZone(index int) Option {
	return func(c *config) {
		c.zone = index
	}
}

// WithSource selects a source by 1-based index. Only index 1 is supported.
func WithSource(index int) Option {
	return func(c *config) {
		c.source = index
	}
}

// WithHeaderOnly skips the bulk data read. The returned record carries the
// full metadata and an empty matrix.
func WithHeaderOnly() Option {
	return func(c *config) {
		c.header = true
	}
}

// WithVersion forces the schema branch instead of reading the file's
// Version attribute.
func WithVersion(v string) Option {
	return func(c *config) {
		c.version = v
	}
}

// WithLogger sets the logger that receives extraction warnings. The
// default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
