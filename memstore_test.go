package febus

import (
	"fmt"
	"math"
)

// In-memory store fake standing in for HDF5 fixtures. Bounds validation
// mirrors the real store: a selection outside the dataset dimensions is
// an error, never a silent truncation.

type memStore struct {
	file *memFile
}

func (s *memStore) Open(string) (File, error) {
	if s.file == nil {
		return nil, fmt.Errorf("no such file")
	}
	return s.file, nil
}

type memFile struct {
	root   *memGroup
	closed int
}

func (f *memFile) Root() Group { return f.root }

func (f *memFile) Close() error {
	f.closed++
	return nil
}

type memGroup struct {
	name     string
	groups   []*memGroup
	datasets []*memDataset
	attrs    map[string]interface{}
}

func (g *memGroup) Name() string { return g.name }

func (g *memGroup) Groups() []Group {
	out := make([]Group, len(g.groups))
	for i, child := range g.groups {
		out[i] = child
	}
	return out
}

func (g *memGroup) Dataset(name string) (Dataset, bool) {
	for _, d := range g.datasets {
		if d.name == name {
			return d, true
		}
	}
	return nil, false
}

func (g *memGroup) Attrs() (map[string]interface{}, error) {
	if g.attrs == nil {
		return map[string]interface{}{}, nil
	}
	return g.attrs, nil
}

type memDataset struct {
	name string
	dims []uint64
	data []float64 // row-major

	reads  int // bulk accesses of any kind
	tamper int // elements dropped from every read result
}

func (d *memDataset) Name() string { return d.name }

func (d *memDataset) Read() ([]float64, error) {
	d.reads++
	return d.withTamper(d.data), nil
}

func (d *memDataset) ReadSlice(start, count []uint64) ([]float64, error) {
	ones := make([]uint64, len(d.dims))
	for i := range ones {
		ones[i] = 1
	}
	return d.ReadHyperslab(start, count, ones)
}

func (d *memDataset) ReadHyperslab(start, count, stride []uint64) ([]float64, error) {
	d.reads++
	n := len(d.dims)
	if len(start) != n || len(count) != n || len(stride) != n {
		return nil, fmt.Errorf("selection rank does not match dataset rank %d", n)
	}
	total := uint64(1)
	for dim := 0; dim < n; dim++ {
		if count[dim] == 0 || stride[dim] == 0 {
			return nil, fmt.Errorf("count and stride must be > 0 in dimension %d", dim)
		}
		last := start[dim] + (count[dim]-1)*stride[dim]
		if last >= d.dims[dim] {
			return nil, fmt.Errorf("selection out of bounds in dimension %d: last=%d size=%d",
				dim, last, d.dims[dim])
		}
		total *= count[dim]
	}

	// Row-major flat strides of the full dataset.
	flat := make([]uint64, n)
	flat[n-1] = 1
	for dim := n - 2; dim >= 0; dim-- {
		flat[dim] = flat[dim+1] * d.dims[dim+1]
	}

	out := make([]float64, 0, total)
	coord := make([]uint64, n)
	for k := uint64(0); k < total; k++ {
		rem := k
		for dim := n - 1; dim >= 0; dim-- {
			coord[dim] = rem % count[dim]
			rem /= count[dim]
		}
		off := uint64(0)
		for dim := 0; dim < n; dim++ {
			off += (start[dim] + coord[dim]*stride[dim]) * flat[dim]
		}
		out = append(out, d.data[off])
	}
	return d.withTamper(out), nil
}

func (d *memDataset) withTamper(values []float64) []float64 {
	if d.tamper > 0 && d.tamper < len(values) {
		return values[:len(values)-d.tamper]
	}
	return values
}

// fixtureSpec describes a synthetic Febus file. The zero value is not
// usable; start from defaultFixture().
type fixtureSpec struct {
	version       string  // "" leaves the Version attribute absent
	overlap       float64 // percent; NaN leaves BlockOverlap absent
	channels      int
	blocks        int
	samplesPB     int     // raw in-block samples (Extent and WholeExtent)
	blockRateRaw  float64 // mHz
	pulseRateRaw  float64 // mHz
	sampleStepMS  float64 // Spacing[1]
	distanceStep  float64 // Spacing[0], m
	distanceZero  float64 // Origin[0], m
	firstBlock    float64 // epoch seconds of block 1
	strain        bool    // store strain instead of strain rate
	datasetName   string  // overrides the schema-derived dataset name
	extraZoneAttr map[string]interface{}
}

// defaultFixture is a well-formed v1 file: block rate 500 mHz (interval
// 2 s, length 4 s at the implicit 100% overlap), 100 Hz sampling, 400 raw
// samples per block, 10 channels 0.8 m apart starting at 100 m, 5 blocks.
func defaultFixture() fixtureSpec {
	return fixtureSpec{
		overlap:      math.NaN(),
		channels:     10,
		blocks:       5,
		samplesPB:    400,
		blockRateRaw: 500,
		pulseRateRaw: 100000,
		sampleStepMS: 10,
		distanceStep: 0.8,
		distanceZero: 100,
		firstBlock:   1700000000,
	}
}

// fixtureV2 is defaultFixture rewritten by post-2.3.13 firmware: explicit
// 80% overlap shortens the block to 3.6 s, so 360 raw samples per block.
func fixtureV2() fixtureSpec {
	fs := defaultFixture()
	fs.version = "2.3.21"
	fs.overlap = 80
	fs.samplesPB = 360
	return fs
}

// sampleValue encodes a raw element's coordinates so tests can verify the
// assembly reordering exactly.
func sampleValue(channel, sample, block int) float64 {
	return float64(channel)*1e6 + float64(sample)*1e3 + float64(block)
}

// buildFixture assembles the root → sensor → source → {time, zone} tree.
func buildFixture(fs fixtureSpec) *memFile {
	sourceAttrs := map[string]interface{}{
		"WholeExtent": []int32{0, int32(fs.channels - 1), 0, int32(fs.samplesPB - 1)},
	}
	if fs.version != "" {
		sourceAttrs["Version"] = fs.version
	}

	zoneAttrs := map[string]interface{}{
		"SamplingRes":    float64(400), // 4 m
		"BlockRate":      fs.blockRateRaw,
		"PulseRateFreq":  fs.pulseRateRaw,
		"SamplingRate":   float64(100000), // scale depends on schema
		"DerivationTime": float64(50),     // 0.05 s
		"DataDomain":     int32(100),
		"Extent":         []int32{0, int32(fs.channels - 1), 0, int32(fs.samplesPB - 1)},
		"Origin":         []float64{fs.distanceZero, 0},
		"Spacing":        []float64{fs.distanceStep, fs.sampleStepMS},
	}
	if !math.IsNaN(fs.overlap) {
		zoneAttrs["BlockOverlap"] = fs.overlap
	}
	for k, v := range fs.extraZoneAttr {
		zoneAttrs[k] = v
	}

	name := fs.datasetName
	if name == "" {
		sch := schemaV1
		if fs.version != "" {
			if v, err := ParseVersion(fs.version); err == nil && v.Compare(versionExplicitOverlap) >= 0 {
				sch = schemaV2
			}
		}
		name = sch.strainRateName
		if fs.strain {
			name = sch.strainName
		}
	}

	raw := make([]float64, 0, fs.channels*fs.samplesPB*fs.blocks)
	for c := 0; c < fs.channels; c++ {
		for s := 0; s < fs.samplesPB; s++ {
			for b := 0; b < fs.blocks; b++ {
				raw = append(raw, sampleValue(c, s, b))
			}
		}
	}

	times := make([]float64, fs.blocks)
	interval := 1000 / fs.blockRateRaw
	for b := range times {
		times[b] = fs.firstBlock + float64(b)*interval
	}

	zone := &memGroup{
		name:  "Zone1",
		attrs: zoneAttrs,
		datasets: []*memDataset{{
			name: name,
			dims: []uint64{uint64(fs.channels), uint64(fs.samplesPB), uint64(fs.blocks)},
			data: raw,
		}},
	}
	source := &memGroup{
		name:   "Source1",
		attrs:  sourceAttrs,
		groups: []*memGroup{zone},
		datasets: []*memDataset{{
			name: "time",
			dims: []uint64{uint64(fs.blocks)},
			data: times,
		}},
	}
	sensor := &memGroup{name: "00000001", groups: []*memGroup{source}}
	return &memFile{root: &memGroup{name: "/", groups: []*memGroup{sensor}}}
}

func (f *memFile) signal() *memDataset {
	zone := f.root.groups[0].groups[0].groups[0]
	return zone.datasets[0]
}

func (f *memFile) timeDataset() *memDataset {
	source := f.root.groups[0].groups[0]
	for _, d := range source.datasets {
		if d.name == "time" {
			return d
		}
	}
	return nil
}
