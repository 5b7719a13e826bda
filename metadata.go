package febus

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Physical quantities a zone can store, mutually exclusive per file.
const (
	DataTypeStrain     = "strain [nstrain]"
	DataTypeStrainRate = "strain rate [nstrain/s]"
)

// Metadata is the typed, unit-normalized form of the raw instrument
// attributes. All rates are in Hz, durations in seconds, distances in
// metres, regardless of the stored units.
type Metadata struct {
	Version  Version
	DataType string // DataTypeStrain or DataTypeStrainRate

	SamplingRes    float64 // gauge length resolution, m
	BlockRate      float64 // block production rate, Hz
	BlockLength    float64 // duration of one block including overlap, s
	BlockInterval  float64 // duration of new data per block, s
	BlockOverlap   float64 // percent of a block repeating the previous one
	PulseRateFreq  float64 // laser pulse rate, Hz
	SamplingRate   float64 // per-channel sample rate, Hz
	DerivationTime float64 // derivation window, s
	DataDomain     int

	Extent      [4]int     // channel-start, channel-end, sample-start, sample-end
	WholeExtent [4]int     // same bounds before downsampling, from the source node
	Origin      [2]float64 // distance origin m, time origin offset ms
	Spacing     [2]float64 // distance step m, sample step ms

	// SamplesPerBlock is derived from WholeExtent and cross-checked
	// against BlockLength×PulseRateFreq.
	SamplesPerBlock int

	// Extra holds attributes with no normalization rule, verbatim.
	Extra map[string]interface{}
}

// NumChannels returns the stored channel count before any windowing.
func (m *Metadata) NumChannels() int {
	return m.Extent[1] - m.Extent[0] + 1
}

// SamplingInterval returns the time step between consecutive samples in
// seconds.
func (m *Metadata) SamplingInterval() float64 {
	return m.Spacing[1] / 1000
}

// Distances returns the physical position of every stored channel in
// metres, before any windowing or decimation.
func (m *Metadata) Distances() []float64 {
	n := m.NumChannels()
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for j := range out {
		out[j] = m.Origin[0] + float64(m.Extent[0]+j)*m.Spacing[0]
	}
	return out
}

// normalizeAttributes converts the raw zone and source attribute sets into
// a Metadata record. Keys without a rule are retained verbatim in Extra.
// The overlap is resolved first since the BlockRate rule derives
// BlockLength from it.
func normalizeAttributes(zoneAttrs, sourceAttrs map[string]interface{}, sch schema, logger *zap.Logger) (*Metadata, error) {
	m := &Metadata{
		Version:      sch.version,
		BlockOverlap: 100,
		Extra:        make(map[string]interface{}),
	}

	if sch.explicitOverlap {
		if raw, ok := zoneAttrs["BlockOverlap"]; ok {
			f, err := asFloat(raw)
			if err != nil {
				return nil, wrapError("BlockOverlap attribute", err)
			}
			m.BlockOverlap = f
		} else {
			logger.Warn("BlockOverlap attribute absent, assuming 100%",
				zap.String("version", sch.version.String()))
		}
	}

	rules := map[string]func(raw interface{}) error{
		"SamplingRes": func(raw interface{}) error {
			f, err := asFloat(raw)
			m.SamplingRes = f / 100 // cm to m
			return err
		},
		"BlockRate": func(raw interface{}) error {
			f, err := asFloat(raw) // stored in mHz
			if err != nil {
				return err
			}
			if f == 0 {
				return fmt.Errorf("zero BlockRate")
			}
			m.BlockRate = f / 1000
			m.BlockInterval = 1000 / f
			if sch.explicitOverlap {
				m.BlockLength = (100 + m.BlockOverlap) * 10 / f
			} else {
				m.BlockLength = 2000 / f
			}
			return nil
		},
		"PulseRateFreq": func(raw interface{}) error {
			f, err := asFloat(raw) // mHz
			m.PulseRateFreq = f / 1000
			return err
		},
		"SamplingRate": func(raw interface{}) error {
			f, err := asFloat(raw)
			m.SamplingRate = f / sch.samplingRateScale
			return err
		},
		"DerivationTime": func(raw interface{}) error {
			f, err := asFloat(raw) // ms
			m.DerivationTime = f / 1000
			return err
		},
		"DataDomain": func(raw interface{}) error {
			n, err := asInt(raw)
			m.DataDomain = n
			return err
		},
		"Extent": func(raw interface{}) error {
			return asInt4(raw, &m.Extent)
		},
		"Origin": func(raw interface{}) error {
			return asFloat2(raw, &m.Origin)
		},
		"Spacing": func(raw interface{}) error {
			return asFloat2(raw, &m.Spacing)
		},
		"BlockOverlap": func(interface{}) error { return nil }, // resolved above
	}

	for key, raw := range zoneAttrs {
		rule, ok := rules[key]
		if !ok {
			m.Extra[key] = raw
			continue
		}
		if err := rule(raw); err != nil {
			return nil, wrapError(fmt.Sprintf("%s attribute", key), err)
		}
	}

	for key, raw := range sourceAttrs {
		switch key {
		case "WholeExtent":
			if err := asInt4(raw, &m.WholeExtent); err != nil {
				return nil, wrapError("WholeExtent attribute", err)
			}
		case "Version":
			// Consumed by version resolution.
		default:
			m.Extra[key] = raw
		}
	}

	m.SamplesPerBlock = m.WholeExtent[3] - m.WholeExtent[2] + 1

	// Consistency check only: a disagreement means the file header is
	// internally inconsistent, not that extraction must stop. A
	// fractional expectation is itself a disagreement, so no rounding.
	expected := m.BlockLength * m.PulseRateFreq
	if math.Abs(expected-float64(m.SamplesPerBlock)) > 1e-6 {
		logger.Warn("samples per block from WholeExtent disagrees with BlockLength×PulseRateFreq",
			zap.Int("from_whole_extent", m.SamplesPerBlock),
			zap.Float64("from_block_length", expected))
	}

	return m, nil
}

// Numeric coercions for attribute values. The store reports scalars for
// one-element attributes and slices otherwise, in any of the integer or
// float widths the container supports.

func asFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}

func asInt(v interface{}) (int, error) {
	f, err := asFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func asFloatSlice(v interface{}) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		return x, nil
	case []float32:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	case []int:
		out := make([]float64, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out, nil
	default:
		f, err := asFloat(v)
		if err != nil {
			return nil, fmt.Errorf("value %v (%T) is not a numeric sequence", v, v)
		}
		return []float64{f}, nil
	}
}

func asFloat2(v interface{}, dst *[2]float64) error {
	s, err := asFloatSlice(v)
	if err != nil {
		return err
	}
	if len(s) != 2 {
		return fmt.Errorf("expected 2 elements, got %d", len(s))
	}
	dst[0], dst[1] = s[0], s[1]
	return nil
}

func asInt4(v interface{}, dst *[4]int) error {
	s, err := asFloatSlice(v)
	if err != nil {
		return err
	}
	if len(s) != 4 {
		return fmt.Errorf("expected 4 elements, got %d", len(s))
	}
	for i := range dst {
		dst[i] = int(s[i])
	}
	return nil
}
