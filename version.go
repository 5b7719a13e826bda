package febus

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Version is the three-part file format version written by the instrument.
type Version struct {
	Major, Minor, Patch int
}

// Version thresholds for schema dispatch. Files older than versionKnownMin
// or at versionKnownMax and beyond are processed with a warning, using the
// nearest defined branch.
var (
	versionDefault         = Version{1, 0, 0}
	versionKnownMin        = Version{1, 0, 0}
	versionExplicitOverlap = Version{2, 3, 13}
	versionKnownMax        = Version{3, 0, 0}
)

// ParseVersion parses a "major.minor.patch" string. Missing trailing parts
// default to zero, so "2.3" parses as 2.3.0.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("malformed version %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("malformed version %q", s)
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return sign(v.Major - o.Major)
	case v.Minor != o.Minor:
		return sign(v.Minor - o.Minor)
	default:
		return sign(v.Patch - o.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// String returns the dotted form of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// schema is the resolved two-variant file layout. It carries everything
// that depends on the format version, so the version is tested exactly
// once and the variant is threaded through the remaining stages.
type schema struct {
	version Version

	// Dataset names under the zone node for each physical quantity.
	strainName     string
	strainRateName string

	// explicitOverlap selects between an implicit 100% block overlap and
	// the BlockOverlap attribute written by newer firmware.
	explicitOverlap bool

	// samplingRateScale is the stored-unit count per Hz of the
	// SamplingRate attribute (mHz for the original schema, µHz for the
	// renamed one).
	samplingRateScale float64
}

var (
	schemaV1 = schema{
		strainName:        "Strain",
		strainRateName:    "StrainRate",
		explicitOverlap:   false,
		samplingRateScale: 1e3,
	}
	schemaV2 = schema{
		strainName:        "Strain [nStrain]",
		strainRateName:    "Strain Rate [nStrain|s]",
		explicitOverlap:   true,
		samplingRateScale: 1e6,
	}
)

// resolveVersion determines the file version from an explicit override,
// the source node's Version attribute, or the 1.0.0 default when the
// attribute is absent. Parsing defects never abort extraction: a malformed
// string warns and falls back to the default.
func resolveVersion(override string, attrs map[string]interface{}, logger *zap.Logger) Version {
	raw := override
	if raw == "" {
		if v, ok := attrs["Version"]; ok {
			raw, _ = v.(string)
		}
	}
	if raw == "" {
		return versionDefault
	}
	v, err := ParseVersion(raw)
	if err != nil {
		logger.Warn("unparseable file version, assuming default",
			zap.String("version", raw),
			zap.String("default", versionDefault.String()))
		return versionDefault
	}
	return v
}

// resolveSchema dispatches the version into one of the two known layout
// variants. Versions outside the known range warn but are still processed
// with the nearest branch.
func resolveSchema(v Version, logger *zap.Logger) schema {
	if v.Compare(versionKnownMin) < 0 || v.Compare(versionKnownMax) >= 0 {
		logger.Warn("file version outside supported range, continuing with nearest schema",
			zap.String("version", v.String()),
			zap.String("supported_min", versionKnownMin.String()),
			zap.String("supported_max", versionKnownMax.String()))
	}
	s := schemaV1
	if v.Compare(versionExplicitOverlap) >= 0 {
		s = schemaV2
	}
	s.version = v
	return s
}
