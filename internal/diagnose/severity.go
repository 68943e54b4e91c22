package diagnose

import "math"

// Severity is the result of classifying one scalar metric against its
// warning and critical tiers. Ordering matters: higher is worse.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "OK"
	}
}

// NoTier marks an absent tier. Comparison is strict >, so a +Inf bound can
// never be exceeded and single-threshold metrics fall through it.
var NoTier = math.Inf(1)

// Tier holds the warning and critical bounds for one higher-is-worse metric.
type Tier struct {
	Warning  float64
	Critical float64
}

// Classify maps a measured value to a severity. Purely a function of the
// current scalar and the two bounds: no hysteresis, no history. Both
// comparisons are strict, so a value exactly at a bound does not breach it.
func Classify(value float64, t Tier) Severity {
	switch {
	case value > t.Critical:
		return SeverityCritical
	case value > t.Warning:
		return SeverityWarning
	default:
		return SeverityOK
	}
}
