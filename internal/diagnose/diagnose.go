// Package diagnose implements the Z-banding analysis engine. It reduces two
// telemetry sources produced during a print - the Klipper device log and the
// Adaptive Flow per-print CSV - to summary statistics, classifies each metric
// against fixed thresholds, and synthesizes an ordered list of probable
// causes with corrective actions.
//
// The engine is synchronous and allocation-light: each call reads a bounded
// window of input and returns fresh values with no shared state, so
// independent analyses may run concurrently.
package diagnose

const (
	// DefaultSampleLimit bounds how many status lines of the device log are
	// summarized, so arbitrarily large logs stay cheap to analyze. Only the
	// most recent window matters: it models the current print.
	DefaultSampleLimit = 1000

	// printingTempCutoff excludes idle/standby heater states and
	// non-extruder heaters from the statistics. A heuristic: targets above
	// 150°C are almost certainly an extruder mid-print.
	printingTempCutoff = 150.0
)

// HeaterReading is one decoded heater status sample: target and actual
// temperature in °C and the heater duty fraction in [0,1].
type HeaterReading struct {
	Target float64
	Actual float64
	Duty   float64
}

// DeviceLogSummary aggregates the windowed, print-relevant heater readings
// of a device log. Lag values are signed: negative lag means the actual
// temperature overshot the target and is deliberately not clamped.
type DeviceLogSummary struct {
	SampleCount   int
	TargetTemp    float64
	ActualMean    float64
	ActualStdev   float64
	ActualMin     float64
	ActualMax     float64
	TempRange     float64 // ActualMax - ActualMin
	DutyMean      float64
	DutyMax       float64
	LagMean       float64
	LagMax        float64
	AddOnDetected bool
}

// TelemetrySummary aggregates the Adaptive Flow CSV samples of one print.
type TelemetrySummary struct {
	SampleCount    int
	FlowMean       float64
	FlowMax        float64
	BoostMean      float64
	BoostMax       float64
	DutyMean       float64
	DutyMax        float64
	FanMean        float64
	FanMin         float64
	FanMax         float64
	FanOscillation float64 // mean |Δfan%| between consecutive samples
	DynZActivePct  float64 // percentage of samples with DynZ active
}

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Recommendation is one corrective action derived from the analysis.
type Recommendation struct {
	Priority Priority
	Issue    string
	Action   string
	Reason   string
}

// MechanicalCause is one hypothesis of the fixed mechanical-causes
// diagnosis, weighted by how often it turns out to be the culprit.
type MechanicalCause struct {
	Name    string
	Weight  int // illustrative probability weight, percent
	Finding string
	Actions []string
}

// Diagnosis is the synthesizer output. When Mechanical is set the add-on was
// never active, the layer issues cannot be flow-related, and Causes carries
// the fixed mechanical hypotheses instead of data-driven recommendations.
type Diagnosis struct {
	Mechanical      bool
	Causes          []MechanicalCause
	Recommendations []Recommendation
}
