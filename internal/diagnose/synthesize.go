package diagnose

import "fmt"

// ruleInput is the evidence one rule inspects. Either summary may be nil
// when its source was unavailable or empty.
type ruleInput struct {
	dev *DeviceLogSummary
	tel *TelemetrySummary
	th  Thresholds
}

// rule evaluates one independent predicate and returns a recommendation on
// breach, nil otherwise.
type rule func(in ruleInput) *Recommendation

// rules is evaluated in order and its order is the output order: device-log
// rules before telemetry rules, no re-sort by priority. Keeping this an
// explicit list keeps the evaluation order auditable and each rule
// independently testable.
var rules = []rule{
	tempRangeRule,
	dutySaturationRule,
	thermalLagRule,
	dynzActivationRule,
}

// Synthesize combines the two summaries, either of which may be absent, into
// a diagnosis. When the device log shows the add-on was never active, the
// layer issues cannot be flow-related: the diagnosis short-circuits to the
// fixed mechanical-causes list and telemetry is ignored entirely. An empty
// recommendation list is a positive "no detected issues" result.
func Synthesize(dev *DeviceLogSummary, tel *TelemetrySummary, th Thresholds) Diagnosis {
	if dev != nil && !dev.AddOnDetected {
		return Diagnosis{Mechanical: true, Causes: MechanicalCauses()}
	}

	in := ruleInput{dev: dev, tel: tel, th: th}
	var recs []Recommendation
	for _, r := range rules {
		if rec := r(in); rec != nil {
			recs = append(recs, *rec)
		}
	}
	return Diagnosis{Recommendations: recs}
}

// tempRangeRule fires at any non-OK temperature spread, always HIGH.
func tempRangeRule(in ruleInput) *Recommendation {
	if in.dev == nil || Classify(in.dev.TempRange, in.th.TempRange) == SeverityOK {
		return nil
	}
	return &Recommendation{
		Priority: PriorityHigh,
		Issue:    "Temperature Instability",
		Action:   fmt.Sprintf("PID_CALIBRATE HEATER=extruder TARGET=%d", int(in.dev.TargetTemp)),
		Reason:   fmt.Sprintf("Temperature varying ±%.1f°C (should be <1°C)", in.dev.TempRange),
	}
}

// dutySaturationRule escalates with tier: MEDIUM at warning, HIGH at
// critical. The only escalating rule; the asymmetry with the neighbouring
// rules matches the established diagnostic behavior and is kept as is.
func dutySaturationRule(in ruleInput) *Recommendation {
	if in.dev == nil {
		return nil
	}
	sev := Classify(in.dev.DutyMean, in.th.DutyMean)
	if sev == SeverityOK {
		return nil
	}
	priority := PriorityMedium
	if sev == SeverityCritical {
		priority = PriorityHigh
	}
	return &Recommendation{
		Priority: priority,
		Issue:    "Heater Saturation",
		Action:   "Reduce flow_k or print speed",
		Reason:   fmt.Sprintf("Heater PWM averaging %.1f%% (struggling to keep up)", in.dev.DutyMean*100),
	}
}

// thermalLagRule fires at any non-OK mean lag, always MEDIUM.
func thermalLagRule(in ruleInput) *Recommendation {
	if in.dev == nil || Classify(in.dev.LagMean, in.th.LagMean) == SeverityOK {
		return nil
	}
	return &Recommendation{
		Priority: PriorityMedium,
		Issue:    "Thermal Lag",
		Action:   "Increase ramp_rate_rise or reduce flow demands",
		Reason:   fmt.Sprintf("Temperature lagging %.1f°C behind target", in.dev.LagMean),
	}
}

// dynzActivationRule fires above the single critical bound, strict >, so an
// activation of exactly the bound does not breach.
func dynzActivationRule(in ruleInput) *Recommendation {
	if in.tel == nil || Classify(in.tel.DynZActivePct, in.th.DynZActive) == SeverityOK {
		return nil
	}
	return &Recommendation{
		Priority: PriorityMedium,
		Issue:    "Excessive DynZ Activation",
		Action:   "Increase dynz_activate_score or reduce print speeds",
		Reason:   fmt.Sprintf("DynZ active %.1f%% of print (detecting stress)", in.tel.DynZActivePct),
	}
}

// MechanicalCauses returns the fixed mechanical-cause hypotheses, most
// probable first. The weights are illustrative field experience, not
// measured probabilities.
func MechanicalCauses() []MechanicalCause {
	return []MechanicalCause{
		{
			Name:    "Z-Axis Mechanical Issues",
			Weight:  60,
			Finding: "Lead screw binding or wobble",
			Actions: []string{
				"Manually move Z-axis - it should be smooth",
				"Clean and lubricate lead screw",
				"Verify Z-axis alignment and couplings",
			},
		},
		{
			Name:    "Pressure Advance Tuning",
			Weight:  20,
			Finding: "PA not calibrated for this filament",
			Actions: []string{
				"Run PA calibration test",
				"AT_SET_PA MATERIAL=<material> PA=<value>",
			},
		},
		{
			Name:    "Belt Tension",
			Weight:  10,
			Finding: "Loose or over-tightened belts",
			Actions: []string{
				"Check belt tension (should feel like a guitar string)",
				"Use a belt tension meter if available",
			},
		},
		{
			Name:    "Frame Stability",
			Weight:  10,
			Finding: "Loose frame bolts or flex",
			Actions: []string{
				"Tighten all frame bolts",
				"Check for frame squareness",
			},
		},
	}
}
