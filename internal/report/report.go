// Package report renders analysis results as a plain-text report. Lines that
// matter to the orchestration hook carry stable markers ("Assessment:",
// "Issues Found:") so it can lift short summaries without re-running the
// analysis.
package report

import (
	"fmt"
	"io"

	"github.com/adaptiveflow/zbdiag/internal/diagnose"
	"github.com/adaptiveflow/zbdiag/internal/errors"
)

const banner = "============================================================"

// Markers recognized by collaborators scraping the report.
const (
	MarkerAssessment = "Assessment:"
	MarkerIssues     = "Issues Found:"
)

// Renderer writes report sections to w. Rendering never fails the analysis:
// write errors are ignored the way fmt printing to stdout is.
type Renderer struct {
	w  io.Writer
	th diagnose.Thresholds
}

func New(w io.Writer, th diagnose.Thresholds) *Renderer {
	return &Renderer{w: w, th: th}
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) section(title string) {
	r.printf("\n%s\n%s\n%s\n\n", banner, title, banner)
}

// Header prints the report banner.
func (r *Renderer) Header() {
	r.printf("%s\nZ-BANDING DIAGNOSTIC TOOL\nKlipper Adaptive Flow\n%s\n", banner, banner)
}

// Footer prints the closing pointer.
func (r *Renderer) Footer() {
	r.printf("\n%s\nFor more help, see: docs/TROUBLESHOOTING_ZBANDING.md\n%s\n", banner, banner)
}

// DeviceLog renders the device log section: the summary when available,
// otherwise the per-taxonomy diagnostic text for the failure.
func (r *Renderer) DeviceLog(path string, sum *diagnose.DeviceLogSummary, err error) {
	r.section("KLIPPY LOG ANALYSIS: " + path)

	if err != nil {
		r.sourceFailure(err)
		return
	}

	r.printf("TEMPERATURE ANALYSIS\n")
	r.printf("   Target: %.1f°C\n", sum.TargetTemp)
	r.printf("   Actual: %.1f°C (±%.2f°C)\n", sum.ActualMean, sum.ActualStdev)
	r.printf("   Range:  %.1f°C - %.1f°C\n", sum.ActualMin, sum.ActualMax)

	switch diagnose.Classify(sum.TempRange, r.th.TempRange) {
	case diagnose.SeverityOK:
		r.printf("   %s EXCELLENT - temperature very stable (range %.1f°C)\n", MarkerAssessment, sum.TempRange)
	case diagnose.SeverityWarning:
		r.printf("   %s MODERATE - some temperature variation (range %.1f°C)\n", MarkerAssessment, sum.TempRange)
		r.printf("      -> Consider PID re-tuning: PID_CALIBRATE HEATER=extruder TARGET=%d\n", int(sum.TargetTemp))
	case diagnose.SeverityCritical:
		r.printf("   %s CRITICAL - excessive temperature variation (range %.1f°C)\n", MarkerAssessment, sum.TempRange)
		r.printf("      -> PID tuning required: PID_CALIBRATE HEATER=extruder TARGET=%d\n", int(sum.TargetTemp))
	}

	r.printf("\nHEATER PERFORMANCE\n")
	r.printf("   PWM (avg): %.1f%%\n", sum.DutyMean*100)
	r.printf("   PWM (max): %.1f%%\n", sum.DutyMax*100)
	r.printf("   Thermal lag (avg): %.1f°C\n", sum.LagMean)
	r.printf("   Thermal lag (max): %.1f°C\n", sum.LagMax)

	switch diagnose.Classify(sum.DutyMean, r.th.DutyMean) {
	case diagnose.SeverityOK:
		r.printf("   %s GOOD - heater has headroom (avg PWM %.1f%%)\n", MarkerAssessment, sum.DutyMean*100)
	case diagnose.SeverityWarning:
		r.printf("   %s WARNING - heater working hard (avg PWM %.1f%%)\n", MarkerAssessment, sum.DutyMean*100)
		r.printf("      -> Consider reducing flow_k or print speed\n")
		r.printf("      -> Check heater cartridge (40W or 60W recommended)\n")
	case diagnose.SeverityCritical:
		r.printf("   %s CRITICAL - heater saturated (avg PWM %.1f%%)\n", MarkerAssessment, sum.DutyMean*100)
		r.printf("      -> Reduce print speed or flow rate immediately\n")
		r.printf("      -> Verify heater hardware is functioning\n")
	}

	switch diagnose.Classify(sum.LagMean, r.th.LagMean) {
	case diagnose.SeverityOK:
		r.printf("   %s GOOD - thermal response is quick (avg lag %.1f°C)\n", MarkerAssessment, sum.LagMean)
	case diagnose.SeverityWarning:
		r.printf("   %s WARNING - thermal lag present (avg lag %.1f°C)\n", MarkerAssessment, sum.LagMean)
		r.printf("      -> Heater struggling to keep up with demand\n")
		r.printf("      -> Consider increasing ramp_rate_rise in config\n")
	case diagnose.SeverityCritical:
		r.printf("   %s CRITICAL - severe thermal lag (avg lag %.1f°C)\n", MarkerAssessment, sum.LagMean)
		r.printf("      -> Heater cannot keep up with thermal demand\n")
		r.printf("      -> Reduce flow_k, increase max_boost, or reduce speed\n")
	}

	r.printf("\nADAPTIVE FLOW STATUS\n")
	if sum.AddOnDetected {
		r.printf("   Adaptive Flow modules detected in config\n")
	} else {
		r.printf("   Adaptive Flow modules NOT detected\n")
		r.printf("      -> Layer issues likely not related to Adaptive Flow\n")
		r.printf("      -> Check mechanical components (Z-axis, belts, frame)\n")
	}
}

// Telemetry renders the CSV section.
func (r *Renderer) Telemetry(path string, sum *diagnose.TelemetrySummary, err error) {
	r.section("CSV LOG ANALYSIS: " + path)

	if err != nil {
		r.sourceFailure(err)
		return
	}

	r.printf("PRINT SESSION SUMMARY\n")
	r.printf("   Data points: %d\n", sum.SampleCount)
	r.printf("\n   Flow (mm³/s):\n      Avg: %.1f, Max: %.1f\n", sum.FlowMean, sum.FlowMax)
	r.printf("\n   Temperature boost (°C):\n      Avg: %.1f, Max: %.1f\n", sum.BoostMean, sum.BoostMax)
	r.printf("\n   Heater PWM:\n      Avg: %.1f%%, Max: %.1f%%\n", sum.DutyMean*100, sum.DutyMax*100)
	r.printf("\n   Cooling fan:\n      Avg: %.0f%%, Range: %.0f-%.0f%%\n", sum.FanMean, sum.FanMin, sum.FanMax)

	if diagnose.Classify(sum.FanOscillation, r.th.FanOscillation) != diagnose.SeverityOK {
		r.printf("      %s WARNING - fan oscillating significantly (avg change %.1f%%)\n", MarkerAssessment, sum.FanOscillation)
		r.printf("         -> May cause thermal cycling and layer inconsistencies\n")
		r.printf("         -> Consider disabling Smart Cooling or tuning sc_flow_gate\n")
	} else {
		r.printf("      %s fan behavior looks normal\n", MarkerAssessment)
	}

	r.printf("\n   DynZ activation:\n      Active: %.1f%% of print time\n", sum.DynZActivePct)
	switch {
	case diagnose.Classify(sum.DynZActivePct, r.th.DynZActive) != diagnose.SeverityOK:
		r.printf("      %s WARNING - DynZ active more than expected\n", MarkerAssessment)
		r.printf("         -> May indicate heater struggling or geometry with many transitions\n")
		r.printf("         -> Consider increasing dynz_activate_score threshold\n")
	case sum.DynZActivePct > 0:
		r.printf("      %s normal DynZ activation for challenging geometry\n", MarkerAssessment)
	default:
		r.printf("      %s no DynZ activation (no stress detected)\n", MarkerAssessment)
	}
}

// Diagnosis renders the recommendations section: the mechanical-causes
// diagnosis, the numbered recommendation list, or the positive no-issues
// result with the generic mechanical checklist.
func (r *Renderer) Diagnosis(d diagnose.Diagnosis) {
	r.section("RECOMMENDATIONS")

	if d.Mechanical {
		r.printf("DIAGNOSIS: issue is NOT related to Adaptive Flow\n\n")
		r.printf("Most likely causes (in order of probability):\n\n")
		for i, cause := range d.Causes {
			r.printf("%d. %s (%d%% of cases)\n", i+1, cause.Name, cause.Weight)
			r.printf("   Finding: %s\n", cause.Finding)
			for _, action := range cause.Actions {
				r.printf("   -> %s\n", action)
			}
			r.printf("\n")
		}
		return
	}

	if len(d.Recommendations) == 0 {
		r.printf("%s no critical issues detected in Adaptive Flow system\n\n", MarkerAssessment)
		r.printf("If you're still experiencing layer inconsistencies, check:\n")
		r.printf("  - Z-axis mechanical components (lead screw, linear rails)\n")
		r.printf("  - Belt tension and condition\n")
		r.printf("  - Frame rigidity and squareness\n")
		r.printf("  - Pressure advance calibration for this filament\n")
		return
	}

	r.printf("%s %d\n\n", MarkerIssues, len(d.Recommendations))
	for i, rec := range d.Recommendations {
		r.printf("%d. [%s] %s\n", i+1, rec.Priority, rec.Issue)
		r.printf("   Reason: %s\n", rec.Reason)
		r.printf("   Action: %s\n\n", rec.Action)
	}
}

// DeviceLogMissing renders the warning for an undiscoverable klippy.log.
func (r *Renderer) DeviceLogMissing() {
	r.printf("\nKlippy log not found\n")
	r.printf("    Searched: /tmp/klippy.log, ~/printer_data/logs/klippy.log\n")
}

// TelemetryMissing renders the warning for a missing Adaptive Flow CSV.
func (r *Renderer) TelemetryMissing() {
	r.printf("\nNo CSV logs found from Adaptive Flow\n")
	r.printf("    Searched: ~/printer_data/logs/adaptive_flow/\n")
	r.printf("    To enable: Add AT_START MATERIAL=<material> to PRINT_START macro\n")
}

// NoInput renders the nothing-to-analyze failure.
func (r *Renderer) NoInput() {
	r.printf("\nNo log data available for analysis.\n")
	r.printf("Please provide a klippy.log or CSV log path.\n")
}

// sourceFailure renders the diagnostic text for an unavailable, empty or
// incompatible source, including any procedural hints the summarizer
// attached.
func (r *Renderer) sourceFailure(err error) {
	r.printf("%s\n", err.Error())
	if !errors.IsCode(err, diagnose.ErrLogNoReadings) && !errors.IsCode(err, diagnose.ErrCSVNoRows) {
		return
	}
	if hints := errors.HintsOf(err); len(hints) > 0 {
		r.printf("   Possible causes:\n")
		for i, hint := range hints {
			r.printf("   %d. %s\n", i+1, hint)
		}
	}
}
