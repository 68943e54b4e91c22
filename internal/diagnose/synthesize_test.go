package diagnose_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptiveflow/zbdiag/internal/diagnose"
)

func healthyDeviceSummary() *diagnose.DeviceLogSummary {
	return &diagnose.DeviceLogSummary{
		SampleCount:   100,
		TargetTemp:    210,
		ActualMean:    209.9,
		TempRange:     0.4,
		DutyMean:      0.55,
		DutyMax:       0.70,
		LagMean:       0.1,
		LagMax:        0.8,
		AddOnDetected: true,
	}
}

func healthyTelemetrySummary() *diagnose.TelemetrySummary {
	return &diagnose.TelemetrySummary{
		SampleCount:    500,
		FlowMean:       8.0,
		DutyMean:       0.55,
		FanMean:        40,
		FanOscillation: 2.0,
		DynZActivePct:  5.0,
	}
}

func TestSynthesizeNoIssues(t *testing.T) {
	d := diagnose.Synthesize(healthyDeviceSummary(), healthyTelemetrySummary(), diagnose.DefaultThresholds())
	assert.False(t, d.Mechanical)
	assert.Empty(t, d.Recommendations)
}

func TestSynthesizeMechanicalShortCircuit(t *testing.T) {
	dev := healthyDeviceSummary()
	dev.AddOnDetected = false

	// Telemetry is deliberately pathological; the mechanical diagnosis must
	// ignore it entirely.
	tel := healthyTelemetrySummary()
	tel.DynZActivePct = 95

	d := diagnose.Synthesize(dev, tel, diagnose.DefaultThresholds())
	assert.True(t, d.Mechanical)
	assert.Empty(t, d.Recommendations)
	require.Len(t, d.Causes, 4)

	total := 0
	for _, c := range d.Causes {
		total += c.Weight
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, "Z-Axis Mechanical Issues", d.Causes[0].Name)
	assert.Equal(t, 60, d.Causes[0].Weight)
}

func TestSynthesizeRuleOrder(t *testing.T) {
	dev := healthyDeviceSummary()
	dev.TempRange = 3.0
	dev.DutyMean = 0.90
	dev.LagMean = 4.0
	tel := healthyTelemetrySummary()
	tel.DynZActivePct = 30

	d := diagnose.Synthesize(dev, tel, diagnose.DefaultThresholds())
	require.Len(t, d.Recommendations, 4)

	// Insertion order of the rule list, device-log rules first, never
	// re-sorted by priority.
	assert.Equal(t, "Temperature Instability", d.Recommendations[0].Issue)
	assert.Equal(t, "Heater Saturation", d.Recommendations[1].Issue)
	assert.Equal(t, "Thermal Lag", d.Recommendations[2].Issue)
	assert.Equal(t, "Excessive DynZ Activation", d.Recommendations[3].Issue)
}

func TestSynthesizePriorityTiers(t *testing.T) {
	th := diagnose.DefaultThresholds()

	dev := healthyDeviceSummary()
	dev.TempRange = 1.5 // warning tier, still HIGH
	dev.DutyMean = 0.90 // warning tier, MEDIUM
	dev.LagMean = 6.0   // critical tier, still MEDIUM

	d := diagnose.Synthesize(dev, nil, th)
	require.Len(t, d.Recommendations, 3)
	assert.Equal(t, diagnose.PriorityHigh, d.Recommendations[0].Priority)
	assert.Equal(t, diagnose.PriorityMedium, d.Recommendations[1].Priority)
	assert.Equal(t, diagnose.PriorityMedium, d.Recommendations[2].Priority)

	// Duty saturation is the one rule that escalates at the critical tier.
	dev.DutyMean = 0.96
	d = diagnose.Synthesize(dev, nil, th)
	require.Len(t, d.Recommendations, 3)
	assert.Equal(t, diagnose.PriorityHigh, d.Recommendations[1].Priority)
}

func TestSynthesizeDynZBoundary(t *testing.T) {
	tel := healthyTelemetrySummary()
	tel.DynZActivePct = 20.0

	d := diagnose.Synthesize(nil, tel, diagnose.DefaultThresholds())
	assert.Empty(t, d.Recommendations)

	tel.DynZActivePct = 20.01
	d = diagnose.Synthesize(nil, tel, diagnose.DefaultThresholds())
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, diagnose.PriorityMedium, d.Recommendations[0].Priority)
}

func TestSynthesizeSingleSource(t *testing.T) {
	d := diagnose.Synthesize(nil, nil, diagnose.DefaultThresholds())
	assert.False(t, d.Mechanical)
	assert.Empty(t, d.Recommendations)

	dev := healthyDeviceSummary()
	dev.DutyMean = 0.90
	d = diagnose.Synthesize(dev, nil, diagnose.DefaultThresholds())
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, "Heater Saturation", d.Recommendations[0].Issue)
}

func TestSynthesizeRoundTripScenario(t *testing.T) {
	// Three stats lines: 209.5/0.5, 210.0/0.4, 208.0/0.95 at target 210.
	// Range is 2.0°C, mean duty ~0.617: one HIGH temperature entry and no
	// duty entry.
	log := strings.Join([]string{
		"Config: [extruder_monitor]",
		statsLine(210, 209.5, 0.50),
		statsLine(210, 210.0, 0.40),
		statsLine(210, 208.0, 0.95),
	}, "\n")

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sum.TempRange, 1e-9)
	assert.InDelta(t, 0.6167, sum.DutyMean, 1e-3)

	d := diagnose.Synthesize(sum, nil, diagnose.DefaultThresholds())
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, "Temperature Instability", d.Recommendations[0].Issue)
	assert.Equal(t, diagnose.PriorityHigh, d.Recommendations[0].Priority)
	assert.Contains(t, d.Recommendations[0].Action, "TARGET=210")
}
