package diagnose_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptiveflow/zbdiag/internal/diagnose"
	"github.com/adaptiveflow/zbdiag/internal/errors"
)

func statsLine(target, temp, pwm float64) string {
	return fmt.Sprintf("Stats 100.0: gcodein=0 extruder: target=%.1f temp=%.1f pwm=%.2f", target, temp, pwm)
}

func TestSummarizeDeviceLog(t *testing.T) {
	log := strings.Join([]string{
		"Klipper state: Ready",
		statsLine(210, 209.5, 0.50),
		statsLine(210, 210.0, 0.40),
		statsLine(210, 208.0, 0.95),
		"Loaded module extruder_monitor",
	}, "\n")

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.SampleCount)
	assert.InDelta(t, 210.0, sum.TargetTemp, 1e-9)
	assert.InDelta(t, 209.1666, sum.ActualMean, 1e-3)
	assert.InDelta(t, 2.0, sum.TempRange, 1e-9)
	assert.InDelta(t, 208.0, sum.ActualMin, 1e-9)
	assert.InDelta(t, 210.0, sum.ActualMax, 1e-9)
	assert.InDelta(t, 0.6166, sum.DutyMean, 1e-3)
	assert.InDelta(t, 0.95, sum.DutyMax, 1e-9)
	assert.InDelta(t, 2.0, sum.LagMax, 1e-9)
	assert.True(t, sum.AddOnDetected)
}

func TestSummarizeDeviceLogTempRangeConsistency(t *testing.T) {
	var lines []string
	temps := []float64{208.2, 210.4, 209.0, 207.9, 210.1}
	for _, temp := range temps {
		lines = append(lines, statsLine(210, temp, 0.5))
	}

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(strings.Join(lines, "\n")), 0)
	require.NoError(t, err)
	assert.InDelta(t, sum.ActualMax-sum.ActualMin, sum.TempRange, 1e-12)
	assert.GreaterOrEqual(t, sum.TempRange, 0.0)
}

func TestSummarizeDeviceLogOvershootKeepsNegativeLag(t *testing.T) {
	log := statsLine(210, 212.0, 0.1) + "\n" + statsLine(210, 211.0, 0.1)

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.5, sum.LagMean, 1e-9)
	assert.InDelta(t, -1.0, sum.LagMax, 1e-9)
}

func TestSummarizeDeviceLogRelevanceFilter(t *testing.T) {
	// Standby and bed-level targets must not skew the statistics; exactly
	// the readings above the cutoff are retained.
	log := strings.Join([]string{
		statsLine(0, 24.9, 0.0),
		statsLine(150, 149.8, 0.2), // at the cutoff, excluded
		statsLine(210, 209.0, 0.5),
		statsLine(210, 209.4, 0.5),
	}, "\n")

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SampleCount)
	assert.InDelta(t, 209.2, sum.ActualMean, 1e-9)
}

func TestSummarizeDeviceLogTailWindow(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(statsLine(210, 205.0, 0.5)) // old, outside the window
		sb.WriteString("\n")
	}
	for i := 0; i < 10; i++ {
		sb.WriteString(statsLine(210, 210.0, 0.5))
		sb.WriteString("\n")
	}

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(sb.String()), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, sum.SampleCount)
	assert.InDelta(t, 0.0, sum.TempRange, 1e-9)
	assert.InDelta(t, 210.0, sum.ActualMean, 1e-9)
}

func TestSummarizeDeviceLogWindowLargerThanLog(t *testing.T) {
	log := statsLine(210, 209.0, 0.5) + "\n" + statsLine(210, 210.0, 0.5)

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 1000)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SampleCount)
}

func TestSummarizeDeviceLogNoReadings(t *testing.T) {
	log := "Klipper state: Ready\n" + statsLine(0, 25.0, 0.0)

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.True(t, errors.IsCode(err, diagnose.ErrLogNoReadings))
	assert.NotEmpty(t, errors.HintsOf(err))
}

func TestSummarizeDeviceLogAddOnScanCoversFullLog(t *testing.T) {
	// The add-on token sits outside the stats window; detection must still
	// see it because the presence scan covers the whole stream.
	var sb strings.Builder
	sb.WriteString("Config: [gcode_interceptor]\n")
	for i := 0; i < 20; i++ {
		sb.WriteString(statsLine(210, 209.5, 0.5))
		sb.WriteString("\n")
	}

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(sb.String()), 5)
	require.NoError(t, err)
	assert.True(t, sum.AddOnDetected)
}

func TestSummarizeDeviceLogMalformedBytes(t *testing.T) {
	log := statsLine(210, 209.5, 0.5) + "\n\xff\xfe garbage \x00 bytes\n" + statsLine(210, 209.7, 0.5)

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SampleCount)
}

func TestSummarizeDeviceLogOverlongLineSkipped(t *testing.T) {
	// One line far beyond the scan buffer must be dropped, not fail the scan.
	overlong := "Stats spam " + strings.Repeat("x", 2<<20)
	log := strings.Join([]string{
		statsLine(210, 209.5, 0.5),
		overlong,
		statsLine(210, 209.7, 0.5),
	}, "\n")

	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(log), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.SampleCount)
}

func TestSummarizeDeviceLogFileMissing(t *testing.T) {
	sum, err := diagnose.SummarizeDeviceLogFile("/nonexistent/klippy.log", 0)
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.True(t, errors.IsCode(err, diagnose.ErrLogUnavailable))
}

func TestSummarizeDeviceLogSingleReadingStdevZero(t *testing.T) {
	sum, err := diagnose.SummarizeDeviceLog(strings.NewReader(statsLine(210, 209.5, 0.5)), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sum.ActualStdev, 1e-12)
}
