package diagnose_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptiveflow/zbdiag/internal/diagnose"
	"github.com/adaptiveflow/zbdiag/internal/errors"
)

const telemetryHeader = "time,flow,boost,pwm,fan_pct,dynz_active\n"

func TestSummarizeTelemetryCSV(t *testing.T) {
	csv := telemetryHeader +
		"1.0,8.2,3.0,0.60,40,0\n" +
		"2.0,9.1,4.5,0.70,60,1\n" +
		"3.0,7.5,2.0,0.55,50,0\n" +
		"4.0,10.0,5.0,0.80,50,1\n"

	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, sum.SampleCount)
	assert.InDelta(t, 8.7, sum.FlowMean, 1e-9)
	assert.InDelta(t, 10.0, sum.FlowMax, 1e-9)
	assert.InDelta(t, 3.625, sum.BoostMean, 1e-9)
	assert.InDelta(t, 5.0, sum.BoostMax, 1e-9)
	assert.InDelta(t, 0.6625, sum.DutyMean, 1e-9)
	assert.InDelta(t, 0.80, sum.DutyMax, 1e-9)
	assert.InDelta(t, 50.0, sum.FanMean, 1e-9)
	assert.InDelta(t, 40.0, sum.FanMin, 1e-9)
	assert.InDelta(t, 60.0, sum.FanMax, 1e-9)
	assert.InDelta(t, 50.0, sum.DynZActivePct, 1e-9)
}

func TestSummarizeTelemetryCSVFanOscillation(t *testing.T) {
	flat := telemetryHeader +
		"1,8,0,0.5,35,0\n" +
		"2,8,0,0.5,35,0\n" +
		"3,8,0,0.5,35,0\n"
	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(flat))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sum.FanOscillation, 1e-12)

	swing := telemetryHeader +
		"1,8,0,0.5,10,0\n" +
		"2,8,0,0.5,40,0\n" +
		"3,8,0,0.5,10,0\n"
	sum, err = diagnose.SummarizeTelemetryCSV(strings.NewReader(swing))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, sum.FanOscillation, 1e-12)
}

func TestSummarizeTelemetryCSVSingleSampleOscillationZero(t *testing.T) {
	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(telemetryHeader + "1,8,0,0.5,35,0\n"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sum.FanOscillation, 1e-12)
}

func TestSummarizeTelemetryCSVPerColumnTolerance(t *testing.T) {
	// A blank flow cell drops that cell from the flow aggregate only; the
	// row's fan and dynz values still count.
	csv := telemetryHeader +
		"1,8.0,1.0,0.5,40,1\n" +
		"2,,1.0,0.5,60,1\n" +
		"3,junk,1.0,0.5,50,1\n"

	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.SampleCount)
	assert.InDelta(t, 8.0, sum.FlowMean, 1e-9)
	assert.InDelta(t, 50.0, sum.FanMean, 1e-9)
	assert.InDelta(t, 100.0, sum.DynZActivePct, 1e-9)
}

func TestSummarizeTelemetryCSVHeaderOnly(t *testing.T) {
	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(telemetryHeader))
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.True(t, errors.IsCode(err, diagnose.ErrCSVNoRows))
	assert.NotEmpty(t, errors.HintsOf(err))
}

func TestSummarizeTelemetryCSVEmptyFile(t *testing.T) {
	_, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, diagnose.ErrCSVNoRows))
}

func TestSummarizeTelemetryCSVZeroRowDistinctFromEmpty(t *testing.T) {
	// One data row of all zeros is a real, measured summary; a header-only
	// file is not.
	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(telemetryHeader + "1,0,0,0,0,0\n"))
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.SampleCount)
}

func TestSummarizeTelemetryCSVMissingColumn(t *testing.T) {
	csv := "time,flow,boost,pwm,fan_pct\n1,8,0,0.5,35\n"
	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.True(t, errors.IsCode(err, diagnose.ErrCSVFormat))

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"dynz_active"}, appErr.GetData())
}

func TestSummarizeTelemetryCSVFileMissing(t *testing.T) {
	sum, err := diagnose.SummarizeTelemetryCSVFile("/nonexistent/print.csv")
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.True(t, errors.IsCode(err, diagnose.ErrCSVUnavailable))
}

func TestSummarizeTelemetryCSVShortRowTolerated(t *testing.T) {
	csv := telemetryHeader +
		"1,8.0,1.0,0.5,40,0\n" +
		"2,9.0\n" +
		"3,7.0,1.0,0.5,44,0\n"

	sum, err := diagnose.SummarizeTelemetryCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, sum.SampleCount)
	assert.InDelta(t, 8.0, sum.FlowMean, 1e-9)
	assert.InDelta(t, 42.0, sum.FanMean, 1e-9)
	// The short row has no fan sample, so oscillation spans the two parsed
	// fan values only.
	assert.InDelta(t, 4.0, sum.FanOscillation, 1e-9)
}
