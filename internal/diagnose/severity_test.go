package diagnose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adaptiveflow/zbdiag/internal/diagnose"
)

func TestClassifyStrictComparison(t *testing.T) {
	th := diagnose.DefaultThresholds()

	tests := []struct {
		name  string
		value float64
		tier  diagnose.Tier
		want  diagnose.Severity
	}{
		{"temp range ok", 0.9, th.TempRange, diagnose.SeverityOK},
		{"temp range at warning bound", 1.0, th.TempRange, diagnose.SeverityOK},
		{"temp range warning", 1.5, th.TempRange, diagnose.SeverityWarning},
		{"temp range at critical bound", 2.0, th.TempRange, diagnose.SeverityWarning},
		{"temp range critical", 2.1, th.TempRange, diagnose.SeverityCritical},
		{"duty ok", 0.60, th.DutyMean, diagnose.SeverityOK},
		{"duty warning", 0.90, th.DutyMean, diagnose.SeverityWarning},
		{"duty critical", 0.96, th.DutyMean, diagnose.SeverityCritical},
		{"lag ok", 2.9, th.LagMean, diagnose.SeverityOK},
		{"lag warning", 4.0, th.LagMean, diagnose.SeverityWarning},
		{"lag critical", 6.0, th.LagMean, diagnose.SeverityCritical},
		{"dynz at bound does not breach", 20.0, th.DynZActive, diagnose.SeverityOK},
		{"dynz just above bound breaches", 20.01, th.DynZActive, diagnose.SeverityCritical},
		{"fan single warning tier", 16.0, th.FanOscillation, diagnose.SeverityWarning},
		{"fan at bound", 15.0, th.FanOscillation, diagnose.SeverityOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnose.Classify(tt.value, tt.tier))
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.Less(t, diagnose.SeverityOK, diagnose.SeverityWarning)
	assert.Less(t, diagnose.SeverityWarning, diagnose.SeverityCritical)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "OK", diagnose.SeverityOK.String())
	assert.Equal(t, "WARNING", diagnose.SeverityWarning.String())
	assert.Equal(t, "CRITICAL", diagnose.SeverityCritical.String())
}

func TestClassifyCustomTier(t *testing.T) {
	// Thresholds are an explicit argument, so boundary experiments need no
	// process-wide state.
	tier := diagnose.Tier{Warning: 10, Critical: 20}
	assert.Equal(t, diagnose.SeverityOK, diagnose.Classify(10, tier))
	assert.Equal(t, diagnose.SeverityWarning, diagnose.Classify(10.5, tier))
	assert.Equal(t, diagnose.SeverityCritical, diagnose.Classify(20.5, tier))
}
