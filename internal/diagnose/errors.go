package diagnose

import "github.com/adaptiveflow/zbdiag/internal/errors"

const (
	// Availability errors: source missing vs. present-but-empty. Callers
	// branch on these codes, not on sentinel field values.
	ErrLogUnavailable = errors.ErrLogUnavailable
	ErrLogNoReadings  = errors.ErrLogNoReadings
	ErrCSVUnavailable = errors.ErrCSVUnavailable
	ErrCSVNoRows      = errors.ErrCSVNoRows

	// Format errors
	ErrCSVFormat = errors.ErrCSVFormat

	// Scan errors
	ErrLogScan = errors.ErrLogScan
)
