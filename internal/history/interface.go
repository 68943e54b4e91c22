package history

import (
	"context"
	"time"
)

// Recorder persists diagnostic run outcomes so recurring instability can be
// compared across prints.
type Recorder interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot captures the outcome of one diagnostic run.
type Snapshot struct {
	Timestamp time.Time
	DeviceLog SourceStats
	Telemetry SourceStats
	Outcome   Outcome
}

// SourceStats summarizes a single input source of a run.
type SourceStats struct {
	Path        string
	SampleCount int
	Available   bool
}

// Outcome holds the headline numbers of a diagnosis.
type Outcome struct {
	TempRange      float64
	DutyMean       float64
	LagMax         float64
	DynZActivePct  float64
	FanOscillation float64
	Mechanical     bool
	IssueCount     int
	TopPriority    string
}
