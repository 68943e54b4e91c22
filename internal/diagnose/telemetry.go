package diagnose

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/adaptiveflow/zbdiag/internal/errors"
)

// Required telemetry CSV columns, as written by the add-on's logger.
var requiredColumns = []string{"flow", "boost", "pwm", "fan_pct", "dynz_active"}

// csvNoRowsHints describe the likely procedural causes of a header-only CSV.
var csvNoRowsHints = []string{
	"Logging not started with AT_START macro",
	"extruder_monitor not properly loaded",
	"Print ended before logging began",
	"To fix: ensure PRINT_START macro calls AT_START MATERIAL=<material>",
}

// SummarizeTelemetryCSVFile opens and summarizes an Adaptive Flow CSV log.
func SummarizeTelemetryCSVFile(path string) (*TelemetrySummary, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrCSVUnavailable, err)
	}
	defer f.Close()

	return SummarizeTelemetryCSV(f)
}

// SummarizeTelemetryCSV summarizes one print session's telemetry stream.
// Tolerance is per column, not per row: a blank or unparseable cell drops
// that cell from its own column's aggregates while the rest of the row still
// counts. A header missing a required column is a format incompatibility,
// distinct from a header-only file, which is the "no data" case.
func SummarizeTelemetryCSV(r io.Reader) (*TelemetrySummary, error) {
	errFactory := errors.New()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errFactory.WithData(ErrCSVNoRows, csvNoRowsHints)
	}
	if err != nil {
		return nil, errFactory.Wrap(ErrCSVFormat, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errFactory.WithData(ErrCSVFormat, missing)
	}

	var flows, boosts, duties, fans []float64
	dynzActive, dynzSamples := 0, 0
	rows := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// One malformed row never aborts the scan.
			continue
		}
		rows++

		if v, ok := cell(record, col["flow"]); ok {
			flows = append(flows, v)
		}
		if v, ok := cell(record, col["boost"]); ok {
			boosts = append(boosts, v)
		}
		if v, ok := cell(record, col["pwm"]); ok {
			duties = append(duties, v)
		}
		if v, ok := cell(record, col["fan_pct"]); ok {
			fans = append(fans, v)
		}
		if idx := col["dynz_active"]; idx < len(record) {
			if flag, err := strconv.Atoi(strings.TrimSpace(record[idx])); err == nil {
				dynzSamples++
				if flag != 0 {
					dynzActive++
				}
			}
		}
	}

	if rows == 0 {
		return nil, errFactory.WithData(ErrCSVNoRows, csvNoRowsHints)
	}

	summary := &TelemetrySummary{SampleCount: rows}
	if len(flows) > 0 {
		summary.FlowMean = mean(flows)
		summary.FlowMax = maxOf(flows)
	}
	if len(boosts) > 0 {
		summary.BoostMean = mean(boosts)
		summary.BoostMax = maxOf(boosts)
	}
	if len(duties) > 0 {
		summary.DutyMean = mean(duties)
		summary.DutyMax = maxOf(duties)
	}
	if len(fans) > 0 {
		summary.FanMean = mean(fans)
		summary.FanMin, summary.FanMax = minMax(fans)
		summary.FanOscillation = fanOscillation(fans)
	}
	if dynzSamples > 0 {
		summary.DynZActivePct = float64(dynzActive) / float64(dynzSamples) * 100
	}

	return summary, nil
}

// fanOscillation is the mean absolute change in fan percentage between
// consecutive samples; 0 with fewer than two samples.
func fanOscillation(fans []float64) float64 {
	if len(fans) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(fans); i++ {
		sum += math.Abs(fans[i] - fans[i-1])
	}
	return sum / float64(len(fans)-1)
}

func cell(record []string, idx int) (float64, bool) {
	if idx >= len(record) {
		return 0, false
	}
	raw := strings.TrimSpace(record[idx])
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
