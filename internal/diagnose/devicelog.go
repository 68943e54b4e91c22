package diagnose

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/adaptiveflow/zbdiag/internal/errors"
)

// addOnTokens mark the flow-control add-on modules in the device log. Their
// presence anywhere in the log (config dump, module load messages) means the
// add-on was active for this session.
var addOnTokens = []string{"extruder_monitor", "gcode_interceptor"}

// logNoReadingsHints describe the likely procedural causes of a log that is
// present but contains no usable heater readings.
var logNoReadingsHints = []string{
	"Log may be from before the print started",
	"Or Stats lines are not being generated",
}

const maxLogLineBytes = 1 << 20

// SummarizeDeviceLogFile opens and summarizes a device log. A missing or
// unreadable file is the "log unavailable" case, reported by code so the
// caller can continue with the remaining telemetry source.
func SummarizeDeviceLogFile(path string, limit int) (*DeviceLogSummary, error) {
	errFactory := errors.New()

	f, err := os.Open(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrLogUnavailable, err)
	}
	defer f.Close()

	return SummarizeDeviceLog(f, limit)
}

// SummarizeDeviceLog summarizes heater behavior from a device log stream.
// Only the most recent limit status lines are considered (DefaultSampleLimit
// when limit <= 0); readings below the printing-temperature cutoff are
// excluded. The add-on detection scan covers the full stream, not the
// window. Malformed lines, stray bytes and lines longer than the scan
// buffer are skipped, never fatal.
func SummarizeDeviceLog(r io.Reader, limit int) (*DeviceLogSummary, error) {
	errFactory := errors.New()

	if limit <= 0 {
		limit = DefaultSampleLimit
	}

	br := bufio.NewReaderSize(r, maxLogLineBytes)

	var window []string
	addOn := false
	skipping := false

	for {
		chunk, err := br.ReadSlice('\n')

		if len(chunk) > 0 {
			line := string(chunk)

			if !addOn {
				for _, token := range addOnTokens {
					if strings.Contains(line, token) {
						addOn = true
						break
					}
				}
			}

			if !skipping && err != bufio.ErrBufferFull {
				line = strings.TrimRight(line, "\r\n")
				if IsStatsLine(line) {
					window = append(window, line)
					if len(window) >= 2*limit {
						// Compact to the tail to keep memory bounded on huge logs.
						window = append(window[:0], window[len(window)-limit:]...)
					}
				}
			}
		}

		if err == bufio.ErrBufferFull {
			// Line longer than the buffer: drop it and keep scanning.
			skipping = true
			continue
		}
		skipping = false
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errFactory.Wrap(ErrLogScan, err)
		}
	}

	if len(window) > limit {
		window = window[len(window)-limit:]
	}

	var targets, actuals, duties, lags []float64
	for _, line := range window {
		reading, ok := ParseStatsLine(line)
		if !ok || reading.Target <= printingTempCutoff {
			continue
		}
		targets = append(targets, reading.Target)
		actuals = append(actuals, reading.Actual)
		duties = append(duties, reading.Duty)
		lags = append(lags, reading.Target-reading.Actual)
	}

	if len(actuals) == 0 {
		return nil, errFactory.WithData(ErrLogNoReadings, logNoReadingsHints)
	}

	actualMin, actualMax := minMax(actuals)

	return &DeviceLogSummary{
		SampleCount:   len(actuals),
		TargetTemp:    mean(targets),
		ActualMean:    mean(actuals),
		ActualStdev:   sampleStdev(actuals),
		ActualMin:     actualMin,
		ActualMax:     actualMax,
		TempRange:     actualMax - actualMin,
		DutyMean:      mean(duties),
		DutyMax:       maxOf(duties),
		LagMean:       mean(lags),
		LagMax:        maxOf(lags),
		AddOnDetected: addOn,
	}, nil
}
