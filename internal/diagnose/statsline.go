package diagnose

import (
	"regexp"
	"strconv"
	"strings"
)

// statsPrefix identifies heater status lines in the device log. Everything
// else in the log is noise to the summarizer.
const statsPrefix = "Stats "

var statsLineRe = regexp.MustCompile(`extruder: target=(\d+\.?\d*) temp=(\d+\.?\d*) pwm=(\d+\.?\d*)`)

// ParseStatsLine extracts a heater reading from one device log line. Most
// log lines are not status lines, so a non-match is the expected case and is
// reported via ok=false, never as an error. A structurally matching line
// whose numbers fail to parse is treated the same way.
func ParseStatsLine(line string) (HeaterReading, bool) {
	m := statsLineRe.FindStringSubmatch(line)
	if m == nil {
		return HeaterReading{}, false
	}

	target, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return HeaterReading{}, false
	}
	actual, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return HeaterReading{}, false
	}
	duty, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return HeaterReading{}, false
	}

	return HeaterReading{Target: target, Actual: actual, Duty: duty}, true
}

// IsStatsLine reports whether a log line is a heater status line.
func IsStatsLine(line string) bool {
	return strings.HasPrefix(line, statsPrefix)
}
