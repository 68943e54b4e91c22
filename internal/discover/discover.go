// Package discover locates telemetry inputs on the printer host: the
// conventional klippy.log locations and the Adaptive Flow CSV log directory.
package discover

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/adaptiveflow/zbdiag/internal/logger"
)

// klippyCandidates returns the conventional klippy.log locations, in
// preference order.
func klippyCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return []string{"/tmp/klippy.log"}
	}
	return []string{
		"/tmp/klippy.log",
		filepath.Join(home, "printer_data", "logs", "klippy.log"),
		filepath.Join(home, "klipper_logs", "klippy.log"),
	}
}

// KlippyLog returns the first existing conventional klippy.log path.
func KlippyLog() (string, bool) {
	return firstExisting(klippyCandidates())
}

func firstExisting(paths []string) (string, bool) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// DefaultTelemetryDir is the directory the add-on writes per-print CSV logs
// into.
func DefaultTelemetryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "printer_data", "logs", "adaptive_flow")
}

// TelemetryCSVs lists the CSV logs in dir, newest first by modification
// time. A missing directory yields an empty list, not an error: the add-on
// may simply never have logged on this host.
func TelemetryCSVs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Debug().Str("dir", dir).Err(err).Msg("telemetry log directory not readable")
		return nil
	}

	type candidate struct {
		path  string
		mtime int64
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".csv" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{
			path:  filepath.Join(dir, entry.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].mtime > found[j].mtime })

	paths := make([]string, 0, len(found))
	for _, c := range found {
		paths = append(paths, c.path)
	}
	return paths
}

// LatestTelemetryCSV returns the most recently modified CSV log in dir.
func LatestTelemetryCSV(dir string) (string, bool) {
	paths := TelemetryCSVs(dir)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}
