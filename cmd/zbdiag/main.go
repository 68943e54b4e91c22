package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/adaptiveflow/zbdiag/internal/config"
	"github.com/adaptiveflow/zbdiag/internal/diagnose"
	"github.com/adaptiveflow/zbdiag/internal/discover"
	"github.com/adaptiveflow/zbdiag/internal/history"
	"github.com/adaptiveflow/zbdiag/internal/logger"
	"github.com/adaptiveflow/zbdiag/internal/report"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	os.Exit(run())
}

func run() int {
	th := diagnose.DefaultThresholds()
	out := report.New(os.Stdout, th)

	klippyPath := cfg.KlippyPath
	if klippyPath == "" {
		klippyPath, _ = discover.KlippyLog()
	}
	csvPaths := resolveCSVPaths()

	recorder := newRecorder()
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close history store")
		}
	}()

	out.Header()

	var dev *diagnose.DeviceLogSummary
	if klippyPath != "" {
		var err error
		dev, err = diagnose.SummarizeDeviceLogFile(klippyPath, cfg.Samples)
		out.DeviceLog(klippyPath, dev, err)
	} else {
		out.DeviceLogMissing()
	}

	var tel *diagnose.TelemetrySummary
	var telPath string
	if len(csvPaths) > 0 {
		// Newest log drives the diagnosis; with --all the older ones are
		// still summarized for comparison.
		for i, path := range csvPaths {
			sum, err := diagnose.SummarizeTelemetryCSVFile(path)
			out.Telemetry(path, sum, err)
			if i == 0 {
				tel = sum
				telPath = path
			}
		}
	} else {
		out.TelemetryMissing()
	}

	exitCode := 0
	if dev != nil || tel != nil {
		d := diagnose.Synthesize(dev, tel, th)
		out.Diagnosis(d)
		record(recorder, klippyPath, dev, telPath, tel, d)
	} else {
		out.NoInput()
		exitCode = 1
	}

	out.Footer()

	return exitCode
}

func resolveCSVPaths() []string {
	if cfg.CSVPath != "" {
		return []string{cfg.CSVPath}
	}

	dir := cfg.CSVDir
	if dir == "" {
		dir = discover.DefaultTelemetryDir()
	}

	paths := discover.TelemetryCSVs(dir)
	if len(paths) == 0 {
		return nil
	}
	if cfg.All {
		return paths
	}

	return paths[:1]
}

func newRecorder() history.Recorder {
	if !cfg.History {
		return history.NewNoopRecorder()
	}

	recorder, err := history.NewService(history.Config{DBPath: cfg.HistoryDB})
	if err != nil {
		logger.Error().Err(err).Msg("failed to open history store")
		return history.NewNoopRecorder()
	}

	return recorder
}

func record(
	recorder history.Recorder,
	klippyPath string, dev *diagnose.DeviceLogSummary,
	telPath string, tel *diagnose.TelemetrySummary,
	d diagnose.Diagnosis,
) {
	snapshot := &history.Snapshot{
		Timestamp: time.Now(),
		DeviceLog: history.SourceStats{Path: klippyPath},
		Telemetry: history.SourceStats{Path: telPath},
		Outcome: history.Outcome{
			Mechanical:  d.Mechanical,
			IssueCount:  len(d.Recommendations),
			TopPriority: topPriority(d.Recommendations),
		},
	}
	if dev != nil {
		snapshot.DeviceLog.Available = true
		snapshot.DeviceLog.SampleCount = dev.SampleCount
		snapshot.Outcome.TempRange = dev.TempRange
		snapshot.Outcome.DutyMean = dev.DutyMean
		snapshot.Outcome.LagMax = dev.LagMax
	}
	if tel != nil {
		snapshot.Telemetry.Available = true
		snapshot.Telemetry.SampleCount = tel.SampleCount
		snapshot.Outcome.DynZActivePct = tel.DynZActivePct
		snapshot.Outcome.FanOscillation = tel.FanOscillation
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := recorder.Record(ctx, snapshot); err != nil {
		logger.Error().Err(err).Msg("failed to record diagnostic snapshot")
	}
}

func topPriority(recs []diagnose.Recommendation) string {
	top := ""
	rank := func(p diagnose.Priority) int {
		switch p {
		case diagnose.PriorityHigh:
			return 3
		case diagnose.PriorityMedium:
			return 2
		case diagnose.PriorityLow:
			return 1
		}
		return 0
	}

	best := 0
	for _, rec := range recs {
		if r := rank(rec.Priority); r > best {
			best = r
			top = string(rec.Priority)
		}
	}

	return top
}
