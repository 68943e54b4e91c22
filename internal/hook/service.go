// Package hook runs the post-print orchestration service: it watches for
// completed print jobs via Moonraker (webhook or polling), runs the analyzer
// once the logs have settled, and pushes the report highlights back to the
// Klipper console.
package hook

import (
	"context"
	"sync"
	"time"

	"github.com/adaptiveflow/zbdiag/internal/logger"
)

type Service struct {
	runner        Runner
	moonraker     Moonraker
	notifyConsole bool
	settle        time.Duration

	// One analysis at a time. A second trigger waits rather than racing the
	// first over the same log files.
	mu sync.Mutex
}

func NewService(runner Runner, moonraker Moonraker, notifyConsole bool, settle time.Duration) *Service {
	return &Service{
		runner:        runner,
		moonraker:     moonraker,
		notifyConsole: notifyConsole,
		settle:        settle,
	}
}

// HandlePrintComplete reacts to a job-finished notification. Anything other
// than a completed print (cancelled, error, paused) is ignored.
func (s *Service) HandlePrintComplete(ctx context.Context, filename, status string) {
	logger.Info().Msgf("Print complete: %s (%s)", filename, status)

	if status != "complete" && status != "completed" {
		logger.Debug().Msgf("Ignoring print status %q", status)
		return
	}

	// Give Klipper a moment to flush its log before reading it
	time.Sleep(s.settle)

	s.notify(ctx, "AF: Analyzing print session...")
	s.Analyze(ctx)
}

// Analyze runs the analyzer and pushes its highlights to the console.
// It reports whether the analyzer completed successfully.
func (s *Service) Analyze(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.runner.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Analysis failed")
	} else {
		logger.Info().Msg("Analysis completed")
	}
	if report != "" {
		logger.Info().Msgf("Output:\n%s", report)
	}

	for _, line := range Highlights(report) {
		s.notify(ctx, line)
	}

	return err == nil
}

func (s *Service) notify(ctx context.Context, message string) {
	if !s.notifyConsole {
		return
	}
	if err := s.moonraker.SendConsole(ctx, message); err != nil {
		logger.Debug().Err(err).Msg("Console message failed")
	}
}
