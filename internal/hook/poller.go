package hook

import (
	"context"
	"time"

	"github.com/adaptiveflow/zbdiag/internal/logger"
)

// Poller watches Moonraker's print state and triggers an analysis when a
// print transitions from printing to complete. Unlike the webhook listener it
// needs no Moonraker configuration.
type Poller struct {
	svc      *Service
	interval time.Duration
}

func NewPoller(svc *Service, interval time.Duration) *Poller {
	return &Poller{
		svc:      svc,
		interval: interval,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	lastState := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			state, err := p.svc.moonraker.PrintState(ctx)
			if err != nil {
				logger.Debug().Err(err).Msg("Poll error")
				continue
			}

			if lastState == "printing" && state == "complete" {
				logger.Info().Msg("Print completed (detected via polling)")
				p.svc.HandlePrintComplete(ctx, "unknown", state)
			}

			lastState = state
		}
	}
}
