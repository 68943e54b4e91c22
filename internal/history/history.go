// Package history persists per-run diagnostic outcomes to a local SQLite
// database. Each analysis records a single snapshot row, keyed by run
// timestamp, so users can tell whether thermal tuning is trending in the
// right direction across prints.
package history

import (
	"context"

	"github.com/adaptiveflow/zbdiag/internal/errors"
)

type service struct {
	repo Repository
	cfg  Config
}

func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

// NewNoopRecorder returns a Recorder that discards snapshots. Used when
// history persistence is disabled.
func NewNoopRecorder() Recorder {
	return &noopRecorder{}
}

type noopRecorder struct{}

func (*noopRecorder) Record(_ context.Context, _ *Snapshot) error { return nil }

func (*noopRecorder) Close() error { return nil }
