package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/adaptiveflow/zbdiag/internal/errors"
	"github.com/adaptiveflow/zbdiag/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing history repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS diagnostics (
            timestamp INTEGER PRIMARY KEY,
            device_log_path TEXT,
            device_log_samples INTEGER,
            device_log_available INTEGER,
            telemetry_path TEXT,
            telemetry_samples INTEGER,
            telemetry_available INTEGER,
            temp_range REAL,
            duty_mean REAL,
            lag_max REAL,
            dynz_active_pct REAL,
            fan_oscillation REAL,
            mechanical INTEGER,
            issue_count INTEGER,
            top_priority TEXT
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO diagnostics (
            timestamp,
            device_log_path, device_log_samples, device_log_available,
            telemetry_path, telemetry_samples, telemetry_available,
            temp_range, duty_mean, lag_max,
            dynz_active_pct, fan_oscillation,
            mechanical, issue_count, top_priority
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            device_log_path = excluded.device_log_path,
            device_log_samples = excluded.device_log_samples,
            device_log_available = excluded.device_log_available,
            telemetry_path = excluded.telemetry_path,
            telemetry_samples = excluded.telemetry_samples,
            telemetry_available = excluded.telemetry_available,
            temp_range = excluded.temp_range,
            duty_mean = excluded.duty_mean,
            lag_max = excluded.lag_max,
            dynz_active_pct = excluded.dynz_active_pct,
            fan_oscillation = excluded.fan_oscillation,
            mechanical = excluded.mechanical,
            issue_count = excluded.issue_count,
            top_priority = excluded.top_priority
    `,
		snapshot.Timestamp.Unix(),
		snapshot.DeviceLog.Path,
		snapshot.DeviceLog.SampleCount,
		boolToInt(snapshot.DeviceLog.Available),
		snapshot.Telemetry.Path,
		snapshot.Telemetry.SampleCount,
		boolToInt(snapshot.Telemetry.Available),
		snapshot.Outcome.TempRange,
		snapshot.Outcome.DutyMean,
		snapshot.Outcome.LagMax,
		snapshot.Outcome.DynZActivePct,
		snapshot.Outcome.FanOscillation,
		boolToInt(snapshot.Outcome.Mechanical),
		snapshot.Outcome.IssueCount,
		snapshot.Outcome.TopPriority,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
