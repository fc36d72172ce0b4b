package postgres

import (
	"context"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS parser_runs (
    id               UUID PRIMARY KEY,
    requested_start  INTEGER NOT NULL,
    requested_end    INTEGER NOT NULL,
    effective_start  INTEGER NOT NULL,
    effective_end    INTEGER NOT NULL,
    pages_processed  INTEGER NOT NULL DEFAULT 0,
    pages_failed     INTEGER NOT NULL DEFAULT 0,
    listings_written INTEGER NOT NULL DEFAULT 0,
    listings_skipped INTEGER NOT NULL DEFAULT 0,
    status           VARCHAR(16) NOT NULL,
    started_at       TIMESTAMPTZ NOT NULL,
    finished_at      TIMESTAMPTZ
)`

// RunHistoryRepository пишет по одной строке на запуск в parser_runs
type RunHistoryRepository struct {
	dbPool *pgxpool.Pool
}

func NewRunHistoryRepository(dbPool *pgxpool.Pool) (*RunHistoryRepository, error) {
	if dbPool == nil {
		return nil, fmt.Errorf("postgres run history repository: dbPool cannot be nil")
	}
	return &RunHistoryRepository{dbPool: dbPool}, nil
}

func (r *RunHistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.dbPool.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("PostgresRunHistory: ensure schema: %w", err)
	}
	return nil
}

func (r *RunHistoryRepository) StartRun(ctx context.Context, stats *domain.RunStats) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RunHistoryRepository",
		"method":    "StartRun",
	})

	query := `
        INSERT INTO parser_runs (id, requested_start, requested_end, effective_start, effective_end, status, started_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.dbPool.Exec(ctx, query,
		stats.RunID, stats.Requested.Start, stats.Requested.End,
		stats.Effective.Start, stats.Effective.End, stats.Status, stats.StartedAt,
	)
	if err != nil {
		repoLogger.Error("Error inserting run", err, nil)
		return fmt.Errorf("PostgresRunHistory: error starting run %s: %w", stats.RunID, err)
	}
	return nil
}

// FinishRun работает как upsert: строка могла не появиться, если StartRun упал
func (r *RunHistoryRepository) FinishRun(ctx context.Context, stats *domain.RunStats) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RunHistoryRepository",
		"method":    "FinishRun",
	})

	query := `
        INSERT INTO parser_runs (
            id, requested_start, requested_end, effective_start, effective_end,
            pages_processed, pages_failed, listings_written, listings_skipped,
            status, started_at, finished_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (id) DO UPDATE SET
            effective_start  = EXCLUDED.effective_start,
            effective_end    = EXCLUDED.effective_end,
            pages_processed  = EXCLUDED.pages_processed,
            pages_failed     = EXCLUDED.pages_failed,
            listings_written = EXCLUDED.listings_written,
            listings_skipped = EXCLUDED.listings_skipped,
            status           = EXCLUDED.status,
            finished_at      = EXCLUDED.finished_at
    `
	_, err := r.dbPool.Exec(ctx, query,
		stats.RunID, stats.Requested.Start, stats.Requested.End,
		stats.Effective.Start, stats.Effective.End,
		stats.PagesProcessed, stats.PagesFailed, stats.ListingsWritten, stats.ListingsSkipped,
		stats.Status, stats.StartedAt, stats.FinishedAt,
	)
	if err != nil {
		repoLogger.Error("Error finishing run", err, port.Fields{"status": stats.Status})
		return fmt.Errorf("PostgresRunHistory: error finishing run %s: %w", stats.RunID, err)
	}

	repoLogger.Debug("Run recorded", port.Fields{"run_id": stats.RunID.String(), "status": stats.Status})
	return nil
}
