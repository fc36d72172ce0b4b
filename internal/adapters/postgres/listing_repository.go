package postgres

import (
	"context"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createListingsTable = `
CREATE TABLE IF NOT EXISTS flat_listings (
    detail_url        TEXT PRIMARY KEY,
    city              TEXT NOT NULL,
    region            TEXT,
    address           TEXT NOT NULL,
    price             TEXT NOT NULL,
    price_per_area    TEXT NOT NULL,
    total_area        TEXT NOT NULL DEFAULT '',
    floor             TEXT NOT NULL DEFAULT '',
    floor_count       INTEGER,
    room_count        INTEGER,
    subway            TEXT,
    apartment_complex TEXT,
    first_seen_at     TIMESTAMPTZ NOT NULL,
    last_seen_at      TIMESTAMPTZ NOT NULL
)`

// повторная встреча объявления обновляет все поля, кроме first_seen_at
const upsertListing = `
INSERT INTO flat_listings (
    detail_url, city, region, address, price, price_per_area, total_area,
    floor, floor_count, room_count, subway, apartment_complex, first_seen_at, last_seen_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
ON CONFLICT (detail_url) DO UPDATE SET
    city              = EXCLUDED.city,
    region            = EXCLUDED.region,
    address           = EXCLUDED.address,
    price             = EXCLUDED.price,
    price_per_area    = EXCLUDED.price_per_area,
    total_area        = EXCLUDED.total_area,
    floor             = EXCLUDED.floor,
    floor_count       = EXCLUDED.floor_count,
    room_count        = EXCLUDED.room_count,
    subway            = EXCLUDED.subway,
    apartment_complex = EXCLUDED.apartment_complex,
    last_seen_at      = EXCLUDED.last_seen_at`

// ListingRepository сохраняет объявления в flat_listings.
// Режим sink'а не влияет на таблицу: она накапливает историю между запусками.
type ListingRepository struct {
	dbPool *pgxpool.Pool
}

func NewListingRepository(dbPool *pgxpool.Pool) (*ListingRepository, error) {
	if dbPool == nil {
		return nil, fmt.Errorf("postgres listing repository: dbPool cannot be nil")
	}
	return &ListingRepository{dbPool: dbPool}, nil
}

// Open создает таблицу, если ее нет
func (r *ListingRepository) Open(ctx context.Context, mode port.SinkMode) error {
	if _, err := r.dbPool.Exec(ctx, createListingsTable); err != nil {
		return fmt.Errorf("postgres listing repository: ensure schema: %w", err)
	}
	contextkeys.LoggerFromContext(ctx).Debug("flat_listings table ensured", port.Fields{
		"component": "ListingRepository",
		"mode":      mode.String(),
	})
	return nil
}

// Write сохраняет пачку одним pgx.Batch в транзакции
func (r *ListingRepository) Write(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingRepository",
		"method":    "Write",
	})

	tx, err := r.dbPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres listing repository: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range records {
		rec := &records[i]
		batch.Queue(upsertListing,
			rec.DetailURL, rec.City, rec.Region, rec.Address, rec.Price, rec.PricePerArea,
			rec.TotalArea, rec.Floor, rec.FloorCount, rec.RoomCount, rec.Subway,
			rec.ApartmentComplex, rec.ScrapedAt,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		repoLogger.Error("Batch upsert failed", err, port.Fields{"rows": len(records)})
		return fmt.Errorf("postgres listing repository: upsert batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres listing repository: commit: %w", err)
	}

	repoLogger.Debug("Listings upserted", port.Fields{"rows": len(records)})
	return nil
}

// Close ничего не делает: пулом владеет приложение
func (r *ListingRepository) Close() error { return nil }
