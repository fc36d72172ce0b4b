package usecases_port

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
)

type ScrapeRangePort interface {
	Execute(ctx context.Context, pages domain.PageRange) (*domain.RunStats, error)
}
