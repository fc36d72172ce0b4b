package port

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
)

// RunHistoryPort сохраняет историю запусков парсера
type RunHistoryPort interface {
	StartRun(ctx context.Context, stats *domain.RunStats) error
	FinishRun(ctx context.Context, stats *domain.RunStats) error
}
