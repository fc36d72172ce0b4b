package usecases_port

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
)

type ProcessIndexPagePort interface {
	Execute(ctx context.Context, page int, indexBody []byte) (*domain.PageBatch, error)
}
