package port

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
)

type SinkMode int

const (
	// SinkModeTruncate - начать вывод заново (для CSV: очистить файл и записать заголовок)
	SinkModeTruncate SinkMode = iota
	// SinkModeAppend - дописывать к уже существующим данным
	SinkModeAppend
)

func (m SinkMode) String() string {
	if m == SinkModeTruncate {
		return "truncate"
	}
	return "append"
}

// ListingSinkPort принимает пачки записей после каждой индексной страницы
type ListingSinkPort interface {
	Open(ctx context.Context, mode SinkMode) error
	Write(ctx context.Context, records []domain.ListingRecord) error
	Close() error
}
