package port

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"net/url"
)

// PageFetcherPort - единственный путь к сайту. Сетевые сбои не возвращаются
// как ошибки: вызывающий проверяет FetchResult.Succeeded().
type PageFetcherPort interface {
	// Fetch выполняет GET с повторами и экспоненциальной задержкой
	Fetch(ctx context.Context, rawURL string, params url.Values) domain.FetchResult

	// FetchOnce выполняет ровно одну попытку
	FetchOnce(ctx context.Context, rawURL string, params url.Values) domain.FetchResult
}
