package usecase

import (
	"context"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
)

// ResolveTotalPagesUseCase определяет количество индексных страниц.
// Базовая страница запрашивается ровно один раз, без повторов.
// TODO: решить, нужен ли здесь Fetch с повторами, как для остальных страниц
type ResolveTotalPagesUseCase struct {
	fetcher  port.PageFetcherPort
	parser   port.ListingParserPort
	indexURL string
}

func NewResolveTotalPagesUseCase(fetcher port.PageFetcherPort, parser port.ListingParserPort, indexURL string) *ResolveTotalPagesUseCase {
	return &ResolveTotalPagesUseCase{
		fetcher:  fetcher,
		parser:   parser,
		indexURL: indexURL,
	}
}

func (uc *ResolveTotalPagesUseCase) Execute(ctx context.Context) (int, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ResolveTotalPages"})

	result := uc.fetcher.FetchOnce(ctx, uc.indexURL, nil)
	if !result.Succeeded() {
		ucLogger.Error("Failed to fetch listing index", result.Err, port.Fields{"url": uc.indexURL})
		return 0, fmt.Errorf("resolve total pages: fetch %s failed after %d attempt(s): %w", uc.indexURL, result.Attempts, result.Err)
	}

	total, err := uc.parser.ParseTotalPages(result.Body)
	if err != nil {
		ucLogger.Error("Failed to read pagination", err, port.Fields{"url": uc.indexURL})
		return 0, fmt.Errorf("resolve total pages: %w", err)
	}

	ucLogger.Info("Resolved total index pages", port.Fields{"total_pages": total})
	return total, nil
}
