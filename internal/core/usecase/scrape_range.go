package usecase

import (
	"context"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
	usecases_port "github.com/Ihor-MA/flats-data-analytics/internal/core/port/usecases"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ScrapeRangeUseCase обходит индексные страницы диапазона строго по очереди:
// пачка детальных страниц одной индексной страницы записывается в sink
// до того, как начнется следующая.
type ScrapeRangeUseCase struct {
	fetcher     port.PageFetcherPort
	resolver    usecases_port.ResolveTotalPagesPort
	processPage usecases_port.ProcessIndexPagePort
	sink        port.ListingSinkPort
	history     port.RunHistoryPort
	indexURL    string
	pageParam   string
	sinkMode    func(pages domain.PageRange) port.SinkMode
	now         func() time.Time
}

func NewScrapeRangeUseCase(
	fetcher port.PageFetcherPort,
	resolver usecases_port.ResolveTotalPagesPort,
	processPage usecases_port.ProcessIndexPagePort,
	sink port.ListingSinkPort,
	history port.RunHistoryPort,
	indexURL string,
	pageParam string,
	sinkMode func(pages domain.PageRange) port.SinkMode,
) *ScrapeRangeUseCase {
	if sinkMode == nil {
		sinkMode = DefaultSinkMode
	}
	return &ScrapeRangeUseCase{
		fetcher:     fetcher,
		resolver:    resolver,
		processPage: processPage,
		sink:        sink,
		history:     history,
		indexURL:    indexURL,
		pageParam:   pageParam,
		sinkMode:    sinkMode,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// DefaultSinkMode: вывод начинается заново только при запуске с первой страницы
func DefaultSinkMode(pages domain.PageRange) port.SinkMode {
	if pages.Start == 1 {
		return port.SinkModeTruncate
	}
	return port.SinkModeAppend
}

func (uc *ScrapeRangeUseCase) Execute(ctx context.Context, pages domain.PageRange) (*domain.RunStats, error) {
	if err := pages.Validate(); err != nil {
		return nil, err
	}

	stats := &domain.RunStats{
		RunID:     uuid.New(),
		Requested: pages,
		Effective: pages,
		Status:    domain.RunStatusRunning,
		StartedAt: uc.now(),
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ScrapeRange",
		"run_id":   stats.RunID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, ucLogger)
	ctx = contextkeys.ContextWithRunID(ctx, stats.RunID)

	ucLogger.Info("Starting run", port.Fields{"start_page": pages.Start, "end_page": pages.End})

	if err := uc.history.StartRun(ctx, stats); err != nil {
		ucLogger.Warn("Failed to record run start", port.Fields{"error": err.Error()})
	}

	runErr := uc.run(ctx, pages, stats)

	stats.FinishedAt = uc.now()
	stats.Status = domain.RunStatusCompleted
	if runErr != nil {
		stats.Status = domain.RunStatusFailed
	}
	// история пишется и после отмены контекста запуска
	if err := uc.history.FinishRun(context.WithoutCancel(ctx), stats); err != nil {
		ucLogger.Warn("Failed to record run finish", port.Fields{"error": err.Error()})
	}

	if runErr != nil {
		ucLogger.Error("Run failed", runErr, nil)
		return stats, runErr
	}

	ucLogger.Info("Run completed", port.Fields{
		"pages_processed":  stats.PagesProcessed,
		"pages_failed":     stats.PagesFailed,
		"listings_written": stats.ListingsWritten,
		"listings_skipped": stats.ListingsSkipped,
		"duration":         stats.FinishedAt.Sub(stats.StartedAt).String(),
	})
	return stats, nil
}

func (uc *ScrapeRangeUseCase) run(ctx context.Context, pages domain.PageRange, stats *domain.RunStats) error {
	ucLogger := contextkeys.LoggerFromContext(ctx)

	mode := uc.sinkMode(pages)
	if err := uc.sink.Open(ctx, mode); err != nil {
		return fmt.Errorf("open sink (%s): %w", mode, err)
	}

	total, err := uc.resolver.Execute(ctx)
	if err != nil {
		return err
	}

	effective := pages
	if effective.End > total {
		ucLogger.Warn("End page exceeds total pages, clamping", port.Fields{
			"end_page":    pages.End,
			"total_pages": total,
		})
		effective.End = total
	}
	if effective.Start > effective.End {
		ucLogger.Warn("Start page is beyond the last index page, nothing to do", port.Fields{
			"start_page":  pages.Start,
			"total_pages": total,
		})
		stats.Effective = domain.PageRange{Start: pages.Start, End: pages.Start - 1}
		return nil
	}
	stats.Effective = effective

	for page := effective.Start; page <= effective.End; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pageLogger := ucLogger.WithFields(port.Fields{"page": page})
		pageCtx := contextkeys.ContextWithLogger(ctx, pageLogger)

		result := uc.fetcher.Fetch(pageCtx, uc.indexURL, uc.pageParams(page))
		if !result.Succeeded() {
			pageLogger.Error("Failed to fetch index page, skipping", result.Err, port.Fields{"attempts": result.Attempts})
			stats.PagesFailed++
			continue
		}

		batch, err := uc.processPage.Execute(pageCtx, page, result.Body)
		if err != nil {
			pageLogger.Error("Failed to process index page, skipping", err, nil)
			stats.PagesFailed++
			continue
		}

		if err := uc.sink.Write(pageCtx, batch.Records); err != nil {
			return fmt.Errorf("write page %d: %w", page, err)
		}
		stats.AddBatch(batch)
	}

	if stats.PagesProcessed == 0 {
		return domain.ErrNothingScraped
	}
	return nil
}

func (uc *ScrapeRangeUseCase) pageParams(page int) url.Values {
	if page == 1 {
		return nil
	}
	return url.Values{uc.pageParam: []string{strconv.Itoa(page)}}
}
