package usecase

import (
	"context"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"golang.org/x/sync/errgroup"
)

// detailTask и detailResult несут исходный индекс карточки через весь fan-out,
// поэтому метаданные склеиваются с ответом по индексу, а не по счетчику успехов.
type detailTask struct {
	index int
	url   string
}

type detailResult struct {
	index  int
	result domain.FetchResult
}

// ProcessIndexPageUseCase скачивает все детальные страницы одной индексной
// страницы параллельно и собирает из них записи.
type ProcessIndexPageUseCase struct {
	fetcher port.PageFetcherPort
	parser  port.ListingParserPort
	// concurrency ограничивает число одновременных запросов пачки, 0 - без ограничения
	concurrency int
}

func NewProcessIndexPageUseCase(fetcher port.PageFetcherPort, parser port.ListingParserPort, concurrency int) *ProcessIndexPageUseCase {
	return &ProcessIndexPageUseCase{
		fetcher:     fetcher,
		parser:      parser,
		concurrency: concurrency,
	}
}

func (uc *ProcessIndexPageUseCase) Execute(ctx context.Context, page int, indexBody []byte) (*domain.PageBatch, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ProcessIndexPage",
		"page":     page,
	})

	indexPage, err := uc.parser.ParseIndexPage(indexBody)
	if err != nil {
		ucLogger.Error("Failed to parse index page", err, nil)
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	if err := indexPage.Validate(); err != nil {
		ucLogger.Error("Index page structure mismatch", err, port.Fields{
			"detail_links": len(indexPage.DetailLinks),
			"cards":        indexPage.Metadata.Len(),
		})
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	batch := &domain.PageBatch{Page: page}

	tasks := make([]detailTask, 0, len(indexPage.DetailLinks))
	for i, link := range indexPage.DetailLinks {
		if linkErr := indexPage.LinkError(i); linkErr != nil {
			ucLogger.Warn("Skipping listing card without a usable detail link", port.Fields{
				"index": i,
				"error": linkErr.Error(),
			})
			batch.InvalidListings++
			continue
		}
		card := indexPage.Metadata.Cards[i]
		if card.Err != nil {
			ucLogger.Warn("Skipping listing card with invalid metadata", port.Fields{
				"index": i,
				"url":   link,
				"error": card.Err.Error(),
			})
			batch.InvalidListings++
			continue
		}
		tasks = append(tasks, detailTask{index: i, url: link})
	}

	ucLogger.Debug("Fetching detail pages", port.Fields{"tasks": len(tasks)})
	results := uc.fetchAll(ctx, tasks)

	// results идут в порядке задач, а значит и в порядке карточек
	for _, res := range results {
		if !res.result.Succeeded() {
			batch.FailedFetches++
			continue
		}

		card := indexPage.Metadata.Cards[res.index]
		rec, err := uc.parser.ParseDetailPage(res.result.Body, card, indexPage.DetailLinks[res.index])
		if err != nil {
			ucLogger.Warn("Skipping listing with unparsable detail page", port.Fields{
				"index": res.index,
				"url":   indexPage.DetailLinks[res.index],
				"error": err.Error(),
			})
			batch.InvalidListings++
			continue
		}
		batch.Records = append(batch.Records, *rec)
	}

	ucLogger.Info("Index page processed", port.Fields{
		"records":          len(batch.Records),
		"failed_fetches":   batch.FailedFetches,
		"invalid_listings": batch.InvalidListings,
	})
	return batch, nil
}

// fetchAll запускает по одному запросу на задачу и дожидается всех
func (uc *ProcessIndexPageUseCase) fetchAll(ctx context.Context, tasks []detailTask) []detailResult {
	results := make([]detailResult, len(tasks))

	var g errgroup.Group
	if uc.concurrency > 0 {
		g.SetLimit(uc.concurrency)
	}

	for slot, task := range tasks {
		g.Go(func() error {
			results[slot] = detailResult{
				index:  task.index,
				result: uc.fetcher.Fetch(ctx, task.url, nil),
			}
			return nil
		})
	}
	_ = g.Wait() // задачи не возвращают ошибок: сбои внутри FetchResult

	return results
}
