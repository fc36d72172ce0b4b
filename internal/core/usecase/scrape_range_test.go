package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scrapeFixture struct {
	fetcher     *MockFetcher
	resolver    *MockResolver
	processPage *MockProcessPage
	sink        *MockSink
	history     *MockHistory
	uc          *ScrapeRangeUseCase
}

func newScrapeFixture(total int) *scrapeFixture {
	f := &scrapeFixture{
		fetcher:     new(MockFetcher),
		resolver:    new(MockResolver),
		processPage: new(MockProcessPage),
		sink:        new(MockSink),
		history:     new(MockHistory),
	}
	f.resolver.On("Execute", mock.Anything).Return(total, nil)
	f.history.On("StartRun", mock.Anything, mock.Anything).Return(nil)
	f.history.On("FinishRun", mock.Anything, mock.Anything).Return(nil)
	f.uc = NewScrapeRangeUseCase(f.fetcher, f.resolver, f.processPage, f.sink, f.history, testIndexURL, "page", nil)
	return f
}

func pageParams(page string) url.Values {
	return url.Values{"page": []string{page}}
}

// expectPage настраивает успешную страницу с одной записью
func (f *scrapeFixture) expectPage(page int, params url.Values, body string) {
	f.fetcher.On("Fetch", mock.Anything, testIndexURL, params).Return(ok(testIndexURL, body)).Once()
	batch := &domain.PageBatch{Page: page, Records: []domain.ListingRecord{{City: body}}, FailedFetches: 1}
	f.processPage.On("Execute", mock.Anything, page, []byte(body)).Return(batch, nil).Once()
	f.sink.On("Write", mock.Anything, batch.Records).Return(nil).Once()
}

func TestScrapeRange_ClampsEndToTotalPages(t *testing.T) {
	f := newScrapeFixture(2)
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)
	f.expectPage(1, url.Values(nil), "p1")
	f.expectPage(2, pageParams("2"), "p2")

	stats, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 5})

	require.NoError(t, err)
	assert.Equal(t, domain.PageRange{Start: 1, End: 5}, stats.Requested)
	assert.Equal(t, domain.PageRange{Start: 1, End: 2}, stats.Effective)
	assert.Equal(t, 2, stats.PagesProcessed)
	assert.Equal(t, 2, stats.ListingsWritten)
	assert.Equal(t, 2, stats.ListingsSkipped)
	assert.Equal(t, domain.RunStatusCompleted, stats.Status)
	f.fetcher.AssertNumberOfCalls(t, "Fetch", 2)
	f.sink.AssertExpectations(t)
}

func TestScrapeRange_AppendsWhenNotStartingFromFirstPage(t *testing.T) {
	f := newScrapeFixture(10)
	f.sink.On("Open", mock.Anything, port.SinkModeAppend).Return(nil)
	f.expectPage(3, pageParams("3"), "p3")

	_, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 3, End: 3})

	require.NoError(t, err)
	f.sink.AssertExpectations(t)
}

func TestScrapeRange_SkipsFailedPages(t *testing.T) {
	f := newScrapeFixture(3)
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)
	f.expectPage(1, url.Values(nil), "p1")
	f.fetcher.On("Fetch", mock.Anything, testIndexURL, pageParams("2")).Return(exhausted(testIndexURL))
	f.fetcher.On("Fetch", mock.Anything, testIndexURL, pageParams("3")).Return(ok(testIndexURL, "p3"))
	f.processPage.On("Execute", mock.Anything, 3, []byte("p3")).Return(nil, domain.ErrStructuralMismatch)

	stats, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 3})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.PagesProcessed)
	assert.Equal(t, 2, stats.PagesFailed)
	f.processPage.AssertNotCalled(t, "Execute", mock.Anything, 2, mock.Anything)
}

func TestScrapeRange_NothingScraped(t *testing.T) {
	f := newScrapeFixture(2)
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)
	f.fetcher.On("Fetch", mock.Anything, testIndexURL, mock.Anything).Return(exhausted(testIndexURL))

	stats, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 2})

	assert.ErrorIs(t, err, domain.ErrNothingScraped)
	assert.Equal(t, domain.RunStatusFailed, stats.Status)
	f.history.AssertCalled(t, "FinishRun", mock.Anything, mock.MatchedBy(func(s *domain.RunStats) bool {
		return s.Status == domain.RunStatusFailed && s.PagesFailed == 2
	}))
}

func TestScrapeRange_StartBeyondLastPage(t *testing.T) {
	f := newScrapeFixture(2)
	f.sink.On("Open", mock.Anything, port.SinkModeAppend).Return(nil)

	stats, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 4, End: 6})

	require.NoError(t, err)
	assert.Zero(t, stats.Effective.Pages())
	f.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestScrapeRange_SinkWriteErrorAbortsRun(t *testing.T) {
	f := newScrapeFixture(3)
	writeErr := errors.New("disk full")
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)
	f.fetcher.On("Fetch", mock.Anything, testIndexURL, url.Values(nil)).Return(ok(testIndexURL, "p1"))
	f.processPage.On("Execute", mock.Anything, 1, []byte("p1")).Return(&domain.PageBatch{Page: 1}, nil)
	f.sink.On("Write", mock.Anything, mock.Anything).Return(writeErr)

	_, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 3})

	assert.ErrorIs(t, err, writeErr)
	f.fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestScrapeRange_ResolverFailure(t *testing.T) {
	f := newScrapeFixture(0)
	f.resolver.ExpectedCalls = nil
	f.resolver.On("Execute", mock.Anything).Return(0, assertErr)
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)

	_, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 3})

	assert.ErrorIs(t, err, assertErr)
}

func TestScrapeRange_InvalidRange(t *testing.T) {
	f := newScrapeFixture(3)

	_, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 3, End: 1})

	assert.ErrorIs(t, err, domain.ErrInvalidPageRange)
	f.history.AssertNotCalled(t, "StartRun", mock.Anything, mock.Anything)
}

func TestScrapeRange_HistoryFailureDoesNotStopRun(t *testing.T) {
	f := newScrapeFixture(1)
	f.history.ExpectedCalls = nil
	f.history.On("StartRun", mock.Anything, mock.Anything).Return(assertErr)
	f.history.On("FinishRun", mock.Anything, mock.Anything).Return(assertErr)
	f.sink.On("Open", mock.Anything, port.SinkModeTruncate).Return(nil)
	f.expectPage(1, url.Values(nil), "p1")

	stats, err := f.uc.Execute(context.Background(), domain.PageRange{Start: 1, End: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.ListingsWritten)
}

func TestDefaultSinkMode(t *testing.T) {
	assert.Equal(t, port.SinkModeTruncate, DefaultSinkMode(domain.PageRange{Start: 1, End: 3}))
	assert.Equal(t, port.SinkModeAppend, DefaultSinkMode(domain.PageRange{Start: 2, End: 3}))
}
