package usecase

import (
	"context"
	"net/url"

	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) domain.FetchResult {
	args := m.Called(ctx, rawURL, params)
	return args.Get(0).(domain.FetchResult)
}

func (m *MockFetcher) FetchOnce(ctx context.Context, rawURL string, params url.Values) domain.FetchResult {
	args := m.Called(ctx, rawURL, params)
	return args.Get(0).(domain.FetchResult)
}

type MockParser struct {
	mock.Mock
}

func (m *MockParser) ParseIndexPage(body []byte) (*domain.IndexPage, error) {
	args := m.Called(body)
	page, _ := args.Get(0).(*domain.IndexPage)
	return page, args.Error(1)
}

func (m *MockParser) ParseTotalPages(body []byte) (int, error) {
	args := m.Called(body)
	return args.Int(0), args.Error(1)
}

func (m *MockParser) ParseDetailPage(body []byte, card domain.CardMetadata, detailURL string) (*domain.ListingRecord, error) {
	args := m.Called(body, card, detailURL)
	rec, _ := args.Get(0).(*domain.ListingRecord)
	return rec, args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Execute(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockProcessPage struct {
	mock.Mock
}

func (m *MockProcessPage) Execute(ctx context.Context, page int, indexBody []byte) (*domain.PageBatch, error) {
	args := m.Called(ctx, page, indexBody)
	batch, _ := args.Get(0).(*domain.PageBatch)
	return batch, args.Error(1)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Open(ctx context.Context, mode port.SinkMode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockSink) Write(ctx context.Context, records []domain.ListingRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockSink) Close() error {
	return m.Called().Error(0)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) StartRun(ctx context.Context, stats *domain.RunStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *MockHistory) FinishRun(ctx context.Context, stats *domain.RunStats) error {
	return m.Called(ctx, stats).Error(0)
}

func ok(rawURL string, body string) domain.FetchResult {
	return domain.Succeeded(rawURL, 200, []byte(body), 1)
}

func exhausted(rawURL string) domain.FetchResult {
	return domain.Exhausted(rawURL, 6, assertErr)
}

func strPtr(s string) *string { return &s }
