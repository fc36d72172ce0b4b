package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	return m.Called(ctx, routingKey, msg).Error(0)
}

func (m *MockProducer) Close() error {
	return m.Called().Error(0)
}

func strPtr(s string) *string { return &s }

func sampleRecord() domain.ListingRecord {
	floors := 9
	return domain.ListingRecord{
		City:         "Київ",
		Region:       strPtr("Печерський"),
		Address:      "вул. Хрещатик, 1",
		Price:        "100 000 $",
		PricePerArea: "2 000 $",
		TotalArea:    "50 m2",
		Floor:        "3",
		FloorCount:   &floors,
		DetailURL:    "https://dom.ria.com/uk/realty-1.html",
		ScrapedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestListingPublisher_PublishesOneEventPerRecord(t *testing.T) {
	producer := new(MockProducer)
	var published []amqp.Publishing
	producer.On("Publish", mock.Anything, constants.RoutingKeyScrapedListing, mock.Anything).
		Run(func(args mock.Arguments) { published = append(published, args.Get(2).(amqp.Publishing)) }).
		Return(nil)

	publisher, err := NewListingPublisher(producer, constants.RoutingKeyScrapedListing)
	require.NoError(t, err)

	runID := uuid.New()
	ctx := contextkeys.ContextWithRunID(context.Background(), runID)
	second := sampleRecord()
	second.DetailURL = "https://dom.ria.com/uk/realty-2.html"

	require.NoError(t, publisher.Write(ctx, []domain.ListingRecord{sampleRecord(), second}))
	require.Len(t, published, 2)

	msg := published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, constants.ScrapedListingEventType, msg.Headers["event_type"])
	assert.Equal(t, constants.ScrapedListingEventVersion, msg.Headers["event_version"])
	assert.Equal(t, runID.String(), msg.Headers["x-run-id"])

	var event ScrapedListingEventDTO
	require.NoError(t, json.Unmarshal(msg.Body, &event))
	assert.Equal(t, runID, event.RunID)
	assert.Equal(t, msg.MessageId, event.EventID.String())
	assert.Equal(t, "Печерський", *event.Listing.Region)
	assert.Equal(t, 9, *event.Listing.FloorCount)
	assert.Nil(t, event.Listing.RoomCount)
	assert.NotEqual(t, published[0].MessageId, published[1].MessageId)
}

func TestListingPublisher_SkipsRecordsFailingContract(t *testing.T) {
	producer := new(MockProducer)
	var published []amqp.Publishing
	producer.On("Publish", mock.Anything, constants.RoutingKeyScrapedListing, mock.Anything).
		Run(func(args mock.Arguments) { published = append(published, args.Get(2).(amqp.Publishing)) }).
		Return(nil)
	publisher, err := NewListingPublisher(producer, constants.RoutingKeyScrapedListing)
	require.NoError(t, err)

	emptyPrice := sampleRecord()
	emptyPrice.Price = ""
	emptyPrice.DetailURL = "https://dom.ria.com/uk/realty-empty.html"

	negativeFloors := sampleRecord()
	floors := -1
	negativeFloors.FloorCount = &floors
	negativeFloors.DetailURL = "https://dom.ria.com/uk/realty-basement.html"

	valid := sampleRecord()

	err = publisher.Write(context.Background(), []domain.ListingRecord{emptyPrice, negativeFloors, valid})

	require.NoError(t, err)
	require.Len(t, published, 1)
	var event ScrapedListingEventDTO
	require.NoError(t, json.Unmarshal(published[0].Body, &event))
	assert.Equal(t, valid.DetailURL, event.Listing.DetailURL)
}

func TestListingPublisher_PublishError(t *testing.T) {
	producer := new(MockProducer)
	brokerErr := errors.New("channel closed")
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(brokerErr)
	publisher, _ := NewListingPublisher(producer, constants.RoutingKeyScrapedListing)

	err := publisher.Write(context.Background(), []domain.ListingRecord{sampleRecord()})

	assert.ErrorIs(t, err, brokerErr)
}

func TestListingPublisher_OpenAndClose(t *testing.T) {
	producer := new(MockProducer)
	producer.On("Close").Return(nil)
	publisher, _ := NewListingPublisher(producer, constants.RoutingKeyScrapedListing)

	assert.NoError(t, publisher.Open(context.Background(), port.SinkModeTruncate))
	assert.NoError(t, publisher.Close())
	producer.AssertExpectations(t)
}

func TestNewListingPublisher_Validation(t *testing.T) {
	_, err := NewListingPublisher(nil, "key")
	assert.Error(t, err)
	_, err = NewListingPublisher(new(MockProducer), "")
	assert.Error(t, err)
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	fields := toFields("name", "parser_exchange", 42, "ignored", "dangling")

	assert.Equal(t, port.Fields{"name": "parser_exchange"}, fields)
}
