package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/contracts"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher - часть rabbitmq_producer.Publisher, нужная адаптеру
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
	Close() error
}

// ListingPublisher публикует каждую запись как ScrapedListingEvent
type ListingPublisher struct {
	producer   MessagePublisher
	routingKey string
	newID      func() uuid.UUID
	now        func() time.Time
}

func NewListingPublisher(producer MessagePublisher, routingKey string) (*ListingPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	if err := contracts.Load(); err != nil {
		return nil, fmt.Errorf("rabbitmq adapter: %w", err)
	}
	return &ListingPublisher{
		producer:   producer,
		routingKey: routingKey,
		newID:      uuid.New,
		now:        time.Now,
	}, nil
}

// Open ничего не делает: у очереди нет режима перезаписи
func (a *ListingPublisher) Open(ctx context.Context, mode port.SinkMode) error {
	return nil
}

func (a *ListingPublisher) Write(ctx context.Context, records []domain.ListingRecord) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingPublisher",
		"routing_key": a.routingKey,
	})
	runID := contextkeys.RunIDFromContext(ctx)

	published := 0
	for i := range records {
		// запись, не прошедшая контракт, теряется только для очереди
		msg, err := a.buildMessage(runID, &records[i])
		if err != nil {
			adapterLogger.Warn("Skipping listing that fails the event contract", port.Fields{
				"detail_url": records[i].DetailURL,
				"error":      err.Error(),
			})
			continue
		}

		publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err = a.producer.Publish(publishCtx, a.routingKey, msg)
		cancel()
		if err != nil {
			adapterLogger.Error("Failed to publish listing event", err, port.Fields{"detail_url": records[i].DetailURL})
			return fmt.Errorf("rabbitmq adapter: publish %s: %w", records[i].DetailURL, err)
		}
		published++
	}

	adapterLogger.Debug("Listing events published", port.Fields{
		"count":   published,
		"skipped": len(records) - published,
	})
	return nil
}

func (a *ListingPublisher) buildMessage(runID uuid.UUID, rec *domain.ListingRecord) (amqp.Publishing, error) {
	eventID := a.newID()
	body, err := json.Marshal(toEventDTO(eventID, runID, rec))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq adapter: marshal event: %w", err)
	}
	err = contracts.ValidateEvent(constants.ScrapedListingEventType, constants.ScrapedListingEventVersion, body)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq adapter: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    eventID.String(),
		Timestamp:    a.now(),
		Type:         constants.ScrapedListingEventType,
		Headers: amqp.Table{
			"event_type":    constants.ScrapedListingEventType,
			"event_version": constants.ScrapedListingEventVersion,
			"x-run-id":      runID.String(),
		},
	}, nil
}

// Close закрывает канал producer'а
func (a *ListingPublisher) Close() error {
	return a.producer.Close()
}
