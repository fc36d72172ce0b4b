package rabbitmq_producer

import (
	"testing"

	"github.com/Ihor-MA/flats-data-analytics/pkg/rabbitmq/rabbitmq_common"

	"github.com/stretchr/testify/assert"
)

func TestPublisherConfig_Validate(t *testing.T) {
	base := rabbitmq_common.Config{URL: "amqp://localhost:5672/"}

	assert.NoError(t, PublisherConfig{Config: base, ExchangeName: "parser_exchange", ExchangeType: "direct", DeclareExchangeIfMissing: true}.Validate())
	assert.NoError(t, PublisherConfig{Config: base}.Validate())
	assert.Error(t, PublisherConfig{Config: base, ExchangeName: "parser_exchange", DeclareExchangeIfMissing: true}.Validate())
	assert.Error(t, PublisherConfig{ExchangeName: "parser_exchange"}.Validate())
}

func TestNewPublisher_RequiresManager(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{Config: rabbitmq_common.Config{URL: "amqp://localhost/"}}, nil)
	assert.Error(t, err)
}
