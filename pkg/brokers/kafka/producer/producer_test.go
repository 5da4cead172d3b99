package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

// The published message must carry the bus envelope the processor
// discriminates on: payload under "detail", source and detail-type set.
func TestPublishOrderCreated(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	syncProducer := mocks.NewSyncProducer(t, cfg)
	syncProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		var envelope struct {
			Source     string                   `json:"source"`
			DetailType string                   `json:"detail-type"`
			Detail     models.OrderCreatedEvent `json:"detail"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return err
		}

		require.Equal(t, models.EventSource, envelope.Source)
		require.Equal(t, models.DetailTypeOrderCreated, envelope.DetailType)
		require.Equal(t, "order-1", envelope.Detail.OrderID)
		require.Equal(t, json.Number("9.97"), envelope.Detail.TotalAmount)

		return nil
	})

	p := &Producer{
		log:      logger.NewSlogLogger(logger.EnvLocal),
		producer: syncProducer,
		topic:    "snacks.order.created",
	}

	event := &models.OrderCreatedEvent{
		OrderID:      "order-1",
		CustomerName: "John Doe",
		TotalAmount:  json.Number("9.97"),
		Status:       models.OrderStatusNew,
		CreatedAt:    time.Now().UTC(),
	}

	require.NoError(t, p.PublishOrderCreated(context.Background(), event))
	require.NoError(t, p.Close())
}

func TestPublishOrderCreatedSendFailure(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	syncProducer := mocks.NewSyncProducer(t, cfg)
	syncProducer.ExpectSendMessageAndFail(sarama.ErrBrokerNotAvailable)

	p := &Producer{
		log:      logger.NewSlogLogger(logger.EnvLocal),
		producer: syncProducer,
		topic:    "snacks.order.created",
	}

	err := p.PublishOrderCreated(context.Background(), &models.OrderCreatedEvent{OrderID: "order-1"})
	require.ErrorIs(t, err, sarama.ErrBrokerNotAvailable)
	require.NoError(t, p.Close())
}
