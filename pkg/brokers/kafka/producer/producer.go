package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

// Producer publishes order events to Kafka. Messages are keyed by order id
// and sent synchronously: the ingress reports a publish failure to its
// caller instead of pretending the event is on its way.
type Producer struct {
	log logger.Logger

	producer sarama.SyncProducer
	topic    string
}

// busEnvelope mirrors the event-bus delivery shape the processor expects:
// the payload travels under "detail".
type busEnvelope struct {
	Source     string                    `json:"source"`
	DetailType string                    `json:"detail-type"`
	Detail     *models.OrderCreatedEvent `json:"detail"`
}

func New(log logger.Logger, brokerList []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true

	syncProducer, err := sarama.NewSyncProducer(brokerList, cfg)
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}

	return &Producer{
		log:      log,
		producer: syncProducer,
		topic:    topic,
	}, nil
}

func (p *Producer) PublishOrderCreated(_ context.Context, event *models.OrderCreatedEvent) error {
	const op = "brokers.kafka.producer.PublishOrderCreated"

	payload, err := json.Marshal(busEnvelope{
		Source:     models.EventSource,
		DetailType: models.DetailTypeOrderCreated,
		Detail:     event,
	})
	if err != nil {
		p.log.Error(op, logger.String("error", err.Error()))
		return fmt.Errorf("%s: marshal event: %w", op, err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err = p.producer.SendMessage(message); err != nil {
		p.log.Error(op, logger.String("error", err.Error()))
		return fmt.Errorf("%s: send message: %w", op, err)
	}

	p.log.Debug(op, logger.String("order_id", event.OrderID), logger.String("topic", p.topic))

	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
