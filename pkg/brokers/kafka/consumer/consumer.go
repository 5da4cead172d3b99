package consumer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"

	"github.com/BMustafa97/serverless-snacks/internal/config"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

// attemptsHeader counts deliveries of a message. Kafka never redelivers a
// committed message on its own, so failed deliveries are republished with
// the counter bumped until the retry budget runs out.
const attemptsHeader = "x-attempts"

type EnvelopeHandler interface {
	Handle(ctx context.Context, payload []byte) error
}

type messageProducer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
}

// Consumer owns the redelivery policy for the order event topic: bounded
// retries via republish, then the dead-letter topic. The handler itself
// never retries.
type Consumer struct {
	log logger.Logger

	group    sarama.ConsumerGroup
	producer sarama.SyncProducer
	cfg      config.KafkaConfig
	handler  EnvelopeHandler
}

func New(log logger.Logger, cfg config.KafkaConfig, handler EnvelopeHandler) (*Consumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Return.Successes = true

	group, err := sarama.NewConsumerGroup(cfg.BrokerList, cfg.ConsumerGroup, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("new consumer group: %w", err)
	}

	producer, err := sarama.NewSyncProducer(cfg.BrokerList, saramaCfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("new sync producer: %w", err), group.Close())
	}

	return &Consumer{
		log:      log,
		group:    group,
		producer: producer,
		cfg:      cfg,
		handler:  handler,
	}, nil
}

func (c *Consumer) Run(ctx context.Context) error {
	groupHandler := &groupHandler{
		log:         c.log,
		handler:     c.handler,
		producer:    c.producer,
		topic:       c.cfg.OrderEventTopic,
		dlqTopic:    c.cfg.DeadLetterTopic,
		maxAttempts: c.cfg.MaxAttempts,
	}

	for {
		if err := c.group.Consume(ctx, []string{c.cfg.OrderEventTopic}, groupHandler); err != nil {
			return fmt.Errorf("consume: %w", err)
		}

		// rebalance happened; loop unless we are shutting down
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return errors.Join(c.group.Close(), c.producer.Close())
}

type groupHandler struct {
	log logger.Logger

	handler     EnvelopeHandler
	producer    messageProducer
	topic       string
	dlqTopic    string
	maxAttempts int
}

func (g *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (g *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (g *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		g.consume(session.Context(), message)
		session.MarkMessage(message, "")
	}

	return nil
}

func (g *groupHandler) consume(ctx context.Context, message *sarama.ConsumerMessage) {
	const op = "brokers.kafka.consumer.consume"

	err := g.handler.Handle(ctx, message.Value)
	if err == nil {
		return
	}

	attempt := readAttempts(message.Headers) + 1

	// unrecognized shapes are an integration bug, not transient load;
	// retrying them cannot help
	fatal := errors.Is(err, internalErrors.ErrInvalidEventFormat) ||
		errors.Is(err, internalErrors.ErrMissingOrderID)

	if fatal || attempt >= g.maxAttempts {
		g.log.Error(op,
			logger.String("error", err.Error()),
			logger.Int("attempt", attempt),
			logger.String("outcome", "dead-letter"),
		)
		g.deadLetter(message, err, attempt)
		return
	}

	g.log.Warn(op,
		logger.String("error", err.Error()),
		logger.Int("attempt", attempt),
		logger.String("outcome", "redeliver"),
	)
	g.redeliver(message, attempt)
}

func (g *groupHandler) redeliver(message *sarama.ConsumerMessage, attempt int) {
	out := &sarama.ProducerMessage{
		Topic: g.topic,
		Key:   sarama.ByteEncoder(message.Key),
		Value: sarama.ByteEncoder(message.Value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(attemptsHeader), Value: []byte(strconv.Itoa(attempt))},
		},
	}

	if _, _, err := g.producer.SendMessage(out); err != nil {
		g.log.Error("failed to redeliver message", logger.String("error", err.Error()))
	}
}

func (g *groupHandler) deadLetter(message *sarama.ConsumerMessage, cause error, attempt int) {
	out := &sarama.ProducerMessage{
		Topic: g.dlqTopic,
		Key:   sarama.ByteEncoder(message.Key),
		Value: sarama.ByteEncoder(message.Value),
		Headers: []sarama.RecordHeader{
			{Key: []byte(attemptsHeader), Value: []byte(strconv.Itoa(attempt))},
			{Key: []byte("x-error"), Value: []byte(cause.Error())},
		},
	}

	if _, _, err := g.producer.SendMessage(out); err != nil {
		g.log.Error("failed to dead-letter message", logger.String("error", err.Error()))
	}
}

func readAttempts(headers []*sarama.RecordHeader) int {
	for _, header := range headers {
		if header == nil || string(header.Key) != attemptsHeader {
			continue
		}

		attempts, err := strconv.Atoi(string(header.Value))
		if err != nil {
			return 0
		}

		return attempts
	}

	return 0
}
