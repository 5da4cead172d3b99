package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type orderProcessor interface {
	Process(ctx context.Context, orderID string) error
}

// Handler turns raw channel payloads into processor invocations. The
// envelope shape is discriminated exactly once, here at the boundary.
type Handler struct {
	log logger.Logger

	processor orderProcessor
}

func NewHandler(log logger.Logger, processor orderProcessor) *Handler {
	return &Handler{
		log:       log,
		processor: processor,
	}
}

// Envelope is the tagged union of recognized delivery shapes: a single
// event under "detail", or a batch of serialized events under "records".
type Envelope struct {
	Detail  json.RawMessage `json:"detail"`
	Records []string        `json:"records"`
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	const op = "delivery.events.Handle"

	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("%s: %w: %s", op, internalErrors.ErrInvalidEventFormat, err)
	}

	switch {
	case len(envelope.Detail) > 0 && string(envelope.Detail) != "null":
		return h.handleRecord(ctx, envelope.Detail)
	case envelope.Records != nil:
		return h.handleBatch(ctx, envelope.Records)
	default:
		return fmt.Errorf("%s: %w", op, internalErrors.ErrInvalidEventFormat)
	}
}

func (h *Handler) handleRecord(ctx context.Context, raw json.RawMessage) error {
	const op = "delivery.events.handleRecord"

	var record models.OrderCreatedEvent
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("%s: %w: %s", op, internalErrors.ErrInvalidEventFormat, err)
	}

	if record.OrderID == "" {
		return fmt.Errorf("%s: %w", op, internalErrors.ErrMissingOrderID)
	}

	h.log.InfoContext(ctx, "processing order event", logger.String("order_id", record.OrderID))

	return h.processor.Process(ctx, record.OrderID)
}

func (h *Handler) handleBatch(ctx context.Context, records []string) error {
	const op = "delivery.events.handleBatch"

	var errs []error
	for i, record := range records {
		err := h.handleRecord(ctx, json.RawMessage(record))
		if err == nil {
			continue
		}

		// a record without an order id is a systemic bug; abort the whole
		// delivery instead of working around it
		if errors.Is(err, internalErrors.ErrMissingOrderID) {
			return fmt.Errorf("%s: record %d: %w", op, i, err)
		}

		errs = append(errs, fmt.Errorf("record %d: %w", i, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}

	return nil
}
