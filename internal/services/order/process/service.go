package process

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type OrderStore interface {
	Get(ctx context.Context, orderID string) (*models.Order, error)
	UpdateIfStatusEquals(ctx context.Context, orderID string, expected models.OrderStatus, update models.StatusUpdate) error
}

// Service advances an order NEW→PROCESSED. The transition is guarded at
// write time, so redelivered and racing events collapse to a single
// effective transition.
type Service struct {
	log    logger.Logger
	orders OrderStore
}

func New(log logger.Logger, orders OrderStore) *Service {
	return &Service{
		log:    log,
		orders: orders,
	}
}

func (s *Service) Process(ctx context.Context, orderID string) error {
	const op = "services.order.process.Process"

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		// not-found propagates so the channel can redeliver
		s.log.Error(op, logger.String("order_id", orderID), logger.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if order.Status != models.OrderStatusNew {
		s.log.WarnContext(ctx, "order already past NEW, skipping",
			logger.String("order_id", orderID),
			logger.String("status", string(order.Status)),
		)
		return nil
	}

	now := time.Now().UTC()
	update := models.StatusUpdate{
		Status:      models.OrderStatusProcessed,
		UpdatedAt:   now,
		ProcessedAt: &now,
	}

	if err = s.orders.UpdateIfStatusEquals(ctx, orderID, models.OrderStatusNew, update); err != nil {
		if errors.Is(err, internalErrors.ErrPreconditionFailed) {
			// a concurrent delivery won the transition between our read
			// and this write; the order is processed either way
			s.log.InfoContext(ctx, "transition already applied",
				logger.String("order_id", orderID),
			)
			return nil
		}

		s.log.Error(op, logger.String("order_id", orderID), logger.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.InfoContext(ctx, "order processed", logger.String("order_id", orderID))

	s.runFulfillmentSteps(ctx, orderID)

	return nil
}

// runFulfillmentSteps stands in for inventory checks, payment verification
// and fulfillment-center notification. A failing step is logged and never
// blocks or reverts the completed transition.
func (s *Service) runFulfillmentSteps(ctx context.Context, orderID string) {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{name: "inventory check", run: func(context.Context) error { return nil }},
		{name: "payment verification", run: func(context.Context) error { return nil }},
		{name: "fulfillment notification", run: func(context.Context) error { return nil }},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			s.log.WarnContext(ctx, "fulfillment step failed",
				logger.String("order_id", orderID),
				logger.String("step", step.name),
				logger.String("error", err.Error()),
			)
			continue
		}

		s.log.DebugContext(ctx, "fulfillment step done",
			logger.String("order_id", orderID),
			logger.String("step", step.name),
		)
	}
}
