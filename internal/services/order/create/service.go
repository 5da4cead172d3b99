package create

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type OrderStore interface {
	PutIfAbsent(ctx context.Context, order *models.Order) error
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
}

// Service is the ingress core: it assigns the order its identity and
// timestamps, converts monetary values to exact decimals, persists the
// record conditionally and publishes the creation event.
type Service struct {
	log    logger.Logger
	orders OrderStore
	events EventPublisher
}

func New(log logger.Logger, orders OrderStore, events EventPublisher) *Service {
	return &Service{
		log:    log,
		orders: orders,
		events: events,
	}
}

func (s *Service) Create(ctx context.Context, cmd *models.CreateOrder) (*models.CreateOrderResult, error) {
	const op = "services.order.create.Create"

	now := time.Now().UTC()

	order, err := buildOrder(cmd, uuid.NewString(), now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.orders.PutIfAbsent(ctx, order); err != nil {
		s.log.Error(op, logger.String("error", err.Error()))
		return nil, fmt.Errorf("%s: persist order: %w", op, err)
	}

	s.log.InfoContext(ctx, "order written",
		logger.String("order_id", order.OrderID),
		logger.String("status", string(order.Status)),
	)

	event := &models.OrderCreatedEvent{
		OrderID:      order.OrderID,
		CustomerName: order.CustomerName,
		// consumers expect the total in its original numeric form, not the
		// stored decimal rendering
		TotalAmount: cmd.TotalAmount,
		Status:      models.OrderStatusNew,
		CreatedAt:   now,
	}

	// There is no second phase: a publish failure here leaves the order
	// written in NEW with no pending event.
	if err = s.events.PublishOrderCreated(ctx, event); err != nil {
		s.log.Error(op, logger.String("error", err.Error()))
		return nil, fmt.Errorf("%s: publish event: %w", op, err)
	}

	s.log.InfoContext(ctx, "order created event published", logger.String("order_id", order.OrderID))

	return &models.CreateOrderResult{
		OrderID:   order.OrderID,
		Status:    order.Status,
		CreatedAt: now,
	}, nil
}

func buildOrder(cmd *models.CreateOrder, orderID string, now time.Time) (*models.Order, error) {
	total, err := toDecimal(cmd.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("totalAmount: %w", err)
	}

	items := make(models.SnackItems, 0, len(cmd.SnackItems))
	for i, item := range cmd.SnackItems {
		price, err := toDecimal(item.Price)
		if err != nil {
			return nil, fmt.Errorf("snackItems[%d].price: %w", i, err)
		}

		items = append(items, models.SnackItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    price,
		})
	}

	return &models.Order{
		OrderID:      orderID,
		Status:       models.OrderStatusNew,
		CustomerName: cmd.CustomerName,
		SnackItems:   items,
		TotalAmount:  total,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// toDecimal builds the decimal from the number's canonical string form,
// never from its binary float value, so 3.99 stays 3.99.
func toDecimal(n json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(n.String())
}
