package get

import (
	"context"
	"fmt"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type OrderGetter interface {
	Get(ctx context.Context, orderID string) (*models.Order, error)
}

type Cache interface {
	Get(key string) (value *models.Order, ok bool)
	Add(key string, value *models.Order) (evicted bool)
}

// Service is the read path. Only orders in their terminal status are
// cached: a NEW order may still transition underneath us.
type Service struct {
	log   logger.Logger
	cache Cache

	orderGetter OrderGetter
}

func New(log logger.Logger, cache Cache, orderGetter OrderGetter) *Service {
	return &Service{
		log:         log,
		cache:       cache,
		orderGetter: orderGetter,
	}
}

func (s *Service) OrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	const op = "services.order.get.OrderByID"

	if order, ok := s.cache.Get(orderID); ok && order != nil {
		s.log.DebugContext(ctx, "order served from cache", logger.String("order_id", orderID))
		return order, nil
	}

	order, err := s.orderGetter.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if order.Status == models.OrderStatusProcessed {
		if evicted := s.cache.Add(orderID, order); evicted {
			s.log.Debug("cache size exceeded", logger.String("order_id", orderID))
		}
	}

	return order, nil
}
