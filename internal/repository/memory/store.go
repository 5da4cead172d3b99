package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
)

// Store is an in-memory order store with the same conditional-write
// semantics as the Postgres repository. It backs tests and local runs
// without a database.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewStore() *Store {
	return &Store{
		orders: make(map[string]*models.Order),
	}
}

func (s *Store) PutIfAbsent(_ context.Context, order *models.Order) error {
	const op = "repository.memory.PutIfAbsent"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.OrderID]; exists {
		return fmt.Errorf("%s: %w", op, internalErrors.ErrOrderAlreadyExists)
	}

	s.orders[order.OrderID] = order.Clone()

	return nil
}

func (s *Store) Get(_ context.Context, orderID string) (*models.Order, error) {
	const op = "repository.memory.Get"

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, internalErrors.ErrOrderNotFound)
	}

	return order.Clone(), nil
}

func (s *Store) UpdateIfStatusEquals(
	_ context.Context,
	orderID string,
	expected models.OrderStatus,
	update models.StatusUpdate,
) error {
	const op = "repository.memory.UpdateIfStatusEquals"

	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[orderID]
	if !exists || order.Status != expected {
		return fmt.Errorf("%s: %w", op, internalErrors.ErrPreconditionFailed)
	}

	order.Status = update.Status
	order.UpdatedAt = update.UpdatedAt
	if update.ProcessedAt != nil {
		processedAt := *update.ProcessedAt
		order.ProcessedAt = &processedAt
	}

	return nil
}
