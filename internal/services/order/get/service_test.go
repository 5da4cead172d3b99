package get

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/internal/repository/memory"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type countingStore struct {
	*memory.Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	c.gets++
	return c.Store.Get(ctx, orderID)
}

func seed(t *testing.T, store *memory.Store, orderID string, status models.OrderStatus) {
	t.Helper()

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:      orderID,
		Status:       status,
		CustomerName: "John Doe",
		SnackItems: models.SnackItems{
			{Name: "Chips", Quantity: 2, Price: decimal.RequireFromString("3.99")},
		},
		TotalAmount: decimal.RequireFromString("9.97"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.OrderStatusProcessed {
		order.ProcessedAt = &now
	}

	require.NoError(t, store.PutIfAbsent(context.Background(), order))
}

func newService(store OrderGetter) *Service {
	cache := expirable.NewLRU[string, *models.Order](16, nil, time.Minute)
	return New(logger.NewSlogLogger(logger.EnvLocal), cache, store)
}

// Processed orders are terminal, so the second read comes from the cache.
func TestOrderByIDCachesProcessed(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.NewStore()}
	svc := newService(store)

	seed(t, store.Store, "order-1", models.OrderStatusProcessed)

	first, err := svc.OrderByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusProcessed, first.Status)
	require.Equal(t, 1, store.gets)

	second, err := svc.OrderByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, first.OrderID, second.OrderID)
	require.Equal(t, 1, store.gets)
}

// NEW orders can still transition, so every read goes to the store.
func TestOrderByIDDoesNotCacheNew(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: memory.NewStore()}
	svc := newService(store)

	seed(t, store.Store, "order-1", models.OrderStatusNew)

	_, err := svc.OrderByID(ctx, "order-1")
	require.NoError(t, err)

	_, err = svc.OrderByID(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, 2, store.gets)
}

func TestOrderByIDNotFound(t *testing.T) {
	svc := newService(memory.NewStore())

	_, err := svc.OrderByID(context.Background(), "no-such-order")
	require.ErrorIs(t, err, internalErrors.ErrOrderNotFound)
}
