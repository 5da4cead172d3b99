package create

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
	"github.com/BMustafa97/serverless-snacks/internal/services/order/create/mocks"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

func newCommand() *models.CreateOrder {
	return &models.CreateOrder{
		CustomerName: "John Doe",
		SnackItems: []models.NewSnackItem{
			{Name: "Chips", Quantity: 2, Price: json.Number("3.99")},
			{Name: "Soda", Quantity: 1, Price: json.Number("1.99")},
		},
		TotalAmount: json.Number("9.97"),
	}
}

func TestCreate(t *testing.T) {
	log := logger.NewSlogLogger(logger.EnvLocal)
	ctx := context.Background()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockOrderStore(ctl)
	events := mocks.NewMockEventPublisher(ctl)

	svc := New(log, store, events)

	var stored *models.Order
	store.EXPECT().PutIfAbsent(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, order *models.Order) error {
			stored = order
			return nil
		},
	)

	var published *models.OrderCreatedEvent
	events.EXPECT().PublishOrderCreated(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *models.OrderCreatedEvent) error {
			published = event
			return nil
		},
	)

	result, err := svc.Create(ctx, newCommand())
	require.NoError(t, err)
	require.NotEmpty(t, result.OrderID)
	require.Equal(t, models.OrderStatusNew, result.Status)

	require.NotNil(t, stored)
	require.Equal(t, result.OrderID, stored.OrderID)
	require.Equal(t, models.OrderStatusNew, stored.Status)
	require.Equal(t, "John Doe", stored.CustomerName)
	require.Equal(t, "9.97", stored.TotalAmount.String())
	require.Equal(t, "3.99", stored.SnackItems[0].Price.String())
	require.Equal(t, "1.99", stored.SnackItems[1].Price.String())
	require.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	require.Nil(t, stored.ProcessedAt)

	require.NotNil(t, published)
	require.Equal(t, result.OrderID, published.OrderID)
	require.Equal(t, json.Number("9.97"), published.TotalAmount)
	require.Equal(t, models.OrderStatusNew, published.Status)
	require.Equal(t, stored.CreatedAt, published.CreatedAt)
}

// Decimals must be built from the canonical textual form, so values like
// 3.99 never pick up binary-float artifacts.
func TestCreateDecimalFidelity(t *testing.T) {
	log := logger.NewSlogLogger(logger.EnvLocal)
	ctx := context.Background()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockOrderStore(ctl)
	events := mocks.NewMockEventPublisher(ctl)

	svc := New(log, store, events)

	cmd := &models.CreateOrder{
		CustomerName: "Jane Doe",
		SnackItems: []models.NewSnackItem{
			{Name: "Pretzels", Quantity: 1, Price: json.Number("1.50")},
		},
		TotalAmount: json.Number("5.99"),
	}

	var stored *models.Order
	store.EXPECT().PutIfAbsent(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, order *models.Order) error {
			stored = order
			return nil
		},
	)
	events.EXPECT().PublishOrderCreated(ctx, gomock.Any()).Return(nil)

	_, err := svc.Create(ctx, cmd)
	require.NoError(t, err)

	require.True(t, stored.SnackItems[0].Price.Equal(decimal.RequireFromString("1.50")))
	require.Equal(t, "5.99", stored.TotalAmount.String())
}

func TestCreateStoreFailure(t *testing.T) {
	log := logger.NewSlogLogger(logger.EnvLocal)
	ctx := context.Background()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockOrderStore(ctl)
	events := mocks.NewMockEventPublisher(ctl)

	svc := New(log, store, events)

	storeErr := errors.New("store unavailable")
	store.EXPECT().PutIfAbsent(ctx, gomock.Any()).Return(storeErr)

	// no publish may happen when the write failed

	_, err := svc.Create(ctx, newCommand())
	require.ErrorIs(t, err, storeErr)
}

// A publish failure after a successful write surfaces as an error while
// the order stays written: there is no second phase to undo.
func TestCreatePublishFailure(t *testing.T) {
	log := logger.NewSlogLogger(logger.EnvLocal)
	ctx := context.Background()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	store := mocks.NewMockOrderStore(ctl)
	events := mocks.NewMockEventPublisher(ctl)

	svc := New(log, store, events)

	store.EXPECT().PutIfAbsent(ctx, gomock.Any()).Return(nil)

	publishErr := errors.New("broker unavailable")
	events.EXPECT().PublishOrderCreated(ctx, gomock.Any()).Return(publishErr)

	_, err := svc.Create(ctx, newCommand())
	require.ErrorIs(t, err, publishErr)
}
