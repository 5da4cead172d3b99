package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	internalErrors "github.com/BMustafa97/serverless-snacks/internal/lib/errors"
	"github.com/BMustafa97/serverless-snacks/pkg/logger"
)

type fakeProcessor struct {
	processed []string
	failOn    map[string]error
}

func (f *fakeProcessor) Process(_ context.Context, orderID string) error {
	if err, ok := f.failOn[orderID]; ok {
		return err
	}

	f.processed = append(f.processed, orderID)
	return nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		processed []string
		wantErr   error
	}{
		{
			name:      "single event under detail",
			payload:   `{"detail": {"orderId": "order-1", "status": "NEW"}}`,
			processed: []string{"order-1"},
		},
		{
			name:      "batch of serialized records",
			payload:   `{"records": ["{\"orderId\": \"order-1\"}", "{\"orderId\": \"order-2\"}"]}`,
			processed: []string{"order-1", "order-2"},
		},
		{
			name:    "detail without order id",
			payload: `{"detail": {"status": "NEW"}}`,
			wantErr: internalErrors.ErrMissingOrderID,
		},
		{
			name:    "detail is not an object",
			payload: `{"detail": 42}`,
			wantErr: internalErrors.ErrInvalidEventFormat,
		},
		{
			name:    "neither shape present",
			payload: `{"something": "else"}`,
			wantErr: internalErrors.ErrInvalidEventFormat,
		},
		{
			name:    "null detail is not a record",
			payload: `{"detail": null}`,
			wantErr: internalErrors.ErrInvalidEventFormat,
		},
		{
			name:    "garbage payload",
			payload: `not json`,
			wantErr: internalErrors.ErrInvalidEventFormat,
		},
		{
			name:      "empty batch succeeds",
			payload:   `{"records": []}`,
			processed: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			processor := &fakeProcessor{}
			handler := NewHandler(logger.NewSlogLogger(logger.EnvLocal), processor)

			err := handler.Handle(context.Background(), []byte(tc.payload))

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.processed, processor.processed)
		})
	}
}

// A failing record does not stop the rest of the batch; its error comes
// back joined with the record index.
func TestHandleBatchPartialFailure(t *testing.T) {
	procErr := errors.New("downstream unavailable")
	processor := &fakeProcessor{failOn: map[string]error{"order-2": procErr}}
	handler := NewHandler(logger.NewSlogLogger(logger.EnvLocal), processor)

	payload := `{"records": ["{\"orderId\": \"order-1\"}", "{\"orderId\": \"order-2\"}", "{\"orderId\": \"order-3\"}"]}`

	err := handler.Handle(context.Background(), []byte(payload))
	require.ErrorIs(t, err, procErr)
	require.Contains(t, err.Error(), "record 1")
	require.Equal(t, []string{"order-1", "order-3"}, processor.processed)
}

// A record with no order id aborts the batch immediately; later records
// stay untouched so the whole delivery is retried as one unit.
func TestHandleBatchMissingOrderID(t *testing.T) {
	processor := &fakeProcessor{}
	handler := NewHandler(logger.NewSlogLogger(logger.EnvLocal), processor)

	payload := `{"records": ["{\"orderId\": \"order-1\"}", "{\"status\": \"NEW\"}", "{\"orderId\": \"order-3\"}"]}`

	err := handler.Handle(context.Background(), []byte(payload))
	require.ErrorIs(t, err, internalErrors.ErrMissingOrderID)
	require.Equal(t, []string{"order-1"}, processor.processed)
}
