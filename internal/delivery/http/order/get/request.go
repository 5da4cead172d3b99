package get

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	errEmptyOrderID   = errors.New("orderId should not be empty")
	errInvalidOrderID = errors.New("invalid orderId")
)

type GetOrderRequest struct {
	OrderID string
}

func (r *GetOrderRequest) validate() error {
	if r.OrderID == "" {
		return errEmptyOrderID
	}

	if _, err := uuid.Parse(r.OrderID); err != nil {
		return fmt.Errorf("%w: %s", errInvalidOrderID, err.Error())
	}

	return nil
}
