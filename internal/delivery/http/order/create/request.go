package create

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/BMustafa97/serverless-snacks/internal/domain/models"
)

var validate = validator.New()

var (
	errInvalidFormat = errors.New("invalid format")

	errNegativePrice  = errors.New("price must not be negative")
	errNegativeAmount = errors.New("totalAmount must not be negative")
)

type CreateOrderRequest struct {
	CustomerName string      `json:"customerName"`
	SnackItems   []SnackItem `json:"snackItems"`
	TotalAmount  json.Number `json:"totalAmount"`
}

type SnackItem struct {
	Name     string      `json:"name" validate:"required"`
	Quantity int64       `json:"quantity" validate:"gte=1"`
	Price    json.Number `json:"price" validate:"required"`
}

// transportEnvelope is the wrapped shape a gateway forwards: the real
// payload travels serialized under "body".
type transportEnvelope struct {
	Body *string `json:"body"`
}

// decodeCreateOrderRequest unwraps at most one envelope layer, then
// decodes the order payload with numbers kept in textual form so decimals
// can later be built from the canonical string.
func decodeCreateOrderRequest(payload []byte) (*CreateOrderRequest, error) {
	var envelope transportEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidFormat, err)
	}

	if envelope.Body != nil {
		payload = []byte(*envelope.Body)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var request CreateOrderRequest
	if err := decoder.Decode(&request); err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidFormat, err)
	}

	return &request, nil
}

// Required fields are checked in a fixed order (customerName, snackItems,
// totalAmount) so the first reported missing field is deterministic.
func (r *CreateOrderRequest) validate() error {
	if r.CustomerName == "" {
		return missingField("customerName")
	}
	if len(r.SnackItems) == 0 {
		return missingField("snackItems")
	}
	if r.TotalAmount.String() == "" {
		return missingField("totalAmount")
	}

	for i, item := range r.SnackItems {
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("snackItems[%d]: %w", i, err)
		}

		price, err := decimal.NewFromString(item.Price.String())
		if err != nil {
			return fmt.Errorf("snackItems[%d].price: %w", i, errInvalidFormat)
		}
		if price.IsNegative() {
			return fmt.Errorf("snackItems[%d]: %w", i, errNegativePrice)
		}
	}

	total, err := decimal.NewFromString(r.TotalAmount.String())
	if err != nil {
		return fmt.Errorf("totalAmount: %w", errInvalidFormat)
	}
	if total.IsNegative() {
		return errNegativeAmount
	}

	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field: %s", name)
}

func (r *CreateOrderRequest) toCommand() *models.CreateOrder {
	items := make([]models.NewSnackItem, 0, len(r.SnackItems))
	for _, item := range r.SnackItems {
		items = append(items, models.NewSnackItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return &models.CreateOrder{
		CustomerName: r.CustomerName,
		SnackItems:   items,
		TotalAmount:  r.TotalAmount,
	}
}
