package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusProcessed OrderStatus = "PROCESSED"
)

// Order is the persisted order record. It is the durable contract other
// systems may read, so field names follow the stored layout.
//
// Monetary fields hold exact decimals; floats never enter this struct.
type Order struct {
	OrderID      string          `json:"orderId" db:"order_id"`
	Status       OrderStatus     `json:"status" db:"status"`
	CustomerName string          `json:"customerName" db:"customer_name"`
	SnackItems   SnackItems      `json:"snackItems" db:"snack_items"`
	TotalAmount  decimal.Decimal `json:"totalAmount" db:"total_amount"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	ProcessedAt  *time.Time      `json:"processedAt,omitempty" db:"processed_at"`
}

type SnackItem struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SnackItems is stored as a single JSONB column.
type SnackItems []SnackItem

func (s SnackItems) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SnackItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported snack_items source type %T", src)
	}
}

// Clone returns a deep copy so callers cannot alias stored state.
func (o *Order) Clone() *Order {
	cp := *o

	cp.SnackItems = make(SnackItems, len(o.SnackItems))
	copy(cp.SnackItems, o.SnackItems)

	if o.ProcessedAt != nil {
		processedAt := *o.ProcessedAt
		cp.ProcessedAt = &processedAt
	}

	return &cp
}

// StatusUpdate carries the fields a conditional status update writes.
// ProcessedAt left nil keeps the stored value.
type StatusUpdate struct {
	Status      OrderStatus
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}

// CreateOrder is the canonical ingress command produced by the HTTP
// boundary after envelope unwrapping and validation. Monetary values keep
// their original textual form so the service can build decimals from the
// canonical string, not from a binary float.
type CreateOrder struct {
	CustomerName string
	SnackItems   []NewSnackItem
	TotalAmount  json.Number
}

type NewSnackItem struct {
	Name     string
	Quantity int64
	Price    json.Number
}

// CreateOrderResult is what the ingress reports back to the caller.
type CreateOrderResult struct {
	OrderID   string
	Status    OrderStatus
	CreatedAt time.Time
}
