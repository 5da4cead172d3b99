package models

import (
	"encoding/json"
	"time"
)

const (
	EventSource            = "serverless.snacks"
	DetailTypeOrderCreated = "Order Created"
)

// OrderCreatedEvent is published once per successful order creation and may
// be delivered to consumers more than once. TotalAmount carries the
// original numeric form from the request, for consumers expecting native
// numbers rather than the stored decimal rendering.
type OrderCreatedEvent struct {
	OrderID      string      `json:"orderId"`
	CustomerName string      `json:"customerName"`
	TotalAmount  json.Number `json:"totalAmount"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}
