package errors

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrPreconditionFailed reports a conditional update whose status guard
	// no longer held at write time. Consumers treat it as an idempotent
	// skip, never as a failure.
	ErrPreconditionFailed = errors.New("order status precondition failed")

	ErrInvalidEventFormat = errors.New("invalid event format")
	ErrMissingOrderID     = errors.New("event record is missing orderId")
)
