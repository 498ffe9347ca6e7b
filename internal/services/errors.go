package services

import "errors"

// Error categories surfaced to the HTTP layer. Validation and not-found
// errors are rejected before any state change; payment errors leave the
// order row intact so the customer can retry.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
