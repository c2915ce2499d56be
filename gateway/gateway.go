// Package gateway is the boundary to the external payment provider. The
// rest of the system sees opaque session identifiers and a paid/unpaid
// answer; everything provider-specific stays behind PaymentGateway.
package gateway

import "context"

// CheckoutItem describes the single line item of a ticket checkout.
type CheckoutItem struct {
	Name        string
	Description string
	UnitPrice   float64
	Quantity    int
}

// SessionStatus is the provider's answer for a session. PaymentRef is the
// provider-side transaction identifier used as the ledger's idempotency key.
type SessionStatus struct {
	Paid       bool
	PaymentRef string
}

type Session struct {
	Token       string
	RedirectURL string
}

type PaymentGateway interface {
	// CreateSession registers a checkout with the provider under our order
	// id and returns the client-facing token. No seats move here.
	CreateSession(ctx context.Context, orderID string, amount float64, item CheckoutItem) (Session, error)

	// SessionStatus asks the provider whether the session has been paid.
	SessionStatus(ctx context.Context, orderID string) (SessionStatus, error)
}
