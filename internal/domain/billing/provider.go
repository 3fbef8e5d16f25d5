package billing

import (
	"context"
	"errors"
	"time"
)

// ErrNoProvider is returned when subscription status is requested while no
// payment provider is configured
var ErrNoProvider = errors.New("no payment provider configured")

// RemoteStatus is the raw subscription state reported by the payment
// provider. The cache layer wraps it with identity and sync timestamps.
type RemoteStatus struct {
	Active            bool
	Plan              Plan
	Billing           BillingInterval
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// StatusProvider is the payment-provider collaborator. It only supplies
// subscription status on demand; checkout and redirect handling live outside
// this system.
type StatusProvider interface {
	FetchStatus(ctx context.Context) (*RemoteStatus, error)
}
