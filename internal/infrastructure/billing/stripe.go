// Package billing adapts the Stripe API to the domain's StatusProvider port.
// Nothing outside cmd wiring imports this package; the application layer only
// sees the interface.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeProvider fetches subscription status from Stripe
type StripeProvider struct {
	subscriptionID string
	logger         *zap.Logger
}

// NewStripeProvider creates a Stripe-backed status provider
func NewStripeProvider(cfg config.PaymentConfig, logger *zap.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if cfg.SubscriptionID == "" {
		return nil, fmt.Errorf("stripe: subscription id is required")
	}
	stripe.Key = cfg.SecretKey

	return &StripeProvider{
		subscriptionID: cfg.SubscriptionID,
		logger:         logger.Named("stripe"),
	}, nil
}

// FetchStatus retrieves the current subscription state from Stripe
func (p *StripeProvider) FetchStatus(ctx context.Context) (*billing.RemoteStatus, error) {
	p.logger.Debug("fetching subscription status",
		zap.String("subscription_id", p.subscriptionID))

	sub, err := subscription.Get(p.subscriptionID, &stripe.SubscriptionParams{})
	if err != nil {
		p.logger.Warn("subscription fetch failed",
			zap.String("subscription_id", p.subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get subscription: %w", err)
	}

	status := &billing.RemoteStatus{
		Active:            isActive(sub.Status),
		Plan:              billing.PlanFree,
		Billing:           billing.BillingMonthly,
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if status.Active {
		status.Plan = billing.PlanPremium
	}
	if len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil && item.Price.Recurring != nil &&
			item.Price.Recurring.Interval == stripe.PriceRecurringIntervalYear {
			status.Billing = billing.BillingYearly
		}
	}
	return status, nil
}

func isActive(s stripe.SubscriptionStatus) bool {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return true
	}
	return false
}
