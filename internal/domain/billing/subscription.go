package billing

import (
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StatusID is the fixed primary key of the cached subscription status.
// The cache is a singleton row.
var StatusID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

// Plan is the subscription tier
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// BillingInterval is the renewal cadence
type BillingInterval string

const (
	BillingMonthly BillingInterval = "monthly"
	BillingYearly  BillingInterval = "yearly"
)

// SubscriptionStatus caches the remote subscription state. LastSync is the
// instant of the last successful remote fetch and drives staleness checks.
type SubscriptionStatus struct {
	shared.BaseEntity
	Active            bool            `gorm:"not null;default:false" json:"active"`
	Plan              Plan            `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	Billing           BillingInterval `gorm:"type:varchar(20);not null;default:'monthly'" json:"billing"`
	CurrentPeriodEnd  time.Time       `json:"current_period_end"`
	CancelAtPeriodEnd bool            `gorm:"not null;default:false" json:"cancel_at_period_end"`
	LastSync          time.Time       `gorm:"not null" json:"last_sync"`
}

// TableName returns the table name for GORM
func (SubscriptionStatus) TableName() string {
	return "subscription_status"
}
