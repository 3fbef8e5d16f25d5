package billing

import (
	"context"
	"time"

	"github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// CacheTTL is how long a cached subscription status is trusted before the
// remote provider is consulted again
const CacheTTL = time.Hour

// SubscriptionService serves the subscription status through the 1-hour
// cache. The remote billing provider is only consulted when the cached
// record has expired, and a provider outage degrades to the last cached
// status rather than an error.
type SubscriptionService struct {
	stores   *persistence.Stores
	provider billing.StatusProvider
	logger   *zap.Logger
}

// NewSubscriptionService creates a SubscriptionService. provider may be nil
// when no billing backend is configured; Status then serves only the cache.
func NewSubscriptionService(stores *persistence.Stores, provider billing.StatusProvider, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		stores:   stores,
		provider: provider,
		logger:   logger.Named("billing"),
	}
}

// Status returns the current subscription status. The result is nil, without
// error, when nothing is cached and the remote provider is unreachable or
// unconfigured; callers treat nil as "status unknown".
func (s *SubscriptionService) Status(ctx context.Context) (*billing.SubscriptionStatus, cache.Source, error) {
	status, source, err := cache.Lookup(ctx, CacheTTL,
		s.cached,
		s.fetch,
		s.persist,
	)
	if err != nil {
		s.logger.Warn("subscription status unavailable", zap.Error(err))
		return nil, "", nil
	}
	if source == cache.SourceStale {
		s.logger.Warn("serving stale subscription status",
			zap.Time("last_sync", status.LastSync))
	}
	return status, source, nil
}

// Refresh forces a remote fetch regardless of cache age
func (s *SubscriptionService) Refresh(ctx context.Context) (*billing.SubscriptionStatus, error) {
	status, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, status); err != nil {
		s.logger.Warn("failed to cache refreshed subscription status", zap.Error(err))
	}
	return status, nil
}

// cached loads the singleton status row; LastSync is the cache timestamp
func (s *SubscriptionService) cached(ctx context.Context) (*billing.SubscriptionStatus, time.Time, error) {
	status, err := s.stores.Subscription.FindByID(ctx, billing.StatusID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if status == nil {
		return nil, time.Time{}, nil
	}
	return status, status.LastSync, nil
}

func (s *SubscriptionService) fetch(ctx context.Context) (*billing.SubscriptionStatus, error) {
	if s.provider == nil {
		return nil, billing.ErrNoProvider
	}
	remote, err := s.provider.FetchStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &billing.SubscriptionStatus{
		Active:            remote.Active,
		Plan:              remote.Plan,
		Billing:           remote.Billing,
		CurrentPeriodEnd:  remote.CurrentPeriodEnd,
		CancelAtPeriodEnd: remote.CancelAtPeriodEnd,
		LastSync:          time.Now().UTC(),
	}, nil
}

// persist upserts the singleton row under its fixed id
func (s *SubscriptionService) persist(ctx context.Context, status *billing.SubscriptionStatus) error {
	existing, err := s.stores.Subscription.FindByID(ctx, billing.StatusID)
	if err != nil {
		return err
	}
	if existing == nil {
		_, err = s.stores.Subscription.CreateWithID(ctx, billing.StatusID, status)
		return err
	}
	_, err = s.stores.Subscription.Update(ctx, billing.StatusID, func(cur *billing.SubscriptionStatus) {
		cur.Active = status.Active
		cur.Plan = status.Plan
		cur.Billing = status.Billing
		cur.CurrentPeriodEnd = status.CurrentPeriodEnd
		cur.CancelAtPeriodEnd = status.CancelAtPeriodEnd
		cur.LastSync = status.LastSync
	})
	return err
}
