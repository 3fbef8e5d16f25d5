package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeProvider struct {
	status *billing.RemoteStatus
	err    error
	calls  int
}

func (f *fakeProvider) FetchStatus(ctx context.Context) (*billing.RemoteStatus, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func newTestService(t *testing.T, provider billing.StatusProvider) (*SubscriptionService, *persistence.Stores) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billing.SubscriptionStatus{}))

	stores := persistence.NewStores(&persistence.Database{DB: db})
	return NewSubscriptionService(stores, provider, zap.NewNop()), stores
}

func seedStatus(t *testing.T, stores *persistence.Stores, age time.Duration, plan billing.Plan) {
	t.Helper()
	_, err := stores.Subscription.CreateWithID(context.Background(), billing.StatusID, &billing.SubscriptionStatus{
		Active:   true,
		Plan:     plan,
		Billing:  billing.BillingMonthly,
		LastSync: time.Now().UTC().Add(-age),
	})
	require.NoError(t, err)
}

func TestSubscriptionStatus(t *testing.T) {
	ctx := context.Background()
	remote := &billing.RemoteStatus{
		Active:           true,
		Plan:             billing.PlanPremium,
		Billing:          billing.BillingYearly,
		CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour),
	}

	t.Run("fresh cache is served without a remote call", func(t *testing.T) {
		provider := &fakeProvider{status: remote}
		service, stores := newTestService(t, provider)
		seedStatus(t, stores, 10*time.Minute, billing.PlanFree)

		status, source, err := service.Status(ctx)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, cache.SourceHit, source)
		assert.Equal(t, billing.PlanFree, status.Plan)
		assert.Zero(t, provider.calls)
	})

	t.Run("expired cache refetches and upserts the singleton", func(t *testing.T) {
		provider := &fakeProvider{status: remote}
		service, stores := newTestService(t, provider)
		seedStatus(t, stores, 2*time.Hour, billing.PlanFree)

		status, source, err := service.Status(ctx)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, cache.SourceRefreshed, source)
		assert.Equal(t, billing.PlanPremium, status.Plan)
		assert.Equal(t, 1, provider.calls)

		rows, err := stores.Subscription.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1, "the cache stays a singleton row")
		assert.Equal(t, billing.StatusID, rows[0].ID)
		assert.Equal(t, billing.PlanPremium, rows[0].Plan)
	})

	t.Run("remote failure serves the stale cache", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("remote down")}
		service, stores := newTestService(t, provider)
		seedStatus(t, stores, 2*time.Hour, billing.PlanPremium)

		status, source, err := service.Status(ctx)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, cache.SourceStale, source)
		assert.Equal(t, billing.PlanPremium, status.Plan)
	})

	t.Run("remote failure with no cache yields nil without error", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("remote down")}
		service, _ := newTestService(t, provider)

		status, _, err := service.Status(ctx)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("no provider and no cache yields nil without error", func(t *testing.T) {
		service, _ := newTestService(t, nil)

		status, _, err := service.Status(ctx)
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("empty cache with working provider populates it", func(t *testing.T) {
		provider := &fakeProvider{status: remote}
		service, stores := newTestService(t, provider)

		status, source, err := service.Status(ctx)
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.Equal(t, cache.SourceRefreshed, source)

		cached, err := stores.Subscription.FindByID(ctx, billing.StatusID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.True(t, cached.Active)
	})
}

func TestSubscriptionRefresh(t *testing.T) {
	ctx := context.Background()

	provider := &fakeProvider{status: &billing.RemoteStatus{Active: true, Plan: billing.PlanPremium, Billing: billing.BillingMonthly}}
	service, stores := newTestService(t, provider)
	seedStatus(t, stores, time.Minute, billing.PlanFree)

	// Refresh ignores cache age.
	status, err := service.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, billing.PlanPremium, status.Plan)
	assert.Equal(t, 1, provider.calls)
}
