package sheetsync

import (
	"context"
	"errors"
	"testing"
	"time"

	insightapp "github.com/gestor/backend/internal/application/insight"
	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/sheetsync"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakePublisher struct {
	err       error
	published []*YearSnapshot
}

func (f *fakePublisher) PublishYear(ctx context.Context, snapshot *YearSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, snapshot)
	return nil
}

func newTestService(t *testing.T, publisher SheetPublisher) (*Service, *persistence.Stores) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&sheetsync.Metadata{}, &sheetsync.Snapshot{},
		&trade.Sale{}, &trade.SaleItem{},
		&finance.Income{}, &finance.Expense{}, &finance.FinancialCategory{},
		&catalog.Product{}, &partner.Client{},
		&insight.Insight{},
	))

	d := &persistence.Database{DB: db}
	stores := persistence.NewStores(d)
	insights := insightapp.NewService(stores, zap.NewNop())
	return NewService(d, stores, insights, publisher, zap.NewNop()), stores
}

func seedYear(t *testing.T, stores *persistence.Stores, year int) {
	t.Helper()
	ctx := context.Background()
	_, err := stores.Sales.Create(ctx, &trade.Sale{
		Date:  time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),
		Year:  year,
		Value: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = stores.Expenses.Create(ctx, &finance.Expense{
		Description: "rent",
		Amount:      decimal.NewFromInt(500),
		Date:        time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),
		Year:        year,
		Status:      finance.ExpenseStatusPaid,
	})
	require.NoError(t, err)
}

func TestInitializeYearSync(t *testing.T) {
	service, _ := newTestService(t, nil)
	ctx := context.Background()

	meta, err := service.InitializeYearSync(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, meta.Year)
	assert.Equal(t, sheetsync.StatusPending, meta.Status)
	assert.Nil(t, meta.LastSync)

	// Second call returns the existing record instead of inserting another.
	again, err := service.InitializeYearSync(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)

	records, err := service.ListMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSyncYear(t *testing.T) {
	ctx := context.Background()

	t.Run("successful pass completes and mirrors snapshots", func(t *testing.T) {
		publisher := &fakePublisher{}
		service, stores := newTestService(t, publisher)
		seedYear(t, stores, 2026)

		meta := service.SyncYear(ctx, 2026)
		require.NotNil(t, meta)
		assert.Equal(t, sheetsync.StatusCompleted, meta.Status)
		assert.Empty(t, meta.Error)
		require.NotNil(t, meta.LastSync)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, 2026, publisher.published[0].Year)
		assert.Len(t, publisher.published[0].Sales, 1)

		var snapshots []sheetsync.Snapshot
		require.NoError(t, stores.SyncSnapshots.FindWhere(ctx, &snapshots, "year = ?", 2026))
		assert.Len(t, snapshots, 4, "one snapshot per kind")
	})

	t.Run("publish failure lands in the error state, not an error return", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("sheet quota exceeded")}
		service, _ := newTestService(t, publisher)

		meta := service.SyncYear(ctx, 2026)
		require.NotNil(t, meta)
		assert.Equal(t, sheetsync.StatusError, meta.Status)
		assert.Contains(t, meta.Error, "sheet quota exceeded")
		assert.Nil(t, meta.LastSync)
	})

	t.Run("re-run after error recovers and clears the message", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("transient")}
		service, stores := newTestService(t, publisher)
		seedYear(t, stores, 2026)

		failed := service.SyncYear(ctx, 2026)
		require.NotNil(t, failed)
		require.Equal(t, sheetsync.StatusError, failed.Status)

		publisher.err = nil
		meta := service.SyncYear(ctx, 2026)
		require.NotNil(t, meta)
		assert.Equal(t, sheetsync.StatusCompleted, meta.Status)
		assert.Empty(t, meta.Error)
		assert.Equal(t, failed.ID, meta.ID, "the per-year record is reused")
	})

	t.Run("re-run overwrites snapshots instead of accumulating", func(t *testing.T) {
		service, stores := newTestService(t, nil)
		seedYear(t, stores, 2026)

		require.NotNil(t, service.SyncYear(ctx, 2026))
		require.NotNil(t, service.SyncYear(ctx, 2026))

		var snapshots []sheetsync.Snapshot
		require.NoError(t, stores.SyncSnapshots.FindWhere(ctx, &snapshots, "year = ?", 2026))
		assert.Len(t, snapshots, 4)
	})

	t.Run("a running year is not re-entered", func(t *testing.T) {
		publisher := &fakePublisher{}
		service, stores := newTestService(t, publisher)

		meta, err := service.InitializeYearSync(ctx, 2026)
		require.NoError(t, err)
		_, err = stores.SyncMetadata.Update(ctx, meta.ID, func(m *sheetsync.Metadata) {
			m.Status = sheetsync.StatusSyncing
		})
		require.NoError(t, err)

		got := service.SyncYear(ctx, 2026)
		require.NotNil(t, got)
		assert.Equal(t, sheetsync.StatusSyncing, got.Status)
		assert.Empty(t, publisher.published)
	})

	t.Run("years are tracked independently", func(t *testing.T) {
		service, stores := newTestService(t, nil)
		seedYear(t, stores, 2025)
		seedYear(t, stores, 2026)

		require.Equal(t, sheetsync.StatusCompleted, service.SyncYear(ctx, 2025).Status)

		meta, err := service.Metadata(ctx, 2026)
		require.NoError(t, err)
		assert.Nil(t, meta, "untouched year has no record")
	})
}
