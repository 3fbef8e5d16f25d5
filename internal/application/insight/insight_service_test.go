package insight

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *persistence.Database, *persistence.Stores) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&insight.Insight{},
		&trade.Sale{}, &trade.SaleItem{},
		&catalog.Product{},
		&finance.Expense{}, &finance.FinancialCategory{},
		&partner.Client{},
	))

	d := &persistence.Database{DB: db}
	stores := persistence.NewStores(d)
	return NewService(stores, zap.NewNop()), d, stores
}

func cacheInsight(t *testing.T, stores *persistence.Stores, kind insight.Kind, year int, age time.Duration, payload string) {
	t.Helper()
	_, err := stores.Insights.Create(context.Background(), &insight.Insight{
		Type:      kind,
		Year:      year,
		Timestamp: time.Now().UTC().Add(-age),
		Data:      json.RawMessage(payload),
	})
	require.NoError(t, err)
}

func TestInsightGet(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh cached record is served as-is", func(t *testing.T) {
		service, _, stores := newTestService(t)
		cacheInsight(t, stores, insight.KindSales, 2026, time.Hour, `{"top_products":[{"name":"cached"}]}`)

		result, err := service.Get(ctx, insight.KindSales, 2026)
		require.NoError(t, err)
		assert.Equal(t, SourceCached, result.Source)
		assert.JSONEq(t, `{"top_products":[{"name":"cached"}]}`, string(result.Data))

		rows, err := stores.Insights.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "no recompute within the staleness window")
	})

	t.Run("aged record triggers recompute and a new row", func(t *testing.T) {
		service, _, stores := newTestService(t)
		cacheInsight(t, stores, insight.KindSales, 2026, 25*time.Hour, `{"top_products":[]}`)

		product, err := stores.Products.Create(ctx, &catalog.Product{
			Name:  "Espresso",
			Price: decimal.NewFromFloat(3.5),
		})
		require.NoError(t, err)
		sale, err := stores.Sales.Create(ctx, &trade.Sale{
			Date:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Year:  2026,
			Value: decimal.NewFromFloat(7),
		})
		require.NoError(t, err)
		_, err = stores.SaleItems.Create(ctx, &trade.SaleItem{
			SaleID: sale.ID, ProductID: product.ID, Quantity: 2,
		})
		require.NoError(t, err)

		result, err := service.Get(ctx, insight.KindSales, 2026)
		require.NoError(t, err)
		assert.Equal(t, SourceComputed, result.Source)

		var perf insight.SalesPerformance
		require.NoError(t, json.Unmarshal(result.Data, &perf))
		require.Len(t, perf.TopProducts, 1)
		assert.Equal(t, "Espresso", perf.TopProducts[0].Name)
		assert.InDelta(t, 7.0, perf.TopProducts[0].Revenue, 0.001)

		rows, err := stores.Insights.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 2, "recompute persists a fresh row")
	})

	t.Run("compute failure with no cache falls back to default", func(t *testing.T) {
		service, d, _ := newTestService(t)
		require.NoError(t, d.DB.Migrator().DropTable(&trade.Sale{}))

		result, err := service.Get(ctx, insight.KindSales, 2026)
		require.NoError(t, err, "a dashboard read never fails outright")
		assert.Equal(t, SourceFallback, result.Source)

		raw, merr := json.Marshal(insight.DefaultPayload(insight.KindSales))
		require.NoError(t, merr)
		assert.JSONEq(t, string(raw), string(result.Data))
	})

	t.Run("compute failure with stale cache serves the stale record", func(t *testing.T) {
		service, d, stores := newTestService(t)
		cacheInsight(t, stores, insight.KindSales, 2026, 48*time.Hour, `{"top_products":[{"name":"old"}]}`)
		require.NoError(t, d.DB.Migrator().DropTable(&trade.Sale{}))

		result, err := service.Get(ctx, insight.KindSales, 2026)
		require.NoError(t, err)
		assert.Equal(t, SourceCached, result.Source)
		assert.JSONEq(t, `{"top_products":[{"name":"old"}]}`, string(result.Data))
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		service, _, _ := newTestService(t)
		_, err := service.Get(ctx, insight.Kind("weather"), 2026)
		require.Error(t, err)
	})

	t.Run("sentiment always yields the default payload", func(t *testing.T) {
		service, _, _ := newTestService(t)
		result, err := service.Get(ctx, insight.KindSentiment, 2026)
		require.NoError(t, err)
		assert.Equal(t, SourceComputed, result.Source)

		raw, merr := json.Marshal(insight.DefaultPayload(insight.KindSentiment))
		require.NoError(t, merr)
		assert.JSONEq(t, string(raw), string(result.Data))
	})
}

func TestInsightGenerateAll(t *testing.T) {
	service, _, _ := newTestService(t)

	out, err := service.GenerateAll(context.Background(), 2026)
	require.NoError(t, err)
	assert.Len(t, out, len(insight.Kinds()))
	for _, kind := range insight.Kinds() {
		assert.Contains(t, out, kind)
	}
}
