package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*SaleService, *persistence.Database, *persistence.Stores) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&trade.Sale{}, &trade.SaleItem{}))

	d := &persistence.Database{DB: db}
	stores := persistence.NewStores(d)
	return NewSaleService(d, stores, zap.NewNop()), d, stores
}

func saleInput(lines ...SaleLine) CreateSaleInput {
	return CreateSaleInput{
		Date:  time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Value: decimal.NewFromFloat(42.5),
		Lines: lines,
	}
}

func TestCreateSale(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("creates sale with items", func(t *testing.T) {
		result, err := service.CreateSale(ctx, saleInput(
			SaleLine{ProductID: uuid.New(), Quantity: 2},
			SaleLine{ProductID: uuid.New(), Quantity: 1},
		))
		require.NoError(t, err)

		assert.Equal(t, 2026, result.Sale.Year, "year derived from date")
		require.Len(t, result.Items, 2)
		for _, item := range result.Items {
			assert.Equal(t, result.Sale.ID, item.SaleID)
		}
	})

	t.Run("rejects empty line set", func(t *testing.T) {
		_, err := service.CreateSale(ctx, saleInput())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("rolls back the sale when an item write fails", func(t *testing.T) {
		service, d, stores := newTestService(t)

		// Drop the items table so the second write of the transaction fails.
		require.NoError(t, d.DB.Migrator().DropTable(&trade.SaleItem{}))

		_, err := service.CreateSale(ctx, saleInput(SaleLine{ProductID: uuid.New(), Quantity: 1}))
		require.Error(t, err)

		sales, err := stores.Sales.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, sales, "no sale row may survive a failed item write")
	})
}

func TestEditSale(t *testing.T) {
	service, _, stores := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateSale(ctx, saleInput(
		SaleLine{ProductID: uuid.New(), Quantity: 2},
		SaleLine{ProductID: uuid.New(), Quantity: 3},
	))
	require.NoError(t, err)

	t.Run("replaces the full item set", func(t *testing.T) {
		newProduct := uuid.New()
		input := saleInput(SaleLine{ProductID: newProduct, Quantity: 5})
		input.Value = decimal.NewFromInt(99)

		edited, err := service.EditSale(ctx, created.Sale.ID, input)
		require.NoError(t, err)

		assert.True(t, edited.Sale.Value.Equal(decimal.NewFromInt(99)))
		require.Len(t, edited.Items, 1)
		assert.Equal(t, newProduct, edited.Items[0].ProductID)

		var items []trade.SaleItem
		require.NoError(t, stores.SaleItems.FindWhere(ctx, &items, "sale_id = ?", created.Sale.ID))
		assert.Len(t, items, 1, "old items are gone")
	})

	t.Run("absent sale is ErrNotFound", func(t *testing.T) {
		_, err := service.EditSale(ctx, uuid.New(), saleInput(SaleLine{ProductID: uuid.New(), Quantity: 1}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestDeleteSale(t *testing.T) {
	service, _, stores := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateSale(ctx, saleInput(SaleLine{ProductID: uuid.New(), Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, service.DeleteSale(ctx, created.Sale.ID))

	sale, err := service.GetSale(ctx, created.Sale.ID)
	require.NoError(t, err)
	assert.Nil(t, sale)

	var items []trade.SaleItem
	require.NoError(t, stores.SaleItems.FindWhere(ctx, &items, "sale_id = ?", created.Sale.ID))
	assert.Empty(t, items)

	// Deleting again is a no-op.
	assert.NoError(t, service.DeleteSale(ctx, created.Sale.ID))
}

func TestGetSale(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateSale(ctx, saleInput(SaleLine{ProductID: uuid.New(), Quantity: 4}))
	require.NoError(t, err)

	got, err := service.GetSale(ctx, created.Sale.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Sale.ID, got.Sale.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)
}
