package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return &Database{DB: db}
}

func newProductStore(t *testing.T) *ProductStore {
	t.Helper()
	return NewStore[catalog.Product](newTestDB(t).DB, "product")
}

func TestStoreCreate(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	t.Run("stamps id and timestamps", func(t *testing.T) {
		product, err := store.Create(ctx, &catalog.Product{
			Name:  "Espresso",
			Kind:  catalog.KindProduct,
			Price: decimal.NewFromFloat(3.5),
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.False(t, product.CreatedAt.IsZero())
		assert.Equal(t, product.CreatedAt, product.UpdatedAt)
	})

	t.Run("distinct entities get distinct ids", func(t *testing.T) {
		a, err := store.Create(ctx, &catalog.Product{Name: "A"})
		require.NoError(t, err)
		b, err := store.Create(ctx, &catalog.Product{Name: "B"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestStoreFindByID(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &catalog.Product{Name: "Espresso"})
	require.NoError(t, err)

	t.Run("returns the entity", func(t *testing.T) {
		found, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Espresso", found.Name)
	})

	t.Run("absence is nil, not an error", func(t *testing.T) {
		found, err := store.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestStoreUpdate(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	t.Run("applies mutation and advances updated_at", func(t *testing.T) {
		created, err := store.Create(ctx, &catalog.Product{Name: "Espresso", Quantity: 5})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		updated, err := store.Update(ctx, created.ID, func(p *catalog.Product) {
			p.Quantity = 7
		})
		require.NoError(t, err)

		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, "Espresso", updated.Name, "untouched fields survive")
		assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
		assert.Equal(t, created.CreatedAt.UnixNano(), updated.CreatedAt.UnixNano())
	})

	t.Run("absent id is ErrNotFound", func(t *testing.T) {
		_, err := store.Update(ctx, uuid.New(), func(p *catalog.Product) {})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestStoreDelete(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, &catalog.Product{Name: "Espresso"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Idempotent: deleting again, or an id that never existed, is a no-op.
	assert.NoError(t, store.Delete(ctx, created.ID))
	assert.NoError(t, store.Delete(ctx, uuid.New()))
}

func TestStoreBulkCreate(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	batch := []*catalog.Product{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	}
	created, err := store.BulkCreate(ctx, batch)
	require.NoError(t, err)
	require.Len(t, created, 3)

	for i, name := range []string{"first", "second", "third"} {
		assert.Equal(t, name, created[i].Name, "input order preserved")
		assert.NotEqual(t, uuid.Nil, created[i].ID)
	}

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStoreFindWhere(t *testing.T) {
	store := newProductStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, &catalog.Product{Name: "Espresso", Category: "Drinks"})
	require.NoError(t, err)
	_, err = store.Create(ctx, &catalog.Product{Name: "Croissant", Category: "Bakery"})
	require.NoError(t, err)

	var drinks []catalog.Product
	require.NoError(t, store.FindWhere(ctx, &drinks, "category = ?", "Drinks"))
	require.Len(t, drinks, 1)
	assert.Equal(t, "Espresso", drinks[0].Name)
}

func TestStorePersistenceErrors(t *testing.T) {
	db := newTestDB(t)
	store := NewStore[catalog.Product](db.DB, "product")
	ctx := context.Background()

	// Pull the table out from under the store to force write failures.
	require.NoError(t, db.DB.Migrator().DropTable(&catalog.Product{}))

	_, err := store.Create(ctx, &catalog.Product{Name: "Espresso"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrPersistence))
}
