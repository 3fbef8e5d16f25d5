package settings

import (
	"context"
	"testing"

	"github.com/gestor/backend/internal/domain/settings"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*ConfigService, *persistence.Stores) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&settings.SystemConfig{}))

	d := &persistence.Database{DB: db}
	stores := persistence.NewStores(d)
	return NewConfigService(d, stores, zap.NewNop()), stores
}

func TestConfigGet(t *testing.T) {
	service, stores := newTestService(t)
	ctx := context.Background()

	t.Run("first call creates the default singleton", func(t *testing.T) {
		cfg, err := service.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.ConfigID, cfg.ID)
		assert.Equal(t, settings.OrgProfit, cfg.OrganizationType)
		assert.False(t, cfg.IsConfigured)
	})

	t.Run("later calls return the same record", func(t *testing.T) {
		cfg, err := service.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings.ConfigID, cfg.ID)

		all, err := stores.Config.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1, "exactly one config row ever exists")
	})
}

func TestConfigSave(t *testing.T) {
	service, stores := newTestService(t)
	ctx := context.Background()

	t.Run("creates the record when saving before any get", func(t *testing.T) {
		cfg, err := service.Save(ctx, func(c *settings.SystemConfig) {
			c.OrganizationName = "Padaria Central"
			c.OrganizationType = settings.OrgNonprofit
		})
		require.NoError(t, err)
		assert.Equal(t, "Padaria Central", cfg.OrganizationName)
		assert.Equal(t, settings.OrgNonprofit, cfg.OrganizationType)
	})

	t.Run("partial save leaves other fields alone", func(t *testing.T) {
		cfg, err := service.Save(ctx, func(c *settings.SystemConfig) {
			c.Currency = "USD"
		})
		require.NoError(t, err)
		assert.Equal(t, "USD", cfg.Currency)
		assert.Equal(t, "Padaria Central", cfg.OrganizationName)

		all, err := stores.Config.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("sheet id map round-trips", func(t *testing.T) {
		cfg, err := service.Save(ctx, func(c *settings.SystemConfig) {
			require.NoError(t, c.SetSheetID(2026, "sheet-abc"))
		})
		require.NoError(t, err)

		ids, err := cfg.SheetIDMap()
		require.NoError(t, err)
		assert.Equal(t, "sheet-abc", ids[2026])
	})
}
