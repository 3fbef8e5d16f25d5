package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestor/backend/internal/domain/settings"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigService manages the singleton system configuration record
type ConfigService struct {
	db     *persistence.Database
	stores *persistence.Stores
	logger *zap.Logger
}

// NewConfigService creates a new ConfigService
func NewConfigService(db *persistence.Database, stores *persistence.Stores, logger *zap.Logger) *ConfigService {
	return &ConfigService{db: db, stores: stores, logger: logger.Named("settings")}
}

// Get returns the configuration, creating the default record on first call.
// The get-or-create runs in a transaction so two racing first calls cannot
// both insert the singleton.
func (s *ConfigService) Get(ctx context.Context) (*settings.SystemConfig, error) {
	cfg, err := s.stores.Config.FindByID(ctx, settings.ConfigID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		store := s.stores.Config.WithTx(tx)
		existing, err := store.FindByID(ctx, settings.ConfigID)
		if err != nil {
			return err
		}
		if existing != nil {
			cfg = existing
			return nil
		}
		created, err := store.CreateWithID(ctx, settings.ConfigID, settings.Default())
		if err != nil {
			return err
		}
		s.logger.Info("created default system configuration")
		cfg = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save applies a mutation to the configuration as an atomic
// read-modify-write. The record is created first when it does not exist yet.
func (s *ConfigService) Save(ctx context.Context, apply func(*settings.SystemConfig)) (*settings.SystemConfig, error) {
	var saved *settings.SystemConfig
	err := s.db.Transaction(func(tx *gorm.DB) error {
		store := s.stores.Config.WithTx(tx)
		cfg, err := store.FindByID(ctx, settings.ConfigID)
		if err != nil {
			return err
		}
		if cfg == nil {
			if cfg, err = store.CreateWithID(ctx, settings.ConfigID, settings.Default()); err != nil {
				return err
			}
		}

		cfg, err = store.Update(ctx, settings.ConfigID, apply)
		if err != nil {
			return err
		}
		saved = cfg
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// The singleton cannot vanish mid-transaction.
			return nil, fmt.Errorf("system config disappeared during save: %w", err)
		}
		return nil, err
	}
	return saved, nil
}
