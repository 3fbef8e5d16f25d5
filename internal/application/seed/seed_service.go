// Package seed loads first-run data: the default financial categories every
// installation gets, and an optional demo data set for evaluation installs.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed seed_data.json
var seedData []byte

type seedFile struct {
	Categories []struct {
		Name string                      `json:"name"`
		Type finance.TransactionCategory `json:"type"`
	} `json:"categories"`
	Products []struct {
		Name     string              `json:"name"`
		Kind     catalog.ProductKind `json:"kind"`
		Price    decimal.Decimal     `json:"price"`
		Quantity int                 `json:"quantity"`
		Category string              `json:"category"`
	} `json:"products"`
	Clients []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"clients"`
}

// Service seeds initial records into an empty store
type Service struct {
	stores *persistence.Stores
	logger *zap.Logger
}

// NewService creates a new seed Service
func NewService(stores *persistence.Stores, logger *zap.Logger) *Service {
	return &Service{stores: stores, logger: logger.Named("seed")}
}

// Run seeds default categories, and demo catalog data when demo is true.
// Each section only runs against an empty collection, so Run is safe to call
// on every startup.
func (s *Service) Run(ctx context.Context, demo bool) error {
	var data seedFile
	if err := json.Unmarshal(seedData, &data); err != nil {
		return fmt.Errorf("parse embedded seed data: %w", err)
	}

	if err := s.seedCategories(ctx, data); err != nil {
		return err
	}
	if !demo {
		return nil
	}
	if err := s.seedProducts(ctx, data); err != nil {
		return err
	}
	return s.seedClients(ctx, data)
}

func (s *Service) seedCategories(ctx context.Context, data seedFile) error {
	existing, err := s.stores.Categories.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	categories := make([]*finance.FinancialCategory, len(data.Categories))
	for i, c := range data.Categories {
		categories[i] = &finance.FinancialCategory{Name: c.Name, Type: c.Type}
	}
	if _, err := s.stores.Categories.BulkCreate(ctx, categories); err != nil {
		return err
	}
	s.logger.Info("seeded default financial categories", zap.Int("count", len(categories)))
	return nil
}

func (s *Service) seedProducts(ctx context.Context, data seedFile) error {
	existing, err := s.stores.Products.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	products := make([]*catalog.Product, len(data.Products))
	for i, p := range data.Products {
		products[i] = &catalog.Product{
			Name:     p.Name,
			Kind:     p.Kind,
			Price:    p.Price,
			Quantity: p.Quantity,
			Category: p.Category,
			Active:   true,
		}
	}
	if _, err := s.stores.Products.BulkCreate(ctx, products); err != nil {
		return err
	}
	s.logger.Info("seeded demo products", zap.Int("count", len(products)))
	return nil
}

func (s *Service) seedClients(ctx context.Context, data seedFile) error {
	existing, err := s.stores.Clients.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	clients := make([]*partner.Client, len(data.Clients))
	for i, c := range data.Clients {
		clients[i] = &partner.Client{Name: c.Name, Email: c.Email, Phone: c.Phone}
	}
	if _, err := s.stores.Clients.BulkCreate(ctx, clients); err != nil {
		return err
	}
	s.logger.Info("seeded demo clients", zap.Int("count", len(clients)))
	return nil
}
