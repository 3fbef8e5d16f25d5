package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleLine is one requested line item of a sale
type SaleLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput carries the validated fields for a new sale
type CreateSaleInput struct {
	Date     time.Time
	Value    decimal.Decimal
	ClientID *uuid.UUID
	PersonID *uuid.UUID
	Lines    []SaleLine
}

// SaleWithItems pairs a sale with its line items
type SaleWithItems struct {
	Sale  trade.Sale       `json:"sale"`
	Items []trade.SaleItem `json:"items"`
}

// SaleService writes sales together with their line items. The sale and its
// items always land in one store transaction: there is never a sale with a
// partial item set.
type SaleService struct {
	db     *persistence.Database
	stores *persistence.Stores
	logger *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(db *persistence.Database, stores *persistence.Stores, logger *zap.Logger) *SaleService {
	return &SaleService{db: db, stores: stores, logger: logger.Named("trade")}
}

// CreateSale inserts the sale and all of its line items atomically
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*SaleWithItems, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("sale needs at least one line item: %w", shared.ErrInvalidInput)
	}

	var result SaleWithItems
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.stores.Sales.WithTx(tx).Create(ctx, &trade.Sale{
			Date:     input.Date,
			Year:     input.Date.Year(),
			Value:    input.Value,
			ClientID: input.ClientID,
			PersonID: input.PersonID,
		})
		if err != nil {
			return err
		}

		items := make([]*trade.SaleItem, len(input.Lines))
		for i, line := range input.Lines {
			items[i] = &trade.SaleItem{
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
		}
		created, err := s.stores.SaleItems.WithTx(tx).BulkCreate(ctx, items)
		if err != nil {
			return err
		}

		result.Sale = *sale
		result.Items = make([]trade.SaleItem, len(created))
		for i, it := range created {
			result.Items[i] = *it
		}
		return nil
	})
	if err != nil {
		s.logger.Error("sale creation rolled back", zap.Error(err))
		return nil, err
	}
	return &result, nil
}

// EditSale updates the sale fields and replaces the full line item set in
// one transaction.
func (s *SaleService) EditSale(ctx context.Context, id uuid.UUID, input CreateSaleInput) (*SaleWithItems, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("sale needs at least one line item: %w", shared.ErrInvalidInput)
	}

	var result SaleWithItems
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.stores.Sales.WithTx(tx).Update(ctx, id, func(sa *trade.Sale) {
			sa.Date = input.Date
			sa.Year = input.Date.Year()
			sa.Value = input.Value
			sa.ClientID = input.ClientID
			sa.PersonID = input.PersonID
		})
		if err != nil {
			return err
		}

		if err := tx.Delete(&trade.SaleItem{}, "sale_id = ?", id).Error; err != nil {
			return fmt.Errorf("replace sale items: %w", errors.Join(shared.ErrPersistence, err))
		}

		items := make([]*trade.SaleItem, len(input.Lines))
		for i, line := range input.Lines {
			items[i] = &trade.SaleItem{
				SaleID:    id,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
		}
		created, err := s.stores.SaleItems.WithTx(tx).BulkCreate(ctx, items)
		if err != nil {
			return err
		}

		result.Sale = *sale
		result.Items = make([]trade.SaleItem, len(created))
		for i, it := range created {
			result.Items[i] = *it
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSale removes the sale and its items atomically. Deleting an absent
// sale is a no-op.
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&trade.SaleItem{}, "sale_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete sale items: %w", errors.Join(shared.ErrPersistence, err))
		}
		return s.stores.Sales.WithTx(tx).Delete(ctx, id)
	})
}

// GetSale returns the sale and its items, or nil when the sale is absent
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleWithItems, error) {
	sale, err := s.stores.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}

	var items []trade.SaleItem
	if err := s.stores.SaleItems.FindWhere(ctx, &items, "sale_id = ?", id); err != nil {
		return nil, err
	}
	return &SaleWithItems{Sale: *sale, Items: items}, nil
}

// ListSales returns all sales without their items
func (s *SaleService) ListSales(ctx context.Context) ([]trade.Sale, error) {
	return s.stores.Sales.FindAll(ctx)
}
