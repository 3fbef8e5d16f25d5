package trade

import (
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale represents a completed point-of-sale transaction. Its line items live
// in the sale_items collection and reference the owning sale by foreign key;
// a sale and its items are only ever written as one atomic unit.
type Sale struct {
	shared.BaseEntity
	Date     time.Time       `gorm:"not null;index" json:"date"`
	Year     int             `gorm:"not null;index" json:"year"`
	Value    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"value"`
	ClientID *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	PersonID *uuid.UUID      `gorm:"type:uuid;index" json:"person_id,omitempty"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a single line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}
