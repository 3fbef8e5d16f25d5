package catalog

import (
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductKind distinguishes goods from services
type ProductKind string

const (
	KindProduct ProductKind = "product"
	KindService ProductKind = "service"
)

// Product represents a sellable product or service in the catalog
type Product struct {
	shared.BaseEntity
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Kind        ProductKind     `gorm:"type:varchar(20);not null;default:'product'" json:"kind"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// IsService reports whether the record is a service (no stock tracking).
func (p *Product) IsService() bool {
	return p.Kind == KindService
}
