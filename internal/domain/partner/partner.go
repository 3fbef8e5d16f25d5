package partner

import (
	"github.com/gestor/backend/internal/domain/shared"
)

// Client is a paying customer of a for-profit organisation
type Client struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Email    string `gorm:"type:varchar(200)" json:"email"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Document string `gorm:"type:varchar(50)" json:"document"`
	Address  string `gorm:"type:text" json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// Person is an assisted person tracked by a nonprofit organisation
type Person struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Email    string `gorm:"type:varchar(200)" json:"email"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Document string `gorm:"type:varchar(50)" json:"document"`
	Address  string `gorm:"type:text" json:"address"`
	Notes    string `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Person) TableName() string {
	return "persons"
}

// DonorType distinguishes the legal nature of a donor
type DonorType string

const (
	DonorIndividual   DonorType = "individual"
	DonorCompany      DonorType = "company"
	DonorOrganization DonorType = "organization"
)

// Donor contributes incomes to a nonprofit organisation
type Donor struct {
	shared.BaseEntity
	Name     string    `gorm:"type:varchar(200);not null" json:"name"`
	Email    string    `gorm:"type:varchar(200)" json:"email"`
	Phone    string    `gorm:"type:varchar(50)" json:"phone"`
	Document string    `gorm:"type:varchar(50)" json:"document"`
	Type     DonorType `gorm:"type:varchar(20);not null;default:'individual'" json:"type"`
	Address  string    `gorm:"type:text" json:"address"`
	Notes    string    `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Donor) TableName() string {
	return "donors"
}
