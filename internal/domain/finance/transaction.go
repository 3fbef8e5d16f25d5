package finance

import (
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCategory classifies a ledger transaction. The record shape went
// through a category-id phase historically; the current shape carries the
// category enum directly on the transaction.
type TransactionCategory string

const (
	CategoryIncome  TransactionCategory = "income"
	CategoryExpense TransactionCategory = "expense"
)

// Transaction is a single entry in the financial ledger
type Transaction struct {
	shared.BaseEntity
	Category TransactionCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Value    decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"value"`
	Date     time.Time           `gorm:"not null" json:"date"`
	Year     int                 `gorm:"not null;index" json:"year"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// FinancialCategory is a user-defined bucket for incomes and expenses
type FinancialCategory struct {
	shared.BaseEntity
	Name string              `gorm:"type:varchar(100);not null" json:"name"`
	Type TransactionCategory `gorm:"type:varchar(20);not null" json:"type"`
}

// TableName returns the table name for GORM
func (FinancialCategory) TableName() string {
	return "financial_categories"
}

// IncomeStatus represents the lifecycle state of an income record
type IncomeStatus string

const (
	IncomeStatusPending   IncomeStatus = "pending"
	IncomeStatusCompleted IncomeStatus = "completed"
	IncomeStatusCancelled IncomeStatus = "cancelled"
)

// Income is money received outside of point-of-sale flow: donations, grants
// and other receipts. Nonprofit organisations use this as their main ledger.
type Income struct {
	shared.BaseEntity
	Description   string          `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Year          int             `gorm:"not null;index" json:"year"`
	DonorID       *uuid.UUID      `gorm:"type:uuid;index" json:"donor_id,omitempty"`
	Category      string          `gorm:"type:varchar(100)" json:"category"`
	IsRecurring   bool            `gorm:"not null;default:false" json:"is_recurring"`
	Status        IncomeStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Income) TableName() string {
	return "incomes"
}

// ExpenseStatus represents the lifecycle state of an expense record
type ExpenseStatus string

const (
	ExpenseStatusPending   ExpenseStatus = "pending"
	ExpenseStatusPaid      ExpenseStatus = "paid"
	ExpenseStatusCancelled ExpenseStatus = "cancelled"
)

// Expense is a cost entry, optionally recurring on a monthly due day
type Expense struct {
	shared.BaseEntity
	Description   string          `gorm:"type:text;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Date          time.Time       `gorm:"not null" json:"date"`
	Year          int             `gorm:"not null;index" json:"year"`
	IsRecurring   bool            `gorm:"not null;default:false" json:"is_recurring"`
	DueDay        *int            `json:"due_day,omitempty"`
	Status        ExpenseStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}
