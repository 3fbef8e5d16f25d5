package persistence

import (
	"github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/partner"
	"github.com/gestor/backend/internal/domain/settings"
	"github.com/gestor/backend/internal/domain/sheetsync"
	"github.com/gestor/backend/internal/domain/trade"
)

// Named instantiations, for collaborators that take a single store
type (
	ConfigStore       = Store[settings.SystemConfig, *settings.SystemConfig]
	ProductStore      = Store[catalog.Product, *catalog.Product]
	SaleStore         = Store[trade.Sale, *trade.Sale]
	SaleItemStore     = Store[trade.SaleItem, *trade.SaleItem]
	TransactionStore  = Store[finance.Transaction, *finance.Transaction]
	CategoryStore     = Store[finance.FinancialCategory, *finance.FinancialCategory]
	IncomeStore       = Store[finance.Income, *finance.Income]
	ExpenseStore      = Store[finance.Expense, *finance.Expense]
	ClientStore       = Store[partner.Client, *partner.Client]
	PersonStore       = Store[partner.Person, *partner.Person]
	DonorStore        = Store[partner.Donor, *partner.Donor]
	UserStore         = Store[identity.SystemUser, *identity.SystemUser]
	InsightStore      = Store[insight.Insight, *insight.Insight]
	SubscriptionStore = Store[billing.SubscriptionStatus, *billing.SubscriptionStatus]
	SyncMetadataStore = Store[sheetsync.Metadata, *sheetsync.Metadata]
	SyncSnapshotStore = Store[sheetsync.Snapshot, *sheetsync.Snapshot]
)

// Stores bundles one generic store instantiation per collection. Everything
// above the persistence layer goes through these; there is exactly one
// instantiation per entity kind.
type Stores struct {
	Config        *Store[settings.SystemConfig, *settings.SystemConfig]
	Products      *Store[catalog.Product, *catalog.Product]
	Sales         *Store[trade.Sale, *trade.Sale]
	SaleItems     *Store[trade.SaleItem, *trade.SaleItem]
	Transactions  *Store[finance.Transaction, *finance.Transaction]
	Categories    *Store[finance.FinancialCategory, *finance.FinancialCategory]
	Incomes       *Store[finance.Income, *finance.Income]
	Expenses      *Store[finance.Expense, *finance.Expense]
	Clients       *Store[partner.Client, *partner.Client]
	Persons       *Store[partner.Person, *partner.Person]
	Donors        *Store[partner.Donor, *partner.Donor]
	Users         *Store[identity.SystemUser, *identity.SystemUser]
	Insights      *Store[insight.Insight, *insight.Insight]
	Subscription  *Store[billing.SubscriptionStatus, *billing.SubscriptionStatus]
	SyncMetadata  *Store[sheetsync.Metadata, *sheetsync.Metadata]
	SyncSnapshots *Store[sheetsync.Snapshot, *sheetsync.Snapshot]
}

// NewStores builds the store set over an opened database handle
func NewStores(db *Database) *Stores {
	return &Stores{
		Config:        NewStore[settings.SystemConfig](db.DB, "system config"),
		Products:      NewStore[catalog.Product](db.DB, "product"),
		Sales:         NewStore[trade.Sale](db.DB, "sale"),
		SaleItems:     NewStore[trade.SaleItem](db.DB, "sale item"),
		Transactions:  NewStore[finance.Transaction](db.DB, "transaction"),
		Categories:    NewStore[finance.FinancialCategory](db.DB, "financial category"),
		Incomes:       NewStore[finance.Income](db.DB, "income"),
		Expenses:      NewStore[finance.Expense](db.DB, "expense"),
		Clients:       NewStore[partner.Client](db.DB, "client"),
		Persons:       NewStore[partner.Person](db.DB, "person"),
		Donors:        NewStore[partner.Donor](db.DB, "donor"),
		Users:         NewStore[identity.SystemUser](db.DB, "system user"),
		Insights:      NewStore[insight.Insight](db.DB, "insight"),
		Subscription:  NewStore[billing.SubscriptionStatus](db.DB, "subscription status"),
		SyncMetadata:  NewStore[sheetsync.Metadata](db.DB, "sync metadata"),
		SyncSnapshots: NewStore[sheetsync.Snapshot](db.DB, "sync snapshot"),
	}
}
