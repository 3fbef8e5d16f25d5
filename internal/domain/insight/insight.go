package insight

import (
	"encoding/json"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
)

// Kind identifies one analytic family. Together with Year it keys the
// insights collection; at most one record per (Kind, Year) is current.
type Kind string

const (
	KindDemand       Kind = "demand_prediction"
	KindSentiment    Kind = "customer_sentiment"
	KindExpense      Kind = "expense_analysis"
	KindSales        Kind = "sales_performance"
	KindFidelization Kind = "fidelization"
)

// Kinds lists every analytic family in a stable order
func Kinds() []Kind {
	return []Kind{KindDemand, KindSentiment, KindExpense, KindSales, KindFidelization}
}

// Valid reports whether k names a known analytic family
func (k Kind) Valid() bool {
	switch k {
	case KindDemand, KindSentiment, KindExpense, KindSales, KindFidelization:
		return true
	}
	return false
}

// Insight is a cached analytic result. Timestamp is the computation instant
// used for staleness checks; it is distinct from the record timestamps.
type Insight struct {
	shared.BaseEntity
	Type      Kind            `gorm:"type:varchar(50);not null;index;index:idx_insights_year_type,priority:2" json:"type"`
	Year      int             `gorm:"not null;index;index:idx_insights_year_type,priority:1" json:"year"`
	Timestamp time.Time       `gorm:"not null;index" json:"timestamp"`
	Data      json.RawMessage `gorm:"type:text;not null" json:"data"`
}

// TableName returns the table name for GORM
func (Insight) TableName() string {
	return "insights"
}
