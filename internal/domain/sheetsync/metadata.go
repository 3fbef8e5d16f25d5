package sheetsync

import (
	"encoding/json"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
)

// Status tracks per-year synchronization progress. Transitions are
// monotonic except that both completed and error re-enter syncing on retry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSyncing   Status = "syncing"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Metadata is the per-year synchronization record. Callers never observe a
// sync failure as an error value; they inspect Status and Error here.
type Metadata struct {
	shared.BaseEntity
	Year     int        `gorm:"not null;uniqueIndex" json:"year"`
	SheetID  string     `gorm:"type:varchar(100)" json:"sheet_id"`
	LastSync *time.Time `json:"last_sync,omitempty"`
	Status   Status     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Error    string     `gorm:"type:text" json:"error,omitempty"`
}

// TableName returns the table name for GORM
func (Metadata) TableName() string {
	return "sync_metadata"
}

// CanStart reports whether a sync run may begin from the current status.
// pending, completed and error all admit a (re)run; a concurrent run in
// syncing state does not.
func (m *Metadata) CanStart() bool {
	return m.Status != StatusSyncing
}

// SnapshotKind names one mirrored domain collection
type SnapshotKind string

const (
	SnapshotSales    SnapshotKind = "sales"
	SnapshotIncome   SnapshotKind = "income"
	SnapshotExpenses SnapshotKind = "expenses"
	SnapshotInsights SnapshotKind = "insights"
)

// Snapshot is an immutable mirror of one domain collection for one year,
// captured at sync time. Re-running a sync replaces the (Kind, Year) row.
type Snapshot struct {
	shared.BaseEntity
	Kind SnapshotKind    `gorm:"type:varchar(20);not null;uniqueIndex:idx_snapshots_kind_year,priority:1" json:"kind"`
	Year int             `gorm:"not null;uniqueIndex:idx_snapshots_kind_year,priority:2;index:idx_snapshots_year_date,priority:1" json:"year"`
	Date time.Time       `gorm:"not null;index:idx_snapshots_year_date,priority:2" json:"date"`
	Data json.RawMessage `gorm:"type:text;not null" json:"data"`
}

// TableName returns the table name for GORM
func (Snapshot) TableName() string {
	return "sync_snapshots"
}
