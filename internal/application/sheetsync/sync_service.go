package sheetsync

import (
	"context"
	"encoding/json"
	"time"

	insightapp "github.com/gestor/backend/internal/application/insight"
	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/sheetsync"
	"github.com/gestor/backend/internal/domain/trade"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// YearSnapshot is the read-only data set handed to the spreadsheet
// collaborator for one year.
type YearSnapshot struct {
	Year     int                              `json:"year"`
	Sales    []trade.Sale                     `json:"sales"`
	Incomes  []finance.Income                 `json:"incomes"`
	Expenses []finance.Expense                `json:"expenses"`
	Insights map[insight.Kind]json.RawMessage `json:"insights"`
}

// SheetPublisher is the spreadsheet-sync collaborator. It receives snapshot
// data; this core does not know its transport.
type SheetPublisher interface {
	PublishYear(ctx context.Context, snapshot *YearSnapshot) error
}

// Service drives the per-year synchronization state machine:
// pending -> syncing -> completed or error, where completed and error both
// re-enter syncing on retry. Failures are recorded on the metadata record
// and never propagated as errors.
type Service struct {
	db        *persistence.Database
	stores    *persistence.Stores
	insights  *insightapp.Service
	publisher SheetPublisher
	logger    *zap.Logger
}

// NewService creates a sync Service. publisher may be nil, in which case
// snapshots are only mirrored locally.
func NewService(db *persistence.Database, stores *persistence.Stores, insights *insightapp.Service, publisher SheetPublisher, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		stores:    stores,
		insights:  insights,
		publisher: publisher,
		logger:    logger.Named("sheetsync"),
	}
}

// Metadata returns the sync record for a year, or nil when none exists
func (s *Service) Metadata(ctx context.Context, year int) (*sheetsync.Metadata, error) {
	var rows []sheetsync.Metadata
	if err := s.stores.SyncMetadata.FindWhere(ctx, &rows, "year = ?", year); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListMetadata returns the sync records for every tracked year
func (s *Service) ListMetadata(ctx context.Context) ([]sheetsync.Metadata, error) {
	return s.stores.SyncMetadata.FindAll(ctx)
}

// InitializeYearSync creates a pending metadata record for the year if none
// exists, and returns the record either way.
func (s *Service) InitializeYearSync(ctx context.Context, year int) (*sheetsync.Metadata, error) {
	existing, err := s.Metadata(ctx, year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.stores.SyncMetadata.Create(ctx, &sheetsync.Metadata{
		Year:   year,
		Status: sheetsync.StatusPending,
	})
}

// SyncYear runs a full synchronization pass for one year. The returned
// metadata record is the only failure channel: on any error during
// gathering, mirroring or publishing, the record transitions to error with
// the captured message and SyncYear still returns normally. Re-running for a
// completed year overwrites the mirrored snapshots.
func (s *Service) SyncYear(ctx context.Context, year int) *sheetsync.Metadata {
	meta, err := s.InitializeYearSync(ctx, year)
	if err != nil {
		s.logger.Error("cannot initialize year sync", zap.Int("year", year), zap.Error(err))
		return nil
	}
	if !meta.CanStart() {
		s.logger.Warn("sync already running", zap.Int("year", year))
		return meta
	}

	meta, err = s.transition(ctx, meta, func(m *sheetsync.Metadata) {
		m.Status = sheetsync.StatusSyncing
		m.Error = ""
	})
	if err != nil {
		s.logger.Error("cannot mark year as syncing", zap.Int("year", year), zap.Error(err))
		return meta
	}

	if err := s.run(ctx, year); err != nil {
		s.logger.Warn("year sync failed", zap.Int("year", year), zap.Error(err))
		meta, _ = s.transition(ctx, meta, func(m *sheetsync.Metadata) {
			m.Status = sheetsync.StatusError
			m.Error = err.Error()
		})
		return meta
	}

	now := time.Now().UTC()
	meta, err = s.transition(ctx, meta, func(m *sheetsync.Metadata) {
		m.Status = sheetsync.StatusCompleted
		m.Error = ""
		m.LastSync = &now
	})
	if err != nil {
		s.logger.Error("cannot mark year as completed", zap.Int("year", year), zap.Error(err))
	}
	return meta
}

func (s *Service) transition(ctx context.Context, meta *sheetsync.Metadata, apply func(*sheetsync.Metadata)) (*sheetsync.Metadata, error) {
	return s.stores.SyncMetadata.Update(ctx, meta.ID, apply)
}

// run gathers the year's data, mirrors it into the snapshot collection and
// hands it to the publisher.
func (s *Service) run(ctx context.Context, year int) error {
	snapshot, err := s.gather(ctx, year)
	if err != nil {
		return err
	}
	if err := s.mirror(ctx, snapshot); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishYear(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) gather(ctx context.Context, year int) (*YearSnapshot, error) {
	snapshot := &YearSnapshot{Year: year}

	if err := s.stores.Sales.FindWhere(ctx, &snapshot.Sales, "year = ?", year); err != nil {
		return nil, err
	}
	if err := s.stores.Incomes.FindWhere(ctx, &snapshot.Incomes, "year = ?", year); err != nil {
		return nil, err
	}
	if err := s.stores.Expenses.FindWhere(ctx, &snapshot.Expenses, "year = ?", year); err != nil {
		return nil, err
	}

	insights, err := s.insights.GenerateAll(ctx, year)
	if err != nil {
		return nil, err
	}
	snapshot.Insights = insights
	return snapshot, nil
}

// mirror writes the immutable snapshot rows, replacing any previous rows for
// the same (kind, year) inside one transaction.
func (s *Service) mirror(ctx context.Context, snapshot *YearSnapshot) error {
	now := time.Now().UTC()
	payloads := []struct {
		kind sheetsync.SnapshotKind
		data any
	}{
		{sheetsync.SnapshotSales, snapshot.Sales},
		{sheetsync.SnapshotIncome, snapshot.Incomes},
		{sheetsync.SnapshotExpenses, snapshot.Expenses},
		{sheetsync.SnapshotInsights, snapshot.Insights},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		store := s.stores.SyncSnapshots.WithTx(tx)
		for _, p := range payloads {
			raw, err := json.Marshal(p.data)
			if err != nil {
				return err
			}
			if err := tx.Delete(&sheetsync.Snapshot{}, "kind = ? AND year = ?", p.kind, snapshot.Year).Error; err != nil {
				return err
			}
			if _, err := store.Create(ctx, &sheetsync.Snapshot{
				Kind: p.kind,
				Year: snapshot.Year,
				Date: now,
				Data: raw,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
