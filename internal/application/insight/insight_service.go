package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// StaleThreshold is how old a cached insight may be before it is recomputed
const StaleThreshold = 24 * time.Hour

// Source tags which path produced an insight result
type Source string

const (
	// SourceCached means a fresh-enough (or fallback-stale) cached record was served
	SourceCached Source = "cached"
	// SourceComputed means the analytic was recomputed and persisted
	SourceComputed Source = "computed"
	// SourceFallback means computation failed with no cache and the domain
	// default was served
	SourceFallback Source = "fallback"
)

// Result is a tagged insight lookup outcome
type Result struct {
	Kind   insight.Kind    `json:"type"`
	Year   int             `json:"year"`
	Data   json.RawMessage `json:"data"`
	Source Source          `json:"source"`
}

// Service serves analytics through the 24-hour insight cache. A dashboard
// read never fails outright: computation errors degrade to the last cached
// record or to the analytic's default payload.
type Service struct {
	stores *persistence.Stores
	logger *zap.Logger
}

// NewService creates a new insight Service
func NewService(stores *persistence.Stores, logger *zap.Logger) *Service {
	return &Service{stores: stores, logger: logger.Named("insight")}
}

// Get resolves one analytic for a year through the cache
func (s *Service) Get(ctx context.Context, kind insight.Kind, year int) (*Result, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown insight type %q: %w", kind, shared.ErrInvalidInput)
	}

	data, source, err := cache.Lookup(ctx, StaleThreshold,
		func(ctx context.Context) (*json.RawMessage, time.Time, error) {
			return s.latest(ctx, kind, year)
		},
		func(ctx context.Context) (*json.RawMessage, error) {
			return s.compute(ctx, kind, year)
		},
		func(ctx context.Context, value *json.RawMessage) error {
			return s.persist(ctx, kind, year, *value)
		},
	)
	if err != nil {
		// No cache and the recompute failed: serve the default so the
		// caller still renders.
		s.logger.Warn("insight fell back to default payload",
			zap.String("type", string(kind)),
			zap.Int("year", year),
			zap.Error(err))
		raw, merr := json.Marshal(insight.DefaultPayload(kind))
		if merr != nil {
			return nil, merr
		}
		return &Result{Kind: kind, Year: year, Data: raw, Source: SourceFallback}, nil
	}

	result := &Result{Kind: kind, Year: year, Data: *data}
	switch source {
	case cache.SourceRefreshed:
		result.Source = SourceComputed
	default:
		result.Source = SourceCached
	}
	return result, nil
}

// GenerateAll resolves every analytic family for a year. Used by the yearly
// spreadsheet sync.
func (s *Service) GenerateAll(ctx context.Context, year int) (map[insight.Kind]json.RawMessage, error) {
	out := make(map[insight.Kind]json.RawMessage, len(insight.Kinds()))
	for _, kind := range insight.Kinds() {
		res, err := s.Get(ctx, kind, year)
		if err != nil {
			return nil, err
		}
		out[kind] = res.Data
	}
	return out, nil
}

// latest returns the most recent cached record for (kind, year), or nil
func (s *Service) latest(ctx context.Context, kind insight.Kind, year int) (*json.RawMessage, time.Time, error) {
	var rows []insight.Insight
	err := s.stores.Insights.FindWhere(ctx, &rows, "type = ? AND year = ?", kind, year)
	if err != nil {
		return nil, time.Time{}, err
	}
	var newest *insight.Insight
	for i := range rows {
		if newest == nil || rows[i].Timestamp.After(newest.Timestamp) {
			newest = &rows[i]
		}
	}
	if newest == nil {
		return nil, time.Time{}, nil
	}
	return &newest.Data, newest.Timestamp, nil
}

// persist stores a freshly computed record. Older records for the same key
// are superseded by timestamp, not deleted.
func (s *Service) persist(ctx context.Context, kind insight.Kind, year int, data json.RawMessage) error {
	_, err := s.stores.Insights.Create(ctx, &insight.Insight{
		Type:      kind,
		Year:      year,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		s.logger.Warn("failed to persist recomputed insight",
			zap.String("type", string(kind)),
			zap.Int("year", year),
			zap.Error(err))
	}
	return err
}

func (s *Service) compute(ctx context.Context, kind insight.Kind, year int) (*json.RawMessage, error) {
	var payload any
	var err error
	switch kind {
	case insight.KindSales:
		payload, err = s.computeSalesPerformance(ctx, year)
	case insight.KindDemand:
		payload, err = s.computeDemandPrediction(ctx, year)
	case insight.KindExpense:
		payload, err = s.computeExpenseAnalysis(ctx, year)
	case insight.KindFidelization:
		payload, err = s.computeFidelization(ctx, year)
	case insight.KindSentiment:
		// No local review data exists to analyse.
		payload = insight.DefaultPayload(insight.KindSentiment)
	}
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := json.RawMessage(raw)
	return &msg, nil
}
