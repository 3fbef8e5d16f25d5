package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the generic CRUD service shared by every entity collection. T is
// the entity struct; PT is *T constrained to shared.Entity so the store can
// stamp identity and timestamps. It is the only sanctioned read/write path
// for callers; entities are never created or mutated around it.
type Store[T any, PT interface {
	*T
	shared.Entity
}] struct {
	db   *gorm.DB
	kind string
}

// NewStore creates a store bound to one collection. kind names the entity in
// error messages (e.g. "product").
func NewStore[T any, PT interface {
	*T
	shared.Entity
}](db *gorm.DB, kind string) *Store[T, PT] {
	return &Store[T, PT]{db: db, kind: kind}
}

// WithTx returns a copy of the store bound to an open transaction, so
// multi-collection writes can share one atomic unit.
func (s *Store[T, PT]) WithTx(tx *gorm.DB) *Store[T, PT] {
	return &Store[T, PT]{db: tx, kind: s.kind}
}

// Kind returns the entity kind name
func (s *Store[T, PT]) Kind() string {
	return s.kind
}

// Create stamps a fresh random id and both timestamps on the entity and
// inserts it. Random ids keep independent writers collision-free without a
// coordinator.
func (s *Store[T, PT]) Create(ctx context.Context, entity PT) (PT, error) {
	entity.Stamp(uuid.New(), time.Now().UTC())
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, s.persistErr("create", err)
	}
	return entity, nil
}

// CreateWithID inserts an entity under a caller-chosen fixed id. Singleton
// records (system config, subscription status) use well-known ids.
func (s *Store[T, PT]) CreateWithID(ctx context.Context, id uuid.UUID, entity PT) (PT, error) {
	entity.Stamp(id, time.Now().UTC())
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, s.persistErr("create", err)
	}
	return entity, nil
}

// FindByID returns the entity or nil when absent. Absence is not an error.
func (s *Store[T, PT]) FindByID(ctx context.Context, id uuid.UUID) (PT, error) {
	var entity T
	err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.persistErr("get", err)
	}
	return PT(&entity), nil
}

// FindAll returns every entity in the collection. Callers must not depend on
// ordering.
func (s *Store[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := s.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, s.persistErr("list", err)
	}
	return entities, nil
}

// FindWhere loads the entities matching a condition into dest. Secondary
// index lookups (items by sale, records by year) go through here.
func (s *Store[T, PT]) FindWhere(ctx context.Context, dest *[]T, query string, args ...any) error {
	if err := s.db.WithContext(ctx).Where(query, args...).Find(dest).Error; err != nil {
		return s.persistErr("list", err)
	}
	return nil
}

// Update loads the entity, applies the caller's partial mutation, refreshes
// updated_at and persists the result. Fields the mutator does not touch stay
// as they were.
func (s *Store[T, PT]) Update(ctx context.Context, id uuid.UUID, apply func(PT)) (PT, error) {
	entity, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("update %s %s: %w", s.kind, id, shared.ErrNotFound)
	}

	apply(entity)
	entity.Touch(time.Now().UTC())

	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, s.persistErr("update", err)
	}
	return entity, nil
}

// Delete removes the entity. Deleting an absent id is a no-op, not an error.
func (s *Store[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error; err != nil {
		return s.persistErr("delete", err)
	}
	return nil
}

// BulkCreate stamps and inserts all entities as one transactional batch and
// returns them in input order.
func (s *Store[T, PT]) BulkCreate(ctx context.Context, entities []PT) ([]PT, error) {
	if len(entities) == 0 {
		return entities, nil
	}
	now := time.Now().UTC()
	for _, e := range entities {
		e.Stamp(uuid.New(), now)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entities {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.persistErr("bulk create", err)
	}
	return entities, nil
}

func (s *Store[T, PT]) persistErr(op string, err error) error {
	return fmt.Errorf("%s %s: %w", op, s.kind, errors.Join(shared.ErrPersistence, err))
}
