package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface satisfied by every stored record.
// The generic store stamps identity and timestamps through it.
type Entity interface {
	EntityID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	Stamp(id uuid.UUID, now time.Time)
	Touch(now time.Time)
}

// BaseEntity provides common fields for all entities. Domain types embed it
// by value; the pointer receivers below satisfy the Entity interface.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// EntityID returns the entity ID
func (e *BaseEntity) EntityID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Stamp assigns identity and sets both timestamps. Called exactly once, at
// creation; created_at is never rewritten afterwards.
func (e *BaseEntity) Stamp(id uuid.UUID, now time.Time) {
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
}

// Touch refreshes updated_at. updated_at never precedes created_at because
// Stamp initialises both from the same instant.
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}
