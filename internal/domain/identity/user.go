package identity

import (
	"github.com/gestor/backend/internal/domain/shared"
)

// Role restricts what a system user may do locally
type Role string

const (
	RoleMaster Role = "master"
	RoleSeller Role = "seller"
)

// SystemUser is a local account. PasswordHash is a bcrypt hash; the clear
// password never touches the store.
type SystemUser struct {
	shared.BaseEntity
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:varchar(200);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'seller'" json:"role"`
}

// TableName returns the table name for GORM
func (SystemUser) TableName() string {
	return "system_users"
}
