package settings

import (
	"encoding/json"
	"time"

	"github.com/gestor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConfigID is the fixed primary key of the singleton configuration record.
// Exactly one row exists in the system_config collection at any time.
var ConfigID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// OrganizationType selects which domain collections the organisation uses
type OrganizationType string

const (
	OrgProfit    OrganizationType = "profit"
	OrgNonprofit OrganizationType = "nonprofit"
)

// Theme is the UI theme preference persisted for the frontend
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// SystemConfig holds organisation-wide settings as a singleton record
type SystemConfig struct {
	shared.BaseEntity
	OrganizationType OrganizationType `gorm:"type:varchar(20);not null;default:'profit'" json:"organization_type"`
	OrganizationName string           `gorm:"type:varchar(200);not null" json:"organization_name"`
	Currency         string           `gorm:"type:varchar(10);not null;default:'BRL'" json:"currency"`
	Theme            Theme            `gorm:"type:varchar(10);not null;default:'light'" json:"theme"`
	RequireAuth      bool             `gorm:"not null;default:true" json:"require_auth"`
	SheetSyncEnabled bool             `gorm:"not null;default:false" json:"sheet_sync_enabled"`
	SheetIDs         string           `gorm:"type:text;not null;default:'{}'" json:"-"`
	IsConfigured     bool             `gorm:"not null;default:false" json:"is_configured"`
	ConfiguredAt     *time.Time       `json:"configured_at,omitempty"`
}

// TableName returns the table name for GORM
func (SystemConfig) TableName() string {
	return "system_config"
}

// Default returns the configuration created on first run
func Default() *SystemConfig {
	return &SystemConfig{
		OrganizationType: OrgProfit,
		OrganizationName: "My Organization",
		Currency:         "BRL",
		Theme:            ThemeLight,
		RequireAuth:      true,
		SheetSyncEnabled: false,
		SheetIDs:         "{}",
		IsConfigured:     false,
	}
}

// SheetIDMap decodes the per-year spreadsheet id mapping
func (c *SystemConfig) SheetIDMap() (map[int]string, error) {
	ids := map[int]string{}
	if c.SheetIDs == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(c.SheetIDs), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetSheetID records the spreadsheet id used for a given year
func (c *SystemConfig) SetSheetID(year int, sheetID string) error {
	ids, err := c.SheetIDMap()
	if err != nil {
		return err
	}
	ids[year] = sheetID
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	c.SheetIDs = string(raw)
	return nil
}
