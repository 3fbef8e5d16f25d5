package handler

import (
	"time"

	settingsapp "github.com/gestor/backend/internal/application/settings"
	"github.com/gestor/backend/internal/domain/settings"
	"github.com/gin-gonic/gin"
)

// ConfigHandler handles system configuration endpoints
type ConfigHandler struct {
	BaseHandler
	config *settingsapp.ConfigService
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(config *settingsapp.ConfigService) *ConfigHandler {
	return &ConfigHandler{config: config}
}

// RegisterRoutes registers configuration routes
func (h *ConfigHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/config")
	g.GET("", h.Get)
	g.PUT("", h.Save)
}

// SaveConfigRequest represents a partial configuration update. Only provided
// fields are applied.
type SaveConfigRequest struct {
	OrganizationType *string        `json:"organization_type" binding:"omitempty,oneof=profit nonprofit"`
	OrganizationName *string        `json:"organization_name" binding:"omitempty,max=200"`
	Currency         *string        `json:"currency" binding:"omitempty,len=3"`
	Theme            *string        `json:"theme" binding:"omitempty,oneof=light dark"`
	RequireAuth      *bool          `json:"require_auth"`
	SheetSyncEnabled *bool          `json:"sheet_sync_enabled"`
	SheetIDs         map[int]string `json:"sheet_ids"`
	IsConfigured     *bool          `json:"is_configured"`
}

// Get returns the system configuration, creating the default on first call
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Save applies a partial configuration update atomically
func (h *ConfigHandler) Save(c *gin.Context) {
	var req SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.config.Save(c.Request.Context(), func(cfg *settings.SystemConfig) {
		if req.OrganizationType != nil {
			cfg.OrganizationType = settings.OrganizationType(*req.OrganizationType)
		}
		if req.OrganizationName != nil {
			cfg.OrganizationName = *req.OrganizationName
		}
		if req.Currency != nil {
			cfg.Currency = *req.Currency
		}
		if req.Theme != nil {
			cfg.Theme = settings.Theme(*req.Theme)
		}
		if req.RequireAuth != nil {
			cfg.RequireAuth = *req.RequireAuth
		}
		if req.SheetSyncEnabled != nil {
			cfg.SheetSyncEnabled = *req.SheetSyncEnabled
		}
		for year, sheetID := range req.SheetIDs {
			_ = cfg.SetSheetID(year, sheetID)
		}
		if req.IsConfigured != nil && *req.IsConfigured && !cfg.IsConfigured {
			cfg.IsConfigured = true
			now := time.Now().UTC()
			cfg.ConfiguredAt = &now
		}
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}
