package handler

import (
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and metadata endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	appName string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports liveness of the process and its local store
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	if err := h.db.Ping(); err != nil {
		status = "degraded"
	}
	h.Success(c, gin.H{"app": h.appName, "status": status})
}
