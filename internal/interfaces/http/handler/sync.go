package handler

import (
	syncapp "github.com/gestor/backend/internal/application/sheetsync"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SyncHandler handles spreadsheet synchronization endpoints
type SyncHandler struct {
	BaseHandler
	sync *syncapp.Service
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync *syncapp.Service) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sync/years")
	g.GET("", h.List)
	g.GET("/:year", h.Get)
	g.POST("/:year", h.Run)
}

// List returns the sync record of every tracked year
func (h *SyncHandler) List(c *gin.Context) {
	records, err := h.sync.ListMetadata(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Get returns the sync record for one year
func (h *SyncHandler) Get(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	record, err := h.sync.Metadata(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if record == nil {
		h.NotFound(c, "No sync record for year")
		return
	}
	h.Success(c, record)
}

// Run triggers a synchronization pass for one year. The response is the
// resulting metadata record; a failed sync is reported there, not as an HTTP
// error.
func (h *SyncHandler) Run(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	record := h.sync.SyncYear(c.Request.Context(), year)
	if record == nil {
		h.InternalError(c, "Sync could not be initialized")
		return
	}
	h.Success(c, record)
}

func (h *SyncHandler) yearParam(c *gin.Context) (int, bool) {
	var req dto.YearRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid year")
		return 0, false
	}
	return req.Year, true
}
