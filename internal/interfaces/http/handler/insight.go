package handler

import (
	"strconv"

	insightapp "github.com/gestor/backend/internal/application/insight"
	"github.com/gestor/backend/internal/domain/insight"
	"github.com/gin-gonic/gin"
)

// InsightHandler handles analytics endpoints
type InsightHandler struct {
	BaseHandler
	insights *insightapp.Service
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insights *insightapp.Service) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// RegisterRoutes registers insight routes
func (h *InsightHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/insights")
	g.GET("/:type/:year", h.Get)
}

// Get resolves one analytic for a year through the insight cache. The
// response carries a source tag so clients can tell cached from freshly
// computed data.
func (h *InsightHandler) Get(c *gin.Context) {
	kind := insight.Kind(c.Param("type"))
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		h.BadRequest(c, "Invalid year")
		return
	}

	result, err := h.insights.Get(c.Request.Context(), kind, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
