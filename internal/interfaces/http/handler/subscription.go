package handler

import (
	billingapp "github.com/gestor/backend/internal/application/billing"
	"github.com/gestor/backend/internal/domain/billing"
	"github.com/gestor/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription status endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptions *billingapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions *billingapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterRoutes registers subscription routes
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/subscription")
	g.GET("/status", h.Status)
	g.POST("/refresh", h.Refresh)
}

// SubscriptionStatusResponse wraps the cached status with its source tag
type SubscriptionStatusResponse struct {
	Status *billing.SubscriptionStatus `json:"status"`
	Source cache.Source                `json:"source,omitempty"`
}

// Status returns the cached subscription status. Status is null when nothing
// is cached and the remote provider is unreachable.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	status, source, err := h.subscriptions.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SubscriptionStatusResponse{Status: status, Source: source})
}

// Refresh forces a remote status fetch regardless of cache age
func (h *SubscriptionHandler) Refresh(c *gin.Context) {
	status, err := h.subscriptions.Refresh(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SubscriptionStatusResponse{Status: status, Source: cache.SourceRefreshed})
}
