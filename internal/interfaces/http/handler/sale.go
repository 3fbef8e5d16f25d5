package handler

import (
	"time"

	tradeapp "github.com/gestor/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler handles sale API endpoints
type SaleHandler struct {
	BaseHandler
	sales *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sales")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// SaleLineRequest is one line item of a sale request
type SaleLineRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// SaleRequest represents a request to create or replace a sale
type SaleRequest struct {
	Date     time.Time         `json:"date" binding:"required"`
	Value    decimal.Decimal   `json:"value" binding:"required"`
	ClientID *string           `json:"client_id" binding:"omitempty,uuid"`
	PersonID *string           `json:"person_id" binding:"omitempty,uuid"`
	Lines    []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

func (r *SaleRequest) toInput() (tradeapp.CreateSaleInput, error) {
	input := tradeapp.CreateSaleInput{
		Date:  r.Date,
		Value: r.Value,
		Lines: make([]tradeapp.SaleLine, len(r.Lines)),
	}
	for i, line := range r.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return input, err
		}
		input.Lines[i] = tradeapp.SaleLine{ProductID: productID, Quantity: line.Quantity}
	}
	if r.ClientID != nil {
		id, err := uuid.Parse(*r.ClientID)
		if err != nil {
			return input, err
		}
		input.ClientID = &id
	}
	if r.PersonID != nil {
		id, err := uuid.Parse(*r.PersonID)
		if err != nil {
			return input, err
		}
		input.PersonID = &id
	}
	return input, nil
}

// Create records a sale with its line items
func (h *SaleHandler) Create(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List returns all sales
func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// GetByID returns a sale with its line items
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if sale == nil {
		h.NotFound(c, "Sale not found")
		return
	}
	h.Success(c, sale)
}

// Update replaces a sale and its full line item set
func (h *SaleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	sale, err := h.sales.EditSale(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete removes a sale and its line items
func (h *SaleHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	if err := h.sales.DeleteSale(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
