package handler

import (
	"github.com/gestor/backend/internal/domain/catalog"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	products *persistence.ProductStore
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *persistence.ProductStore) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers catalog routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Kind        string          `json:"kind" binding:"omitempty,oneof=product service"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description"`
}

// UpdateProductRequest represents a partial product update. Only provided
// fields are applied.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Kind        *string          `json:"kind" binding:"omitempty,oneof=product service"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity" binding:"omitempty,min=0"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	kind := catalog.KindProduct
	if req.Kind != "" {
		kind = catalog.ProductKind(req.Kind)
	}

	product, err := h.products.Create(c.Request.Context(), &catalog.Product{
		Name:        req.Name,
		Kind:        kind,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Description: req.Description,
		Active:      true,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List returns the whole catalog
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if product == nil {
		h.NotFound(c, "Product not found")
		return
	}
	h.Success(c, product)
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, func(p *catalog.Product) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Kind != nil {
			p.Kind = catalog.ProductKind(*req.Kind)
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Quantity != nil {
			p.Quantity = *req.Quantity
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
