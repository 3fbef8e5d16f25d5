package handler

import (
	"strconv"
	"time"

	"github.com/gestor/backend/internal/domain/finance"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinanceHandler handles ledger transaction and category endpoints
type FinanceHandler struct {
	BaseHandler
	transactions *persistence.TransactionStore
	categories   *persistence.CategoryStore
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(transactions *persistence.TransactionStore, categories *persistence.CategoryStore) *FinanceHandler {
	return &FinanceHandler{transactions: transactions, categories: categories}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	t := rg.Group("/transactions")
	t.POST("", h.CreateTransaction)
	t.GET("", h.ListTransactions)
	t.GET("/:id", h.GetTransaction)
	t.DELETE("/:id", h.DeleteTransaction)

	c := rg.Group("/categories")
	c.POST("", h.CreateCategory)
	c.GET("", h.ListCategories)
	c.DELETE("/:id", h.DeleteCategory)
}

// CreateTransactionRequest represents a request to record a ledger entry
type CreateTransactionRequest struct {
	Category string          `json:"category" binding:"required,oneof=income expense"`
	Value    decimal.Decimal `json:"value" binding:"required"`
	Date     time.Time       `json:"date" binding:"required"`
}

// CreateTransaction records a ledger entry
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), &finance.Transaction{
		Category: finance.TransactionCategory(req.Category),
		Value:    req.Value,
		Date:     req.Date,
		Year:     req.Date.Year(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// ListTransactions returns ledger entries, optionally filtered by year
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	if yearParam := c.Query("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return
		}
		var txs []finance.Transaction
		if err := h.transactions.FindWhere(ctx, &txs, "year = ?", year); err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, txs)
		return
	}

	txs, err := h.transactions.FindAll(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// GetTransaction returns one ledger entry
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	tx, err := h.transactions.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if tx == nil {
		h.NotFound(c, "Transaction not found")
		return
	}
	h.Success(c, tx)
}

// DeleteTransaction removes a ledger entry
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateCategoryRequest represents a request to create a financial category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

// CreateCategory creates a financial category
func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), &finance.FinancialCategory{
		Name: req.Name,
		Type: finance.TransactionCategory(req.Type),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories returns all financial categories
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// DeleteCategory removes a financial category
func (h *FinanceHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
