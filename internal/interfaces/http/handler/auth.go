package handler

import (
	"net/http"

	identityapp "github.com/gestor/backend/internal/application/identity"
	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles local authentication endpoints
type AuthHandler struct {
	BaseHandler
	auth   *identityapp.AuthService
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{auth: authService, tokens: tokens}
}

// RegisterRoutes registers auth routes. Login is public; user management
// needs a valid session.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/login", h.Login)
	g.POST("/users", middleware.RequireAuth(h.tokens), h.CreateUser)
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest represents a request to register a local account
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=master seller"`
}

// Login verifies credentials and returns a session token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// CreateUser registers a local account. Only master accounts may call this.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != string(identity.RoleMaster) {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Only master accounts can create users")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}
