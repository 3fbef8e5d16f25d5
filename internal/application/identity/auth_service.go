package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// AuthService manages local accounts and session tokens
type AuthService struct {
	stores *persistence.Stores
	tokens *auth.TokenService
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(stores *persistence.Stores, tokens *auth.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{stores: stores, tokens: tokens, logger: logger.Named("identity")}
}

// Session is a successful login result
type Session struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      *identity.SystemUser `json:"user"`
}

// Login verifies credentials and issues a session token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid credentials: %w", shared.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CreateUser registers a local account with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, username, password string, role identity.Role) (*identity.SystemUser, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", shared.ErrInvalidInput)
	}
	existing, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %q is taken: %w", username, shared.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.stores.Users.Create(ctx, &identity.SystemUser{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
}

// EnsureAdmin creates the master account on first run when no users exist
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	users, err := s.stores.Users.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	if _, err := s.CreateUser(ctx, username, password, identity.RoleMaster); err != nil {
		return err
	}
	s.logger.Info("created initial master account", zap.String("username", username))
	return nil
}

func (s *AuthService) findByUsername(ctx context.Context, username string) (*identity.SystemUser, error) {
	var users []identity.SystemUser
	if err := s.stores.Users.FindWhere(ctx, &users, "username = ?", username); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
