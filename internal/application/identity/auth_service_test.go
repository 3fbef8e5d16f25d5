package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/auth"
	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*AuthService, *auth.TokenService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&identity.SystemUser{}))

	stores := persistence.NewStores(&persistence.Database{DB: db})
	tokens := auth.NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "gestor-test",
	})
	return NewAuthService(stores, tokens, zap.NewNop()), tokens
}

func TestLogin(t *testing.T) {
	service, tokens := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateUser(ctx, "maria", "s3cret-pass", identity.RoleMaster)
	require.NoError(t, err)

	t.Run("valid credentials issue a verifiable token", func(t *testing.T) {
		session, err := service.Login(ctx, "maria", "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, session.User)
		assert.Equal(t, "maria", session.User.Username)

		claims, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, "maria", claims.Username)
		assert.Equal(t, string(identity.RoleMaster), claims.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := service.Login(ctx, "maria", "wrong")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("unknown user fails the same way as wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, "nobody", "whatever")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}

func TestCreateUser(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "joao", "another-pass", identity.RoleSeller)
	require.NoError(t, err)
	assert.NotEqual(t, "another-pass", user.PasswordHash, "password is stored hashed")

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := service.CreateUser(ctx, "joao", "other", identity.RoleSeller)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("empty credentials are rejected", func(t *testing.T) {
		_, err := service.CreateUser(ctx, "", "", identity.RoleSeller)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestEnsureAdmin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.EnsureAdmin(ctx, "admin", "bootstrap-pass"))

	session, err := service.Login(ctx, "admin", "bootstrap-pass")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleMaster, session.User.Role)

	// Existing accounts suppress the bootstrap.
	require.NoError(t, service.EnsureAdmin(ctx, "admin2", "x"))
	_, err = service.Login(ctx, "admin2", "x")
	require.Error(t, err)
}
