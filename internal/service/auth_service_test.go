package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/config"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	return NewAuthService(cfg, rdb)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 7, authz.RoleStandardTeacher)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, authz.RoleStandardTeacher, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newAuthFixture(t)

	token, err := svc.GenerateToken(context.Background(), 7, authz.RoleStudent)
	require.NoError(t, err)

	other := newAuthFixture(t)
	other.cfg.JWTSecret = "different-secret"
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateSession(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 7, authz.RoleStudent)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.ValidateSession(ctx, 7, claims.ID))

	// A second login supersedes the first session.
	_, err = svc.GenerateToken(ctx, 7, authz.RoleStudent)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ValidateSession(ctx, 7, claims.ID), ErrSessionInvalidated)
}

func TestInvalidateSession(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 7, authz.RoleStudent)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateSession(ctx, 7))
	assert.ErrorIs(t, svc.ValidateSession(ctx, 7, claims.ID), ErrSessionInvalidated)
}

func TestPasswordHashing(t *testing.T) {
	svc := newAuthFixture(t)

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.NoError(t, svc.CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
