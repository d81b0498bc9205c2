package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"

	// ContextKeyUser is the Gin context key for the resolved user snapshot.
	ContextKeyUser = "current_user"
)

// RequireAuth validates the JWT, checks the registered session, and resolves
// the caller's live authorization snapshot. Guards downstream consume the
// snapshot, never the token's role claim, so role and status changes apply on
// the next request rather than at token expiry.
func RequireAuth(authService *service.AuthService, snapshots *authz.SnapshotProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		snap, err := snapshots.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, authz.ErrUserNotFound) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUser, snap)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUser retrieves the resolved snapshot from the Gin context. Nil means
// the request was not authenticated.
func CurrentUser(c *gin.Context) *authz.UserSnapshot {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	snap, ok := val.(*authz.UserSnapshot)
	if !ok {
		return nil
	}
	return snap
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	// Fallback for WebSocket and EventSource clients which cannot send headers
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header or token query required")
	}

	return authService.ValidateToken(tokenStr)
}
