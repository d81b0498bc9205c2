package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/model"
	"github.com/eduverse/eduverse-backend/internal/repository"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/service"
	"github.com/eduverse/eduverse-backend/internal/validator"
)

// AuthHandler handles login, logout, and profile endpoints.
type AuthHandler struct {
	authService *service.AuthService
	users       *repository.UserRepository
	registry    *authz.Registry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, users *repository.UserRepository, registry *authz.Registry) *AuthHandler {
	return &AuthHandler{authService: authService, users: users, registry: registry}
}

// Login authenticates with email and password and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// Same response as a bad password so the endpoint doesn't reveal
		// which emails exist.
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(user.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if !user.IsActive {
		response.Fail(c, http.StatusForbidden, response.ErrAccountInactive)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user.ID, user.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	_ = h.users.TouchLastLogin(c.Request.Context(), user.ID)

	response.Success(c, http.StatusOK, model.LoginResponse{
		Token:       token,
		User:        *user,
		Permissions: permissionKeys(h.registry, user.Role),
	})
}

// Logout invalidates the caller's registered session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if err := h.authService.InvalidateSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the caller's profile and effective permissions.
func (h *AuthHandler) Me(c *gin.Context) {
	snap := middleware.CurrentUser(c)
	if snap == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), snap.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":        user,
		"permissions": permissionKeys(h.registry, snap.Role),
	})
}

// CanAccessRoute lets the client probe whether the caller may open a page
// route. The decision mirrors the page guards exactly, including the
// fail-deny on unmapped routes.
func (h *AuthHandler) CanAccessRoute(c *gin.Context) {
	route := c.Query("route")
	if route == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	decision := h.registry.Decide(middleware.CurrentUser(c), true, authz.Requirement{Route: route})
	response.Success(c, http.StatusOK, decision)
}

// permissionKeys renders a role's grants as "resource:action" strings.
func permissionKeys(registry *authz.Registry, role string) []string {
	perms := registry.PermissionsForRole(role)
	keys := make([]string, len(perms))
	for i, p := range perms {
		keys[i] = p.Pair().Key()
	}
	return keys
}
