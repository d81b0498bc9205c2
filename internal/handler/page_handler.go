package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/response"
)

// PageHandler serves the bootstrap payload for guarded application pages. Each
// mapped route gets one endpoint; the route guard in front of it is the only
// thing deciding access, so this handler stays decision-free.
type PageHandler struct {
	registry *authz.Registry
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(registry *authz.Registry) *PageHandler {
	return &PageHandler{registry: registry}
}

// Serve returns the handler for one mapped page route.
func (h *PageHandler) Serve(route string) gin.HandlerFunc {
	required, _ := h.registry.RoutePermission(route)
	return func(c *gin.Context) {
		snap := middleware.CurrentUser(c)
		if snap == nil {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"route":               route,
			"required_permission": required.Key(),
			"role":                snap.Role,
		})
	}
}

// Decision evaluates the page guard for an arbitrary requirement expression
// posted by the client. Used by UI elements that hide rather than error:
// the client renders nothing when the state is denied.
func (h *PageHandler) Decision(c *gin.Context) {
	var req authz.Requirement
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, h.registry.Decide(middleware.CurrentUser(c), true, req))
}
