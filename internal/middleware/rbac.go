package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/response"
)

// The guard middlewares are thin adapters over authz.Decide: each builds a
// requirement, evaluates it against the request's resolved snapshot, and maps
// the decision onto HTTP codes. Denial messaging never names grants the
// caller doesn't hold beyond the single pair a guard asked for.

// RequirePermission guards a single (resource, action) pair.
func RequirePermission(registry *authz.Registry, resource, action string) gin.HandlerFunc {
	pair := authz.Pair{Resource: resource, Action: action}
	return guard(registry, authz.Requirement{Pair: &pair})
}

// RequireRoute guards via the route-permission map. Referencing a route absent
// from the map is a configuration bug, flagged here at router build time so it
// never reaches request time.
func RequireRoute(registry *authz.Registry, route string) gin.HandlerFunc {
	if _, ok := registry.RoutePermission(route); !ok {
		panic(fmt.Sprintf("middleware: route %q is not in the route-permission map", route))
	}
	return guard(registry, authz.Requirement{Route: route})
}

// RequireAll guards a multi-permission expression where every pair must hold.
func RequireAll(registry *authz.Registry, pairs ...authz.Pair) gin.HandlerFunc {
	return guard(registry, authz.Requirement{Pairs: pairs, Mode: authz.CombineAll})
}

// RequireAny guards a multi-permission expression where one grant suffices.
func RequireAny(registry *authz.Registry, pairs ...authz.Pair) gin.HandlerFunc {
	return guard(registry, authz.Requirement{Pairs: pairs, Mode: authz.CombineAny})
}

// RequireRoles is a coarse role allowlist, independent of the catalog.
func RequireRoles(registry *authz.Registry, roles ...string) gin.HandlerFunc {
	return guard(registry, authz.Requirement{AllowedRoles: roles})
}

// RequireDepartments gates on the user's department attribute.
func RequireDepartments(registry *authz.Registry, departments ...string) gin.HandlerFunc {
	return guard(registry, authz.Requirement{AllowedDepartments: departments})
}

func guard(registry *authz.Registry, req authz.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := registry.Decide(CurrentUser(c), true, req)
		if decision.Granted() {
			c.Next()
			return
		}
		status, code := denialResponse(decision.Reason)
		if decision.Detail != "" {
			response.AbortFailWithMessage(c, status, code, decision.Detail)
			return
		}
		response.AbortFail(c, status, code)
	}
}

func denialResponse(reason authz.DenyReason) (int, response.ErrCode) {
	switch reason {
	case authz.ReasonUnauthenticated:
		return http.StatusUnauthorized, response.ErrTokenRequired
	case authz.ReasonInactiveAccount:
		return http.StatusForbidden, response.ErrAccountInactive
	case authz.ReasonRouteNotMapped:
		return http.StatusForbidden, response.ErrRouteRestricted
	case authz.ReasonMissingPermission:
		return http.StatusForbidden, response.ErrPermissionDenied
	default:
		return http.StatusForbidden, response.ErrForbidden
	}
}
