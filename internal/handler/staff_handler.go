package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/middleware"
	"github.com/eduverse/eduverse-backend/internal/model"
	"github.com/eduverse/eduverse-backend/internal/response"
	"github.com/eduverse/eduverse-backend/internal/service"
	"github.com/eduverse/eduverse-backend/internal/validator"
)

// StaffHandler exposes the role-management endpoints: staff directory, role
// and permission listings, role assignment, and active-status toggles.
type StaffHandler struct {
	staff    *service.StaffService
	registry *authz.Registry
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(staff *service.StaffService, registry *authz.Registry) *StaffHandler {
	return &StaffHandler{staff: staff, registry: registry}
}

// ListTeachers returns the staff directory with optional filters.
func (h *StaffHandler) ListTeachers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := model.TeacherFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Role:       c.Query("role"),
	}

	teachers, total, err := h.staff.ListTeachers(c.Request.Context(), filter, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, teachers, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// roleView is a role with grants resolved to full catalog permissions,
// grouped for display.
type roleView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	IsActive    bool               `json:"is_active"`
	Groups      []permissionsGroup `json:"groups"`
}

type permissionsGroup struct {
	Name        string             `json:"name"`
	Permissions []authz.Permission `json:"permissions"`
}

// ListRoles returns every configured role with its grants grouped by the
// catalog's permission groups.
func (h *StaffHandler) ListRoles(c *gin.Context) {
	roles := h.staff.ListRoles()
	views := make([]roleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, roleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			IsActive:    role.IsActive,
			Groups:      groupPermissions(h.registry.PermissionsForRole(role.ID)),
		})
	}
	response.Success(c, http.StatusOK, views)
}

// ListPermissions returns the full catalog grouped for display.
func (h *StaffHandler) ListPermissions(c *gin.Context) {
	response.Success(c, http.StatusOK, groupPermissions(authz.AllPermissions))
}

// AssignRole changes a teacher's role. The guard on this route has already
// verified admin:manage_teachers; the service re-validates the role itself.
func (h *StaffHandler) AssignRole(c *gin.Context) {
	var req model.AssignRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"expires_at": "must be an RFC 3339 timestamp"})
			return
		}
		expiresAt = &parsed
	}

	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	assignment, err := h.staff.AssignRole(c.Request.Context(), claims.UserID, req.TeacherID, req.RoleID, expiresAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownRole):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownRole)
		case errors.Is(err, service.ErrInactiveRole):
			response.Fail(c, http.StatusBadRequest, response.ErrInactiveRole)
		case errors.Is(err, service.ErrTeacherNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, assignment)
}

// SetTeacherStatus toggles a teacher's active flag.
func (h *StaffHandler) SetTeacherStatus(c *gin.Context) {
	var req model.TeacherStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.staff.SetTeacherStatus(c.Request.Context(), req.TeacherID, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrTeacherNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher_id": req.TeacherID, "is_active": *req.IsActive})
}

// AssignmentHistory returns a teacher's role-change audit trail.
func (h *StaffHandler) AssignmentHistory(c *gin.Context) {
	teacherID, err := strconv.Atoi(c.Param("teacher_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	history, err := h.staff.AssignmentHistory(c.Request.Context(), teacherID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, history)
}

// groupPermissions arranges permissions under the catalog's display groups,
// preserving group order. Resources outside every group are skipped.
func groupPermissions(perms []authz.Permission) []permissionsGroup {
	byResource := make(map[string][]authz.Permission)
	for _, p := range perms {
		byResource[p.Resource] = append(byResource[p.Resource], p)
	}

	var out []permissionsGroup
	for _, group := range authz.PermissionGroups {
		var members []authz.Permission
		for _, resource := range group.Resources {
			members = append(members, byResource[resource]...)
		}
		if len(members) > 0 {
			out = append(out, permissionsGroup{Name: group.Name, Permissions: members})
		}
	}
	return out
}
