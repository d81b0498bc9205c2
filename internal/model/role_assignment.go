package model

import "time"

// RoleAssignment records one role change for audit and expiry handling. A
// non-nil ExpiresAt makes the assignment temporary; the expiry worker reverts
// it to the default teacher role once due.
type RoleAssignment struct {
	ID         int        `json:"id"`
	TeacherID  int        `json:"teacher_id"`
	RoleID     string     `json:"role_id"`
	AssignedBy int        `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// AssignRoleRequest is the payload for the role-assignment endpoint.
type AssignRoleRequest struct {
	TeacherID int     `json:"teacher_id" binding:"required,min=1"`
	RoleID    string  `json:"role_id" binding:"required"`
	ExpiresAt *string `json:"expires_at,omitempty" binding:"omitempty"`
}

// TeacherStatusRequest is the payload for the active-status toggle.
type TeacherStatusRequest struct {
	TeacherID int   `json:"teacher_id" binding:"required,min=1"`
	IsActive  *bool `json:"is_active" binding:"required"`
}
