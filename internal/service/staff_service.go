package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/model"
)

// Staff management errors.
var (
	ErrUnknownRole     = errors.New("unknown role")
	ErrInactiveRole    = errors.New("inactive role")
	ErrTeacherNotFound = errors.New("teacher not found")
)

// staffUserStore is the slice of UserRepository the staff service needs.
type staffUserStore interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	ListTeachers(ctx context.Context, filter model.TeacherFilter, page, perPage int) ([]model.User, int, error)
	UpdateActive(ctx context.Context, userID int, active bool) error
}

// assignmentStore applies role changes and records their history.
type assignmentStore interface {
	AssignRole(ctx context.Context, a *model.RoleAssignment) error
	ListForTeacher(ctx context.Context, teacherID int) ([]model.RoleAssignment, error)
}

// snapshotInvalidator drops cached authorization snapshots after writes.
type snapshotInvalidator interface {
	Invalidate(ctx context.Context, userID int) error
}

// StaffService implements the role-management operations. The client never
// decides authorization for these writes; the guard middleware re-checks the
// admin:manage_teachers permission on every request.
type StaffService struct {
	registry    *authz.Registry
	users       staffUserStore
	assignments assignmentStore
	snapshots   snapshotInvalidator
	log         zerolog.Logger
}

// NewStaffService creates a new StaffService.
func NewStaffService(registry *authz.Registry, users staffUserStore, assignments assignmentStore, snapshots snapshotInvalidator, log zerolog.Logger) *StaffService {
	return &StaffService{
		registry:    registry,
		users:       users,
		assignments: assignments,
		snapshots:   snapshots,
		log:         log.With().Str("component", "staff_service").Logger(),
	}
}

// ListTeachers returns the staff directory page.
func (s *StaffService) ListTeachers(ctx context.Context, filter model.TeacherFilter, page, perPage int) ([]model.User, int, error) {
	return s.users.ListTeachers(ctx, filter, page, perPage)
}

// ListRoles returns all configured roles with resolved permission grants.
func (s *StaffService) ListRoles() []authz.Role {
	return s.registry.Roles()
}

// AssignmentHistory returns a teacher's role-change audit trail.
func (s *StaffService) AssignmentHistory(ctx context.Context, teacherID int) ([]model.RoleAssignment, error) {
	return s.assignments.ListForTeacher(ctx, teacherID)
}

// AssignRole changes a teacher's role. The role must exist in the registry and
// be active; the write is recorded in the assignment history and the teacher's
// cached snapshot is invalidated so the change is visible immediately.
func (s *StaffService) AssignRole(ctx context.Context, actorID, teacherID int, roleID string, expiresAt *time.Time) (*model.RoleAssignment, error) {
	role, ok := s.registry.GetRole(roleID)
	if !ok {
		return nil, ErrUnknownRole
	}
	if !role.IsActive {
		return nil, ErrInactiveRole
	}

	if _, err := s.users.GetByID(ctx, teacherID); err != nil {
		return nil, ErrTeacherNotFound
	}

	assignment := &model.RoleAssignment{
		TeacherID:  teacherID,
		RoleID:     roleID,
		AssignedBy: actorID,
		ExpiresAt:  expiresAt,
	}
	if err := s.assignments.AssignRole(ctx, assignment); err != nil {
		// The transaction rolls back on every failure but an ambiguous commit;
		// drop the snapshot anyway so a committed change is never masked.
		if ierr := s.snapshots.Invalidate(ctx, teacherID); ierr != nil {
			s.log.Warn().Err(ierr).Int("teacher_id", teacherID).Msg("Snapshot invalidation failed")
		}
		return nil, err
	}

	if err := s.snapshots.Invalidate(ctx, teacherID); err != nil {
		s.log.Warn().Err(err).Int("teacher_id", teacherID).Msg("Snapshot invalidation failed")
	}

	s.log.Info().
		Int("teacher_id", teacherID).
		Str("role", roleID).
		Int("assigned_by", actorID).
		Msg("Role assigned")

	return assignment, nil
}

// SetTeacherStatus toggles a teacher's active flag. Deactivation takes effect
// on the next request because the snapshot cache is invalidated here.
func (s *StaffService) SetTeacherStatus(ctx context.Context, teacherID int, active bool) error {
	if _, err := s.users.GetByID(ctx, teacherID); err != nil {
		return ErrTeacherNotFound
	}

	if err := s.users.UpdateActive(ctx, teacherID, active); err != nil {
		return err
	}

	if err := s.snapshots.Invalidate(ctx, teacherID); err != nil {
		s.log.Warn().Err(err).Int("teacher_id", teacherID).Msg("Snapshot invalidation failed")
	}

	s.log.Info().
		Int("teacher_id", teacherID).
		Bool("is_active", active).
		Msg("Teacher status updated")

	return nil
}
