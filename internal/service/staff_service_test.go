package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/model"
)

type stubUserStore struct {
	users       map[int]*model.User
	updatedRole string
	updatedID   int
	activeSet   *bool
}

func (s *stubUserStore) GetByID(ctx context.Context, id int) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, context.Canceled // any error maps to ErrTeacherNotFound
	}
	return u, nil
}

func (s *stubUserStore) ListTeachers(ctx context.Context, filter model.TeacherFilter, page, perPage int) ([]model.User, int, error) {
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (s *stubUserStore) UpdateActive(ctx context.Context, userID int, active bool) error {
	s.updatedID = userID
	s.activeSet = &active
	return nil
}

type stubAssignments struct {
	users    *stubUserStore
	inserted []*model.RoleAssignment
	failWith error
}

func (s *stubAssignments) AssignRole(ctx context.Context, a *model.RoleAssignment) error {
	if s.failWith != nil {
		// The transaction rolls back, so the role row stays untouched.
		return s.failWith
	}
	s.users.updatedID = a.TeacherID
	s.users.updatedRole = a.RoleID
	a.ID = len(s.inserted) + 1
	a.AssignedAt = time.Now()
	s.inserted = append(s.inserted, a)
	return nil
}

func (s *stubAssignments) ListForTeacher(ctx context.Context, teacherID int) ([]model.RoleAssignment, error) {
	var out []model.RoleAssignment
	for _, a := range s.inserted {
		if a.TeacherID == teacherID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type stubInvalidator struct {
	invalidated []int
}

func (s *stubInvalidator) Invalidate(ctx context.Context, userID int) error {
	s.invalidated = append(s.invalidated, userID)
	return nil
}

func newStaffFixture() (*StaffService, *stubUserStore, *stubAssignments, *stubInvalidator) {
	users := &stubUserStore{users: map[int]*model.User{
		10: {ID: 10, FirstName: "Sarah", Role: authz.RoleStandardTeacher, IsActive: true},
	}}
	assignments := &stubAssignments{users: users}
	invalidator := &stubInvalidator{}
	svc := NewStaffService(authz.Default(), users, assignments, invalidator, zerolog.Nop())
	return svc, users, assignments, invalidator
}

func TestAssignRole(t *testing.T) {
	svc, users, assignments, invalidator := newStaffFixture()

	a, err := svc.AssignRole(context.Background(), 1, 10, authz.RoleSeniorTeacher, nil)
	require.NoError(t, err)

	assert.Equal(t, authz.RoleSeniorTeacher, users.updatedRole)
	assert.Equal(t, 10, users.updatedID)
	require.Len(t, assignments.inserted, 1)
	assert.Equal(t, 1, a.AssignedBy)
	assert.Nil(t, a.ExpiresAt)
	assert.Equal(t, []int{10}, invalidator.invalidated)
}

func TestAssignRoleWithExpiry(t *testing.T) {
	svc, _, assignments, _ := newStaffFixture()

	expires := time.Now().Add(48 * time.Hour)
	a, err := svc.AssignRole(context.Background(), 1, 10, authz.RoleDepartmentHead, &expires)
	require.NoError(t, err)
	require.NotNil(t, a.ExpiresAt)
	assert.Equal(t, expires, *assignments.inserted[0].ExpiresAt)
}

func TestAssignRoleUnknownRole(t *testing.T) {
	svc, users, _, invalidator := newStaffFixture()

	_, err := svc.AssignRole(context.Background(), 1, 10, "overlord", nil)
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, users.updatedRole)
	assert.Empty(t, invalidator.invalidated)
}

func TestAssignRoleWriteFailure(t *testing.T) {
	svc, users, assignments, invalidator := newStaffFixture()
	assignments.failWith = errors.New("insert failed")

	_, err := svc.AssignRole(context.Background(), 1, 10, authz.RoleSeniorTeacher, nil)
	require.Error(t, err)

	// No partial state: the rolled-back write leaves no history entry and no
	// role change, and the snapshot is still dropped in case the commit was
	// the failing step.
	assert.Empty(t, assignments.inserted)
	assert.Empty(t, users.updatedRole)
	assert.Equal(t, []int{10}, invalidator.invalidated)
}

func TestAssignRoleUnknownTeacher(t *testing.T) {
	svc, _, _, invalidator := newStaffFixture()

	_, err := svc.AssignRole(context.Background(), 1, 99, authz.RoleSeniorTeacher, nil)
	assert.ErrorIs(t, err, ErrTeacherNotFound)
	assert.Empty(t, invalidator.invalidated)
}

func TestSetTeacherStatus(t *testing.T) {
	svc, users, _, invalidator := newStaffFixture()

	require.NoError(t, svc.SetTeacherStatus(context.Background(), 10, false))
	require.NotNil(t, users.activeSet)
	assert.False(t, *users.activeSet)
	assert.Equal(t, []int{10}, invalidator.invalidated)
}

func TestSetTeacherStatusUnknownTeacher(t *testing.T) {
	svc, _, _, _ := newStaffFixture()

	err := svc.SetTeacherStatus(context.Background(), 404, true)
	assert.ErrorIs(t, err, ErrTeacherNotFound)
}

func TestAssignmentHistory(t *testing.T) {
	svc, _, _, _ := newStaffFixture()

	_, err := svc.AssignRole(context.Background(), 1, 10, authz.RoleSeniorTeacher, nil)
	require.NoError(t, err)
	_, err = svc.AssignRole(context.Background(), 1, 10, authz.RoleStandardTeacher, nil)
	require.NoError(t, err)

	history, err := svc.AssignmentHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
