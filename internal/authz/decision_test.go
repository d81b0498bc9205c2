package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeSnap(role, department string) *UserSnapshot {
	return &UserSnapshot{ID: 1, Role: role, Department: department, IsActive: true}
}

func TestDecideCheckingWhileUnresolved(t *testing.T) {
	r := Default()

	d := r.Decide(nil, false, Requirement{Route: "/dashboard/student"})
	assert.Equal(t, StateChecking, d.State)
	assert.False(t, d.Granted())
}

func TestDecideUnauthenticated(t *testing.T) {
	r := Default()

	d := r.Decide(nil, true, Requirement{Route: "/dashboard/student"})
	assert.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestDecideInactiveAccountPrecedesPermissions(t *testing.T) {
	r := Default()

	// Even the full-catalog role is denied while the account is inactive,
	// and the reason must say so rather than claiming a missing permission.
	snap := &UserSnapshot{ID: 7, Role: RoleDepartmentHead, Department: "English", IsActive: false}
	d := r.Decide(snap, true, Requirement{
		Pair: &Pair{Resource: "admin", Action: "manage_teachers"},
	})
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonInactiveAccount, d.Reason)
	assert.Contains(t, d.Detail, "inactive")
}

func TestDecideRouteNotMapped(t *testing.T) {
	r := Default()

	d := r.Decide(activeSnap(RoleDepartmentHead, "English"), true, Requirement{Route: "/made/up"})
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonRouteNotMapped, d.Reason)
}

func TestDecideRouteGrant(t *testing.T) {
	r := Default()

	d := r.Decide(activeSnap(RoleSeniorTeacher, "Science"), true, Requirement{Route: "/teacher/analytics"})
	assert.True(t, d.Granted())

	d = r.Decide(activeSnap(RoleSubstituteTeacher, "Multiple"), true, Requirement{Route: "/teacher/analytics"})
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonMissingPermission, d.Reason)
}

func TestDecideSinglePairDetailNamesPair(t *testing.T) {
	r := Default()

	d := r.Decide(activeSnap(RoleNewTeacher, "History"), true, Requirement{
		Pair: &Pair{Resource: "students", Action: "edit_grades"},
	})
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonMissingPermission, d.Reason)
	assert.Contains(t, d.Detail, "edit_grades")
	assert.Contains(t, d.Detail, "students")
}

func TestDecideMultiPairDefaultsToAll(t *testing.T) {
	r := Default()

	req := Requirement{Pairs: []Pair{
		{Resource: "classes", Action: "read"},
		{Resource: "students", Action: "edit_grades"},
	}}

	assert.True(t, r.Decide(activeSnap(RoleStandardTeacher, "Mathematics"), true, req).Granted())
	assert.Equal(t, ReasonMissingPermission, r.Decide(activeSnap(RoleNewTeacher, "History"), true, req).Reason)

	req.Mode = CombineAny
	assert.True(t, r.Decide(activeSnap(RoleNewTeacher, "History"), true, req).Granted())
}

func TestDecideRoleAllowlist(t *testing.T) {
	r := Default()

	req := Requirement{AllowedRoles: []string{RoleSeniorTeacher, RoleDepartmentHead}}

	assert.True(t, r.Decide(activeSnap(RoleSeniorTeacher, "Science"), true, req).Granted())

	d := r.Decide(activeSnap(RoleStandardTeacher, "Mathematics"), true, req)
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonRoleNotAllowed, d.Reason)
}

func TestDecideDepartmentAllowlist(t *testing.T) {
	r := Default()

	req := Requirement{AllowedDepartments: []string{"Science"}}

	assert.True(t, r.Decide(activeSnap(RoleStandardTeacher, "Science"), true, req).Granted())

	d := r.Decide(activeSnap(RoleStandardTeacher, "Mathematics"), true, req)
	require.Equal(t, StateDenied, d.State)
	assert.Equal(t, ReasonDepartmentExcluded, d.Reason)
}

func TestDecideAllClausesMustPass(t *testing.T) {
	r := Default()

	req := Requirement{
		Route:              "/teacher/analytics",
		Pair:               &Pair{Resource: "classes", Action: "delete"},
		AllowedRoles:       []string{RoleSeniorTeacher},
		AllowedDepartments: []string{"Science"},
	}

	assert.True(t, r.Decide(activeSnap(RoleSeniorTeacher, "Science"), true, req).Granted())

	// Failing any single clause denies.
	d := r.Decide(activeSnap(RoleSeniorTeacher, "English"), true, req)
	assert.Equal(t, ReasonDepartmentExcluded, d.Reason)
}

func TestDecideEmptyRequirementGrantsActiveUser(t *testing.T) {
	r := Default()

	assert.True(t, r.Decide(activeSnap(RoleStudent, ""), true, Requirement{}).Granted())
}
