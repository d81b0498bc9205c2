package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermissionExactPairMatch(t *testing.T) {
	r := Default()

	assert.True(t, r.HasPermission(RoleStandardTeacher, "students", "edit_grades"))
	assert.False(t, r.HasPermission(RoleNewTeacher, "students", "edit_grades"))

	// New teachers can still view what they cannot edit.
	assert.True(t, r.HasPermission(RoleNewTeacher, "students", "view_grades"))
}

func TestHasPermissionNoWildcardInference(t *testing.T) {
	r := Default()

	// Holding several actions on a resource never implies the rest.
	assert.True(t, r.HasPermission(RoleStandardTeacher, "classes", "read"))
	assert.False(t, r.HasPermission(RoleStandardTeacher, "classes", "delete"))
	assert.False(t, r.HasPermission(RoleStandardTeacher, "classes", ""))
}

func TestHasPermissionUnknownRoleDenied(t *testing.T) {
	r := Default()

	assert.False(t, r.HasPermission("janitor", "classes", "read"))
	assert.False(t, r.HasPermission("", "classes", "read"))
}

func TestHasPermissionInactiveRoleGrantsNothing(t *testing.T) {
	catalog := []Permission{
		{Resource: "classes", Action: "read", Description: "Read classes"},
	}
	roles := []Role{
		{
			ID:          "retired",
			Name:        "Retired",
			IsActive:    false,
			Permissions: []Pair{{Resource: "classes", Action: "read"}},
		},
	}

	r := NewRegistry(catalog, roles, nil)
	require.NoError(t, r.Validate())
	assert.False(t, r.HasPermission("retired", "classes", "read"))
}

func TestCanAccessRouteUnmappedDeniedForEveryRole(t *testing.T) {
	r := Default()

	for _, role := range r.Roles() {
		assert.False(t, r.CanAccessRoute(role.ID, "/unmapped/page"),
			"role %s must be denied on unmapped routes", role.ID)
	}
}

func TestCanAccessRouteAnalyticsPage(t *testing.T) {
	r := Default()

	assert.True(t, r.CanAccessRoute(RoleSeniorTeacher, "/teacher/analytics"))
	assert.False(t, r.CanAccessRoute(RoleSubstituteTeacher, "/teacher/analytics"))
}

func TestCanAccessRouteStudentDashboard(t *testing.T) {
	r := Default()

	assert.True(t, r.CanAccessRoute(RoleStudent, "/dashboard/student"))
	assert.False(t, r.CanAccessRoute(RoleParent, "/dashboard/student"))
	assert.True(t, r.CanAccessRoute(RoleParent, "/dashboard/parent"))
}

func TestEvaluateManyAll(t *testing.T) {
	r := Default()

	both := []Pair{
		{Resource: "classes", Action: "read"},
		{Resource: "students", Action: "edit_grades"},
	}
	assert.True(t, r.EvaluateMany(RoleStandardTeacher, both, CombineAll))
	assert.False(t, r.EvaluateMany(RoleNewTeacher, both, CombineAll))
}

func TestEvaluateManyAny(t *testing.T) {
	r := Default()

	mixed := []Pair{
		{Resource: "students", Action: "edit_grades"},
		{Resource: "classes", Action: "read"},
	}
	assert.True(t, r.EvaluateMany(RoleNewTeacher, mixed, CombineAny))
	assert.False(t, r.EvaluateMany(RoleStudent, mixed, CombineAny))
}

func TestEvaluateManyEmptyList(t *testing.T) {
	r := Default()

	assert.True(t, r.EvaluateMany(RoleStudent, nil, CombineAll))
	assert.False(t, r.EvaluateMany(RoleStudent, nil, CombineAny))
}

func TestEvaluateManyUnknownModeDenied(t *testing.T) {
	r := Default()

	pairs := []Pair{{Resource: "classes", Action: "read"}}
	assert.False(t, r.EvaluateMany(RoleStandardTeacher, pairs, CombineMode("most")))
}

func TestDepartmentHeadHoldsEntireCatalog(t *testing.T) {
	r := Default()

	role, ok := r.GetRole(RoleDepartmentHead)
	require.True(t, ok)

	held := make(map[Pair]bool, len(role.Permissions))
	for _, pair := range role.Permissions {
		held[pair] = true
	}

	for _, p := range AllPermissions {
		assert.True(t, held[p.Pair()], "department head missing %s", p.Pair().Key())
	}
	assert.Len(t, role.Permissions, len(AllPermissions))
}

func TestPackageLevelWrappersUseDefaultRegistry(t *testing.T) {
	assert.True(t, HasPermission(RoleStudent, "courses", "enroll"))
	assert.True(t, CanAccessRoute(RoleAdmin, "/dashboard/admin"))
	assert.True(t, EvaluateMany(RoleStudent, []Pair{{Resource: "grades", Action: "view_own"}}, CombineAll))
}
