package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryValidates(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())
}

func TestValidateRejectsDanglingGrant(t *testing.T) {
	catalog := []Permission{
		{Resource: "classes", Action: "read", Description: "Read classes"},
	}
	roles := []Role{
		{
			ID:       "broken",
			Name:     "Broken",
			IsActive: true,
			Permissions: []Pair{
				{Resource: "classes", Action: "read"},
				{Resource: "classes", Action: "delete"},
			},
		},
	}

	r := NewRegistry(catalog, roles, nil)
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "classes:delete")
}

func TestValidateRejectsDanglingRouteMapping(t *testing.T) {
	catalog := []Permission{
		{Resource: "classes", Action: "read", Description: "Read classes"},
	}
	routes := map[string]Pair{
		"/somewhere": {Resource: "ghosts", Action: "read"},
	}

	r := NewRegistry(catalog, nil, routes)
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/somewhere")
	assert.Contains(t, err.Error(), "ghosts:read")
}

func TestGetRoleMissing(t *testing.T) {
	r := Default()

	_, ok := r.GetRole("no_such_role")
	assert.False(t, ok)
}

func TestPermissionsForRoleInactiveYieldsNothing(t *testing.T) {
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
	assert.Empty(t, r.PermissionsForRole("retired"))
}

func TestRoutePermissionFailsClosed(t *testing.T) {
	r := Default()

	_, ok := r.RoutePermission("/not/a/real/route")
	assert.False(t, ok)

	pair, ok := r.RoutePermission("/teacher/analytics")
	require.True(t, ok)
	assert.Equal(t, Pair{Resource: "analytics", Action: "view_class_performance"}, pair)
}

func TestRolesPreserveDefinitionOrder(t *testing.T) {
	r := Default()

	roles := r.Roles()
	require.Len(t, roles, len(BuiltinRoles))
	for i, role := range roles {
		assert.Equal(t, BuiltinRoles[i].ID, role.ID)
	}
}
