package authz

import (
	"fmt"
	"sync"
)

// Registry is an immutable lookup over a role set, a permission catalog, and a
// route-permission map. The process-wide registry is built once from the static
// configuration; tests construct fixture registries with NewRegistry.
type Registry struct {
	roles   map[string]Role
	order   []string
	catalog map[Pair]Permission
	routes  map[string]Pair
}

// NewRegistry builds a registry from static data. It does not validate; call
// Validate before serving traffic so malformed data fails at startup instead
// of silently mis-evaluating later.
func NewRegistry(catalog []Permission, roles []Role, routes map[string]Pair) *Registry {
	r := &Registry{
		roles:   make(map[string]Role, len(roles)),
		catalog: make(map[Pair]Permission, len(catalog)),
		routes:  make(map[string]Pair, len(routes)),
	}
	for _, p := range catalog {
		r.catalog[p.Pair()] = p
	}
	for _, role := range roles {
		r.roles[role.ID] = role
		r.order = append(r.order, role.ID)
	}
	for route, pair := range routes {
		r.routes[route] = pair
	}
	return r
}

// Validate checks the closed-world invariants of the static configuration:
// every role grant and every route-map entry must reference a cataloged pair.
func (r *Registry) Validate() error {
	for _, id := range r.order {
		role := r.roles[id]
		for _, pair := range role.Permissions {
			if _, ok := r.catalog[pair]; !ok {
				return fmt.Errorf("role %q grants %q which is not in the permission catalog", id, pair.Key())
			}
		}
	}
	for route, pair := range r.routes {
		if _, ok := r.catalog[pair]; !ok {
			return fmt.Errorf("route %q requires %q which is not in the permission catalog", route, pair.Key())
		}
	}
	return nil
}

// GetRole returns a role by id. Callers must treat a missing role as "no
// permissions", never as "all permissions".
func (r *Registry) GetRole(id string) (Role, bool) {
	role, ok := r.roles[id]
	return role, ok
}

// Roles returns all roles in definition order.
func (r *Registry) Roles() []Role {
	out := make([]Role, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.roles[id])
	}
	return out
}

// PermissionsForRole returns the grants of a role with catalog descriptions
// attached. Missing or inactive roles yield an empty set.
func (r *Registry) PermissionsForRole(id string) []Permission {
	role, ok := r.roles[id]
	if !ok || !role.IsActive {
		return nil
	}
	out := make([]Permission, 0, len(role.Permissions))
	for _, pair := range role.Permissions {
		if p, ok := r.catalog[pair]; ok {
			out = append(out, p)
		}
	}
	return out
}

// RoutePermission returns the single permission required to access a route.
// Absent routes fail closed: the second return is false and access must be
// denied.
func (r *Registry) RoutePermission(route string) (Pair, bool) {
	pair, ok := r.routes[route]
	return pair, ok
}

// Routes returns every mapped route path.
func (r *Registry) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for route := range r.routes {
		out = append(out, route)
	}
	return out
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry built from the static catalog,
// built-in roles, and route map. The first call validates the configuration
// and panics on malformed data; this is a deliberate boot-time failure.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(AllPermissions, BuiltinRoles, RoutePermissions)
		if err := defaultRegistry.Validate(); err != nil {
			panic("authz: invalid static configuration: " + err.Error())
		}
	})
	return defaultRegistry
}
