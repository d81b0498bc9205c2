package authz

// CombineMode controls how EvaluateMany reduces per-pair results.
type CombineMode string

const (
	// CombineAll requires every pair to be granted (logical AND). An empty
	// pair list is vacuously true.
	CombineAll CombineMode = "all"

	// CombineAny requires at least one pair to be granted (logical OR). An
	// empty pair list is false.
	CombineAny CombineMode = "any"
)

// HasPermission reports whether the role exists, is active, and holds the exact
// (resource, action) pair. Pairs match exactly as cataloged: there is no
// wildcard or resource-hierarchy inference. Unknown roles are denied, never an
// error.
func (r *Registry) HasPermission(roleID, resource, action string) bool {
	role, ok := r.roles[roleID]
	if !ok || !role.IsActive {
		return false
	}
	want := Pair{Resource: resource, Action: action}
	for _, pair := range role.Permissions {
		if pair == want {
			return true
		}
	}
	return false
}

// CanAccessRoute checks the route-permission map and delegates to
// HasPermission. Unmapped routes are denied.
func (r *Registry) CanAccessRoute(roleID, route string) bool {
	pair, ok := r.routes[route]
	if !ok {
		return false
	}
	return r.HasPermission(roleID, pair.Resource, pair.Action)
}

// EvaluateMany reduces HasPermission over pairs with the given mode. An empty
// list is true under CombineAll and false under CombineAny; an unknown mode is
// denied outright.
func (r *Registry) EvaluateMany(roleID string, pairs []Pair, mode CombineMode) bool {
	switch mode {
	case CombineAll:
		for _, p := range pairs {
			if !r.HasPermission(roleID, p.Resource, p.Action) {
				return false
			}
		}
		return true
	case CombineAny:
		for _, p := range pairs {
			if r.HasPermission(roleID, p.Resource, p.Action) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// HasPermission evaluates against the process-wide registry.
func HasPermission(roleID, resource, action string) bool {
	return Default().HasPermission(roleID, resource, action)
}

// CanAccessRoute evaluates against the process-wide registry.
func CanAccessRoute(roleID, route string) bool {
	return Default().CanAccessRoute(roleID, route)
}

// EvaluateMany evaluates against the process-wide registry.
func EvaluateMany(roleID string, pairs []Pair, mode CombineMode) bool {
	return Default().EvaluateMany(roleID, pairs, mode)
}
