package authz

import "fmt"

// State is the outcome of a guard evaluation for one input snapshot. Guards are
// recomputed on every request; a state is only terminal for the inputs it was
// computed from.
type State string

const (
	// StateChecking means the current user is still being resolved. Callers
	// must neither grant nor deny while checking.
	StateChecking State = "checking"
	StateDenied   State = "denied"
	StateGranted  State = "granted"
)

// DenyReason classifies a denial. Reasons drive user-facing messaging and must
// never enumerate another user's grants.
type DenyReason string

const (
	ReasonNone               DenyReason = ""
	ReasonUnauthenticated    DenyReason = "unauthenticated"
	ReasonInactiveAccount    DenyReason = "inactive_account"
	ReasonMissingPermission  DenyReason = "missing_permission"
	ReasonRouteNotMapped     DenyReason = "route_not_mapped"
	ReasonRoleNotAllowed     DenyReason = "role_not_allowed"
	ReasonDepartmentExcluded DenyReason = "department_not_allowed"
)

// Decision is an evaluation result. It carries an optional display detail and
// is never cached across user or role changes.
type Decision struct {
	State  State      `json:"state"`
	Reason DenyReason `json:"reason,omitempty"`
	Detail string     `json:"detail,omitempty"`
}

// Granted reports whether the decision allows access.
func (d Decision) Granted() bool { return d.State == StateGranted }

func granted() Decision {
	return Decision{State: StateGranted}
}

func denied(reason DenyReason, detail string) Decision {
	return Decision{State: StateDenied, Reason: reason, Detail: detail}
}

// Requirement describes what a guard demands. Zero or more clauses may be set;
// all set clauses must pass. The active-account check always runs first.
type Requirement struct {
	// Pair guards a single permission.
	Pair *Pair `json:"pair,omitempty"`

	// Route guards via the route-permission map.
	Route string `json:"route,omitempty"`

	// Pairs guards a multi-permission expression combined with Mode
	// (CombineAll when Mode is empty).
	Pairs []Pair      `json:"pairs,omitempty"`
	Mode  CombineMode `json:"mode,omitempty"`

	// AllowedRoles is a coarse role allowlist, independent of the catalog.
	AllowedRoles []string `json:"allowed_roles,omitempty"`

	// AllowedDepartments gates on the user's department attribute.
	AllowedDepartments []string `json:"allowed_departments,omitempty"`
}

// Decide evaluates a requirement for a user snapshot. A nil snapshot is an
// unauthenticated caller. Pass resolved=false while the snapshot fetch is
// still in flight to get the distinct checking state.
func (r *Registry) Decide(snap *UserSnapshot, resolved bool, req Requirement) Decision {
	if !resolved {
		return Decision{State: StateChecking}
	}
	if snap == nil {
		return denied(ReasonUnauthenticated, "Access restricted.")
	}
	// Inactive accounts are denied everything, regardless of role. This check
	// precedes every permission check.
	if !snap.IsActive {
		return denied(ReasonInactiveAccount, "Your account is inactive. Please contact your administrator.")
	}

	if req.Route != "" {
		pair, ok := r.routes[req.Route]
		if !ok {
			return denied(ReasonRouteNotMapped, "You don't have permission to access this page.")
		}
		if !r.HasPermission(snap.Role, pair.Resource, pair.Action) {
			return denied(ReasonMissingPermission, "You don't have permission to access this page.")
		}
	}

	if req.Pair != nil {
		if !r.HasPermission(snap.Role, req.Pair.Resource, req.Pair.Action) {
			// Naming the pair is acceptable for single-permission guards: the
			// caller already knows their own role.
			return denied(ReasonMissingPermission,
				fmt.Sprintf("You don't have permission to %s %s.", req.Pair.Action, req.Pair.Resource))
		}
	}

	if len(req.Pairs) > 0 {
		mode := req.Mode
		if mode == "" {
			mode = CombineAll
		}
		if !r.EvaluateMany(snap.Role, req.Pairs, mode) {
			return denied(ReasonMissingPermission, "You don't have the required permissions to access this feature.")
		}
	}

	if len(req.AllowedRoles) > 0 && !contains(req.AllowedRoles, snap.Role) {
		return denied(ReasonRoleNotAllowed, "Access restricted.")
	}

	if len(req.AllowedDepartments) > 0 && !contains(req.AllowedDepartments, snap.Department) {
		return denied(ReasonDepartmentExcluded, "Access restricted.")
	}

	return granted()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
