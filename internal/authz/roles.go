package authz

// Role is a named, immutable bundle of permission grants. Inactive roles grant
// nothing even when assigned.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Permissions []Pair `json:"permissions"`
	IsActive    bool   `json:"is_active"`
}

// Well-known role identifiers.
const (
	RoleStudent           = "student"
	RoleParent            = "parent"
	RoleAdmin             = "admin"
	RoleNewTeacher        = "new_teacher"
	RoleStandardTeacher   = "standard_teacher"
	RoleSeniorTeacher     = "senior_teacher"
	RoleDepartmentHead    = "department_head"
	RoleSubstituteTeacher = "substitute_teacher"
)

// DefaultTeacherRole is assigned when a temporary role assignment expires.
const DefaultTeacherRole = RoleStandardTeacher

// grants builds pairs for several actions on one resource.
func grants(resource string, actions ...string) []Pair {
	pairs := make([]Pair, len(actions))
	for i, a := range actions {
		pairs[i] = Pair{Resource: resource, Action: a}
	}
	return pairs
}

func concat(sets ...[]Pair) []Pair {
	var out []Pair
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// fullCatalog derives the complete grant list from the catalog. The full-access
// role must track the catalog as it grows, so it is computed here rather than
// enumerated by hand.
func fullCatalog() []Pair {
	pairs := make([]Pair, len(AllPermissions))
	for i, p := range AllPermissions {
		pairs[i] = p.Pair()
	}
	return pairs
}

// standardTeacherGrants is shared verbatim by the senior-teacher role, which
// extends it with departmental permissions.
var standardTeacherGrants = concat(
	grants("classes", "create", "read", "update", "manage_students"),
	grants("students", "read", "update", "view_grades", "edit_grades", "send_messages", "view_attendance", "mark_attendance"),
	grants("assessments", "create", "read", "update", "delete", "grade", "publish"),
	grants("content", "create", "read", "update", "delete", "share", "bookmark"),
	grants("analytics", "view_class_performance", "view_student_progress", "export_reports", "view_engagement"),
	grants("communication", "create_announcements", "send_messages", "manage_forums", "create_support_tickets", "manage_group_chats"),
	grants("profile", "read", "update", "change_password", "manage_notifications", "export_data"),
)

// BuiltinRoles defines every role shipped with the system. Role definitions are
// static; only a user's role assignment changes at runtime.
var BuiltinRoles = []Role{
	{
		ID:          RoleStudent,
		Name:        "Student",
		Description: "Standard student permissions",
		IsActive:    true,
		Permissions: concat(
			grants("courses", "view_enrolled", "enroll"),
			grants("assignments", "view_own", "submit"),
			grants("grades", "view_own"),
			grants("schedule", "view_own"),
			grants("groups", "join", "participate"),
			grants("communication", "send_messages"),
			grants("profile", "read", "update", "change_password"),
		),
	},
	{
		ID:          RoleParent,
		Name:        "Parent",
		Description: "Parent permissions to monitor child progress",
		IsActive:    true,
		Permissions: concat(
			grants("students", "view_child"),
			grants("grades", "view_child"),
			grants("schedule", "view_child"),
			grants("assignments", "view_child"),
			grants("communication", "send_messages"),
			grants("profile", "read", "update", "change_password"),
		),
	},
	{
		ID:          RoleAdmin,
		Name:        "System Administrator",
		Description: "Full system administration permissions",
		IsActive:    true,
		Permissions: concat(
			grants("users", "manage_all", "create", "delete", "elevate_role"),
			grants("system", "view_reports", "manage_settings", "moderate_content", "view_financial"),
			grants("content", "create", "read", "update", "delete", "approve"),
			grants("analytics", "view_all", "export_reports"),
			grants("communication", "moderate", "send_announcements"),
			grants("profile", "read", "update", "change_password"),
		),
	},
	{
		ID:          RoleNewTeacher,
		Name:        "New Teacher",
		Description: "Basic permissions for newly hired teachers",
		IsActive:    true,
		Permissions: concat(
			grants("classes", "read"),
			grants("students", "read", "view_grades", "view_attendance"),
			grants("content", "read", "bookmark"),
			grants("communication", "send_messages", "create_support_tickets"),
			grants("profile", "read", "update", "change_password", "manage_notifications"),
		),
	},
	{
		ID:          RoleStandardTeacher,
		Name:        "Teacher",
		Description: "Standard permissions for regular teachers",
		IsActive:    true,
		Permissions: standardTeacherGrants,
	},
	{
		ID:          RoleSeniorTeacher,
		Name:        "Senior Teacher",
		Description: "Enhanced permissions for experienced teachers",
		IsActive:    true,
		Permissions: concat(
			standardTeacherGrants,
			grants("classes", "delete"),
			grants("admin", "view_all_classes", "view_department_analytics", "approve_content"),
		),
	},
	{
		ID:          RoleDepartmentHead,
		Name:        "Department Head",
		Description: "Full administrative permissions for department heads",
		IsActive:    true,
		Permissions: fullCatalog(),
	},
	{
		ID:          RoleSubstituteTeacher,
		Name:        "Substitute Teacher",
		Description: "Limited permissions for substitute teachers",
		IsActive:    true,
		Permissions: concat(
			grants("classes", "read"),
			grants("students", "read", "view_attendance", "mark_attendance", "send_messages"),
			grants("content", "read"),
			grants("communication", "send_messages", "create_support_tickets"),
			grants("profile", "read", "update"),
		),
	},
}
