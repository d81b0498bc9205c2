package authz

// Permission is an atomic capability grant. The (resource, action) pair is the
// identity; Description is display-only and never participates in comparisons.
type Permission struct {
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Pair identifies a permission without its description. Evaluator inputs and
// route-map values use this form.
type Pair struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Pair returns the identity of a catalog permission.
func (p Permission) Pair() Pair {
	return Pair{Resource: p.Resource, Action: p.Action}
}

// Key renders a pair as "resource:action" for logs and cache maps.
func (p Pair) Key() string {
	return p.Resource + ":" + p.Action
}

// AllPermissions is the complete, fixed permission catalog. It is assembled once
// at package init and must never be mutated afterwards.
var AllPermissions = []Permission{
	// Student
	{Resource: "courses", Action: "view_enrolled", Description: "View enrolled courses"},
	{Resource: "courses", Action: "enroll", Description: "Enroll in courses"},
	{Resource: "assignments", Action: "view_own", Description: "View own assignments"},
	{Resource: "assignments", Action: "submit", Description: "Submit assignments"},
	{Resource: "grades", Action: "view_own", Description: "View own grades"},
	{Resource: "schedule", Action: "view_own", Description: "View own schedule"},
	{Resource: "groups", Action: "join", Description: "Join study groups"},
	{Resource: "groups", Action: "participate", Description: "Participate in group chats"},

	// Parent
	{Resource: "students", Action: "view_child", Description: "View child information"},
	{Resource: "grades", Action: "view_child", Description: "View child grades"},
	{Resource: "schedule", Action: "view_child", Description: "View child schedule"},
	{Resource: "assignments", Action: "view_child", Description: "View child assignments"},

	// Class management
	{Resource: "classes", Action: "create", Description: "Create new classes"},
	{Resource: "classes", Action: "read", Description: "View class information"},
	{Resource: "classes", Action: "update", Description: "Edit class details"},
	{Resource: "classes", Action: "delete", Description: "Delete classes"},
	{Resource: "classes", Action: "manage_students", Description: "Add/remove students from classes"},

	// Student management
	{Resource: "students", Action: "read", Description: "View student profiles and information"},
	{Resource: "students", Action: "update", Description: "Edit student information"},
	{Resource: "students", Action: "view_grades", Description: "View student grades"},
	{Resource: "students", Action: "edit_grades", Description: "Modify student grades"},
	{Resource: "students", Action: "send_messages", Description: "Send messages to students"},
	{Resource: "students", Action: "view_attendance", Description: "View student attendance"},
	{Resource: "students", Action: "mark_attendance", Description: "Mark student attendance"},

	// Assessment management
	{Resource: "assessments", Action: "create", Description: "Create assignments and quizzes"},
	{Resource: "assessments", Action: "read", Description: "View assessments"},
	{Resource: "assessments", Action: "update", Description: "Edit assessments"},
	{Resource: "assessments", Action: "delete", Description: "Delete assessments"},
	{Resource: "assessments", Action: "grade", Description: "Grade student submissions"},
	{Resource: "assessments", Action: "publish", Description: "Publish assessment results"},

	// Content library
	{Resource: "content", Action: "create", Description: "Upload and create content"},
	{Resource: "content", Action: "read", Description: "Access content library"},
	{Resource: "content", Action: "update", Description: "Edit content materials"},
	{Resource: "content", Action: "delete", Description: "Delete content materials"},
	{Resource: "content", Action: "share", Description: "Share content with others"},
	{Resource: "content", Action: "bookmark", Description: "Bookmark content"},
	{Resource: "content", Action: "approve", Description: "Approve content"},

	// Analytics and reporting
	{Resource: "analytics", Action: "view_class_performance", Description: "View class performance analytics"},
	{Resource: "analytics", Action: "view_student_progress", Description: "View individual student progress"},
	{Resource: "analytics", Action: "export_reports", Description: "Export analytics reports"},
	{Resource: "analytics", Action: "view_engagement", Description: "View student engagement metrics"},
	{Resource: "analytics", Action: "view_all", Description: "View all analytics"},

	// Communication
	{Resource: "communication", Action: "create_announcements", Description: "Create class announcements"},
	{Resource: "communication", Action: "send_messages", Description: "Send direct messages"},
	{Resource: "communication", Action: "manage_forums", Description: "Participate in teacher forums"},
	{Resource: "communication", Action: "create_support_tickets", Description: "Create support tickets"},
	{Resource: "communication", Action: "manage_group_chats", Description: "Manage class group chats"},
	{Resource: "communication", Action: "moderate", Description: "Moderate communications"},
	{Resource: "communication", Action: "send_announcements", Description: "Send system announcements"},

	// Profile and settings
	{Resource: "profile", Action: "read", Description: "View own profile"},
	{Resource: "profile", Action: "update", Description: "Edit own profile"},
	{Resource: "profile", Action: "change_password", Description: "Change password"},
	{Resource: "profile", Action: "manage_notifications", Description: "Manage notification settings"},
	{Resource: "profile", Action: "export_data", Description: "Export personal data"},

	// Departmental administration
	{Resource: "admin", Action: "view_all_classes", Description: "View all classes in department"},
	{Resource: "admin", Action: "manage_teachers", Description: "Manage other teachers"},
	{Resource: "admin", Action: "view_department_analytics", Description: "View department-wide analytics"},
	{Resource: "admin", Action: "approve_content", Description: "Approve shared content"},
	{Resource: "admin", Action: "manage_departments", Description: "Manage department settings"},

	// System administration
	{Resource: "users", Action: "manage_all", Description: "Manage all users"},
	{Resource: "users", Action: "create", Description: "Create new users"},
	{Resource: "users", Action: "delete", Description: "Delete users"},
	{Resource: "users", Action: "elevate_role", Description: "Change user roles"},
	{Resource: "system", Action: "view_reports", Description: "View system reports"},
	{Resource: "system", Action: "manage_settings", Description: "Manage system settings"},
	{Resource: "system", Action: "moderate_content", Description: "Moderate platform content"},
	{Resource: "system", Action: "view_financial", Description: "View financial reports"},
}

// PermissionGroups maps a display heading to the resources shown under it.
// Used by the role-management API to organize the catalog for admins.
var PermissionGroups = []struct {
	Name      string
	Resources []string
}{
	{Name: "Class Management", Resources: []string{"classes"}},
	{Name: "Student Management", Resources: []string{"students"}},
	{Name: "Assessment Management", Resources: []string{"assessments"}},
	{Name: "Content Library", Resources: []string{"content"}},
	{Name: "Analytics & Reporting", Resources: []string{"analytics"}},
	{Name: "Communication", Resources: []string{"communication"}},
	{Name: "Profile & Settings", Resources: []string{"profile"}},
	{Name: "Course Access", Resources: []string{"courses", "assignments", "grades", "schedule", "groups"}},
	{Name: "Administrative", Resources: []string{"admin"}},
	{Name: "System", Resources: []string{"users", "system"}},
}

// PermissionsForResource returns every catalog permission under a resource.
// Pure lookup; the order follows the catalog.
func PermissionsForResource(resource string) []Permission {
	var out []Permission
	for _, p := range AllPermissions {
		if p.Resource == resource {
			out = append(out, p)
		}
	}
	return out
}
