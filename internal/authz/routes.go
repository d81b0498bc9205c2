package authz

// RoutePermissions maps an application route to the single permission required
// to view it. Routes absent from this table are denied; the router flags any
// guard referencing an unmapped route at startup, so the ambiguity never
// reaches request time.
var RoutePermissions = map[string]Pair{
	// Student dashboard
	"/dashboard/student":             {Resource: "courses", Action: "view_enrolled"},
	"/dashboard/student/courses":     {Resource: "courses", Action: "view_enrolled"},
	"/dashboard/student/assignments": {Resource: "assignments", Action: "view_own"},
	"/dashboard/student/grades":      {Resource: "grades", Action: "view_own"},
	"/dashboard/student/schedule":    {Resource: "schedule", Action: "view_own"},

	// Teacher dashboard
	"/dashboard/teacher":     {Resource: "classes", Action: "read"},
	"/teacher":               {Resource: "profile", Action: "read"},
	"/teacher/classes":       {Resource: "classes", Action: "read"},
	"/teacher/students":      {Resource: "students", Action: "read"},
	"/teacher/assessments":   {Resource: "assessments", Action: "read"},
	"/teacher/content":       {Resource: "content", Action: "read"},
	"/teacher/analytics":     {Resource: "analytics", Action: "view_class_performance"},
	"/teacher/communication": {Resource: "communication", Action: "send_messages"},
	"/teacher/profile":       {Resource: "profile", Action: "read"},

	// Admin dashboard
	"/dashboard/admin":          {Resource: "users", Action: "manage_all"},
	"/dashboard/admin/users":    {Resource: "users", Action: "manage_all"},
	"/dashboard/admin/reports":  {Resource: "system", Action: "view_reports"},
	"/dashboard/admin/content":  {Resource: "content", Action: "update"},
	"/dashboard/admin/settings": {Resource: "system", Action: "manage_settings"},

	// Parent dashboard
	"/dashboard/parent":          {Resource: "students", Action: "view_child"},
	"/dashboard/parent/children": {Resource: "students", Action: "view_child"},
}
