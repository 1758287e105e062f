package navigation

// Static per-role navigation, used when the authenticated user record carries
// no server-supplied descriptors. This is a config lookup, not a matching
// algorithm: company-scoped roles get their routes prefixed "/c/{companyID}",
// system-level roles are used unprefixed.

const (
	roleIT         = "IT"
	roleSuperAdmin = "SUPER_ADMIN"
	roleAdmin      = "ADMIN"
	roleUser       = "USER"
)

var roleRoutes = map[string][]Item{
	roleIT: {
		{Label: "Companies", Path: "/admin/companies", Icon: "apartment"},
		{Label: "Plans", Path: "/admin/plans", Icon: "license"},
		{Label: "Settings", Path: "/admin/settings", Icon: "settings"},
	},
	roleSuperAdmin: {
		{Label: "Companies", Path: "/companies", Icon: "apartment"},
		{Label: "Subscriptions", Path: "/subscriptions", Icon: "license"},
		{Label: "Reports", Path: "/reports", Icon: "insights"},
		{Label: "Settings", Path: "/settings", Icon: "settings"},
	},
	roleAdmin: {
		{Label: "Dashboard", Path: "/overview", Icon: "dashboard"},
		{Label: "Employees", Path: "/employees", Icon: "people"},
		{Label: "Departments", Path: "/departments", Icon: "organization"},
		{Label: "Designations", Path: "/designations", Icon: "badge"},
		{Label: "Leaves", Path: "/leaves", Icon: "event_busy"},
		{Label: "Attendance", Path: "/attendance", Icon: "schedule"},
		{Label: "Payroll", Path: "/payroll", Icon: "payments"},
		{Label: "Projects", Path: "/projects", Icon: "folder"},
		{Label: "Tasks", Path: "/tasks", Icon: "task"},
		{Label: "Holidays", Path: "/holidays", Icon: "beach_access"},
		{Label: "Announcements", Path: "/announcements", Icon: "campaign"},
		{Label: "Settings", Path: "/settings", Icon: "settings"},
	},
	roleUser: {
		{Label: "Dashboard", Path: "/overview", Icon: "dashboard"},
		{Label: "Leaves", Path: "/leaves", Icon: "event_busy"},
		{Label: "Attendance", Path: "/attendance", Icon: "schedule"},
		{Label: "Tasks", Path: "/tasks", Icon: "task"},
		{Label: "Holidays", Path: "/holidays", Icon: "beach_access"},
		{Label: "Announcements", Path: "/announcements", Icon: "campaign"},
		{Label: "Profile", Path: "/profile", Icon: "person"},
	},
}

var companyScopedRoles = map[string]bool{
	roleAdmin: true,
	roleUser:  true,
}

// ForRole returns the static navigation for a role. Unknown roles get no
// navigation. companyID is only applied to company-scoped roles.
func ForRole(role, companyID string) []Item {
	routes, ok := roleRoutes[role]
	if !ok {
		return nil
	}

	items := make([]Item, len(routes))
	copy(items, routes)
	if companyScopedRoles[role] && companyID != "" {
		for i := range items {
			items[i].Path = "/c/" + companyID + items[i].Path
		}
	}
	return items
}
