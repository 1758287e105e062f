package navigation

// PageID is the closed enumeration of pages the dashboard knows how to
// render. Server navigation descriptors reference pages by icon name; the
// lookup below maps them to a PageID, with PageUnknown as the explicit
// placeholder variant for descriptors this build does not recognize.
type PageID string

const (
	PageDashboard     PageID = "dashboard"
	PageEmployees     PageID = "employees"
	PageDepartments   PageID = "departments"
	PageDesignations  PageID = "designations"
	PageLeaves        PageID = "leaves"
	PageAttendance    PageID = "attendance"
	PagePayroll       PageID = "payroll"
	PageProjects      PageID = "projects"
	PageTasks         PageID = "tasks"
	PageHolidays      PageID = "holidays"
	PageAnnouncements PageID = "announcements"
	PageCompanies     PageID = "companies"
	PagePlans         PageID = "plans"
	PageReports       PageID = "reports"
	PageSettings      PageID = "settings"
	PageProfile       PageID = "profile"
	PageUnknown       PageID = "unknown"
)

var iconPages = map[string]PageID{
	"dashboard":    PageDashboard,
	"people":       PageEmployees,
	"organization": PageDepartments,
	"badge":        PageDesignations,
	"event_busy":   PageLeaves,
	"schedule":     PageAttendance,
	"payments":     PagePayroll,
	"folder":       PageProjects,
	"task":         PageTasks,
	"beach_access": PageHolidays,
	"campaign":     PageAnnouncements,
	"apartment":    PageCompanies,
	"license":      PagePlans,
	"insights":     PageReports,
	"settings":     PageSettings,
	"person":       PageProfile,
}

// PageForIcon maps a descriptor icon name to a known page, or PageUnknown.
func PageForIcon(icon string) PageID {
	if id, ok := iconPages[icon]; ok {
		return id
	}
	return PageUnknown
}

// Page resolves the page an item renders as.
func (i Item) Page() PageID {
	return PageForIcon(i.Icon)
}
