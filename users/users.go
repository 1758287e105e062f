package users

import (
	"strings"

	"github.com/hroffice/go-hrclient/navigation"
	"github.com/hroffice/go-hrclient/tenants"
)

// Role represents a user's role, either at system or company level.
type Role string

const (
	// System-level roles
	RoleIT         Role = "IT"          // Platform operator, manages all companies and plans
	RoleSuperAdmin Role = "SUPER_ADMIN" // Manages companies and subscriptions

	// Company-level roles
	RoleAdmin Role = "ADMIN" // Manages the HR data of a single company
	RoleUser  Role = "USER"  // Regular employee within a company
)

func (r Role) Valid() bool {
	switch r {
	case RoleIT, RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// CompanyScoped reports whether the role operates inside a single company
// tenant. Company-scoped roles get their routes prefixed with the company id.
func (r Role) CompanyScoped() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the authenticated account record returned by the userinfo endpoint.
// It is immutable except by replacement on fetch; the role never changes
// within a session.
type User struct {
	ID         string            `json:"id,omitempty"`
	Email      string            `json:"email,omitempty"`
	FirstName  string            `json:"firstName,omitempty"`
	LastName   string            `json:"lastName,omitempty"`
	Role       Role              `json:"role,omitempty"`
	CompanyID  string            `json:"companyId,omitempty"`
	Company    *tenants.Company  `json:"company,omitempty"`
	Navigation []navigation.Item `json:"navigation,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// BelongsTo reports whether the user is a member of the given company.
// System-level roles span all tenants.
func (u *User) BelongsTo(companyID string) bool {
	if companyID == "" || !u.Role.CompanyScoped() {
		return true
	}
	return u.CompanyID == companyID
}

// EffectiveNavigation returns the server-supplied navigation descriptors, or
// the static per-role table when the record carries none.
func (u *User) EffectiveNavigation() []navigation.Item {
	if len(u.Navigation) > 0 {
		return u.Navigation
	}
	return navigation.ForRole(string(u.Role), u.CompanyID)
}
