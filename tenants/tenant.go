package tenants

import "time"

// Status is the subscription state of a company tenant.
type Status string

const (
	StatusTrial     Status = "TRIAL"
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusSuspended Status = "SUSPENDED"
)

// Company represents a multi-tenant organization. Tenants are resolved
// independently of the user (by subdomain or email) and re-attached once the
// user record arrives.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Timezone  string    `json:"timezone"`
}

// Usable reports whether users of the tenant can sign in at all. EXPIRED and
// SUSPENDED tenants still resolve, so the UI can show a billing notice instead
// of a generic failure.
func (c Company) Usable() bool {
	return c.Status == StatusTrial || c.Status == StatusActive
}

// Info is the resolution result cached in the credential store and used as a
// fallback at the next startup when URL-based resolution is unavailable.
type Info struct {
	CompanyID string   `json:"companyId"`
	Subdomain string   `json:"subdomain"`
	Company   *Company `json:"company,omitempty"`
}

// SubdomainCheck is the result of validating a candidate subdomain during
// tenant self-registration.
type SubdomainCheck struct {
	Valid     bool `json:"valid"`
	Available bool `json:"available"`
}
