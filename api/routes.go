package api

// API paths. The exact paths are an external contract shared with the server.
const (
	challengePath = "/api/v1/oauth/challenge"
	loginPath     = "/api/v1/oauth/login"
	tokenPath     = "/api/v1/oauth/token"
	userInfoPath  = "/api/v1/oauth/userinfo"
	logoutPath    = "/api/v1/oauth/logout"

	tenantBySubdomainPath = "/api/v1/tenants/by-subdomain/"
	tenantByEmailPath     = "/api/v1/tenants/by-email"
	tenantLookupPath      = "/api/v1/tenants/lookup"
	subdomainCheckPath    = "/api/v1/tenants/validate-subdomain"
)
