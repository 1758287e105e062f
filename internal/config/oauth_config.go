package config

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScope() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "hr-dashboard")
}

// GetClientSecret returns the confidential client secret. Empty for public
// clients; never log this value.
func (OAuth) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

func (OAuth) GetRedirectURI() string {
	return GetEnv("OAUTH_REDIRECT_URI", "http://localhost:3000/callback")
}

func (OAuth) GetScope() string {
	return GetEnv("OAUTH_SCOPE", "openid profile email")
}
