package api

import (
	"context"

	"github.com/hroffice/go-hrclient/tenants"
	"github.com/hroffice/go-hrclient/users"
)

// ChallengeRequest starts the login flow for an email address.
// This is the request body sent to the challenge endpoint.
type ChallengeRequest struct {
	// Email is the address attempting to authenticate. Validated server-side.
	Email string `json:"email"`

	// ClientID identifies the OAuth2 client making the request.
	// Example: "hr-dashboard"
	ClientID string `json:"client_id"`

	// ResponseType is always "code": the server hands back an authorization
	// code which is later exchanged for tokens.
	ResponseType string `json:"response_type"`

	// Scope is the space-separated list of requested scopes.
	// Example: "openid profile email"
	Scope string `json:"scope"`

	// State is an opaque CSRF value echoed back through the flow.
	// Generated fresh per challenge request.
	State string `json:"state"`

	// RedirectURI is where the user-agent lands after authorization.
	RedirectURI string `json:"redirect_uri"`
}

// ChallengeResponse is the server's answer to a challenge request.
type ChallengeResponse struct {
	// LoginChallenge is a short-lived token representing "this email has
	// requested to authenticate". Consumed by exactly one password submission.
	LoginChallenge string `json:"loginChallenge"`

	// Company is the tenant the email resolved to, when the server knows it.
	Company *tenants.Company `json:"company,omitempty"`

	// ExpiresIn is the challenge lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`

	// LoginURL is an optional hosted login page for SSO tenants.
	LoginURL *string `json:"loginUrl,omitempty"`
}

// LoginRequest submits the password for a pending challenge.
type LoginRequest struct {
	LoginChallenge string `json:"login_challenge"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RememberMe     bool   `json:"remember_me"`
}

// TokenPayload carries tokens issued directly inside a login response
// (the server may skip the code exchange for first-party clients).
type TokenPayload struct {
	// AccessToken is the bearer credential for protected endpoints.
	AccessToken string `json:"access_token"`

	// RefreshToken obtains new access tokens without re-authenticating.
	// Security: persist securely, rotates when the server chooses to.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. A hint; the
	// authoritative expiry is the JWT "exp" claim.
	ExpiresIn int `json:"expires_in,omitempty"`
}

// LoginResponse is the union the login endpoint may answer with. Exactly one
// of the three shapes is populated, reflecting which downstream flow the
// server chose: redirect-based SSO handoff, direct session issuance, or an
// authorization-code handoff requiring a further exchange. Callers branch in
// that priority order.
type LoginResponse struct {
	// RedirectTo, when present, sends the user-agent elsewhere (SSO handoff).
	RedirectTo *string `json:"redirect_to,omitempty"`

	// User and Tokens are populated together for direct session issuance.
	User   *users.User   `json:"user,omitempty"`
	Tokens *TokenPayload `json:"tokens,omitempty"`

	// AuthorizationCode is a one-time code for the token exchange.
	AuthorizationCode *string `json:"authorizationCode,omitempty"`
}

// LogoutRequest invalidates a refresh token server-side. Best-effort only;
// local logout never waits on its outcome.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Challenge requests a login challenge for an email.
func (c *Client) Challenge(ctx context.Context, req ChallengeRequest) (*ChallengeResponse, error) {
	var resp ChallengeResponse
	if err := c.do(ctx, "POST", challengePath, nil, req, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login submits the password for a pending challenge.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, "POST", loginPath, nil, req, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserInfo fetches the authenticated user record using a bearer token.
func (c *Client) UserInfo(ctx context.Context, bearer string) (*users.User, error) {
	var user users.User
	if err := c.do(ctx, "GET", userInfoPath, nil, nil, bearer, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout notifies the server that a refresh token should be invalidated.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, "POST", logoutPath, nil, LogoutRequest{RefreshToken: refreshToken}, "", nil)
}
