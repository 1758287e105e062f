// Package session owns the authentication lifecycle of the dashboard: the
// challenge -> password -> authorization-code -> token exchange flow, token
// refresh, and the persisted credentials behind it.
package session

import (
	"time"

	"github.com/hroffice/go-hrclient/users"
)

// expiryLeeway is the clock-skew window: a token within this distance of its
// expiry is already treated as expired, so a request never races a token that
// dies in flight.
const expiryLeeway = 30 * time.Second

// State of the session state machine.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateChallenged     State = "challenged"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Session holds the authenticated credentials and user record. It is owned
// exclusively by the Manager; the credential store only persists and restores
// its serialized form.
type Session struct {
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt int64 // wall-clock milliseconds; 0 means unknown
	User           *users.User
}

// Authenticated reports whether the session holds a usable access token at
// the given instant. A token with an unknown or past expiry is never treated
// as authenticated, even when the token itself is present.
func (s Session) Authenticated(now time.Time) bool {
	if s.AccessToken == "" || s.TokenExpiresAt == 0 {
		return false
	}
	return now.Add(expiryLeeway).UnixMilli() < s.TokenExpiresAt
}

// TokenSet is the result of a token exchange or refresh.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
