package session

import (
	"time"

	"github.com/hroffice/go-hrclient/tenants"
	"github.com/hroffice/go-hrclient/users"
)

// Challenge is a short-lived server-issued token representing "this email has
// requested to authenticate". It is consumed by exactly one password
// submission and never persisted.
type Challenge struct {
	LoginChallenge string
	Company        *tenants.Company
	ExpiresIn      int // seconds, server-declared
	LoginURL       string
	IssuedAt       time.Time
}

// Expired reports whether the challenge has passed its server-declared
// lifetime.
func (c *Challenge) Expired(now time.Time) bool {
	deadline := c.IssuedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
	return !now.Before(deadline)
}

// OutcomeKind tags which downstream flow the server chose for a password
// submission.
type OutcomeKind string

const (
	// OutcomeRedirect hands the user-agent to another URL (SSO handoff).
	OutcomeRedirect OutcomeKind = "redirect"
	// OutcomeSession is direct issuance: the login response carried the user
	// record and tokens, no further exchange needed.
	OutcomeSession OutcomeKind = "session"
	// OutcomeCode requires a follow-up authorization-code exchange.
	OutcomeCode OutcomeKind = "code"
)

// LoginOutcome is the result of a password submission. Kind says which of the
// fields is meaningful, chosen in redirect > session > code priority order.
type LoginOutcome struct {
	Kind              OutcomeKind
	RedirectURL       string
	User              *users.User
	Tokens            *TokenSet
	AuthorizationCode string
}
