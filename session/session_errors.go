package session

import "errors"

var (
	// ErrChallengeSuperseded means a newer challenge request was issued while
	// this one was in flight; only the most recent challenge is honored.
	ErrChallengeSuperseded = errors.New("challenge superseded by a newer request")

	// ErrEmptyLoginResponse means the server answered the password submission
	// with none of the three expected shapes.
	ErrEmptyLoginResponse = errors.New("login response carried no redirect, session, or code")
)
