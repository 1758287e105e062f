package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers of the client. Every remote-call failure is
// re-surfaced as one of these at the api boundary; no raw transport error
// propagates further.
var (
	// ErrValidation indicates malformed input (server-validated, not retried)
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates no matching tenant or account
	ErrNotFound = errors.New("not found")

	// ErrAuth indicates bad credentials; retryable by re-entering the password
	// without requesting a new challenge
	ErrAuth = errors.New("invalid credentials")

	// ErrChallengeExpired means the login challenge timed out; the flow must
	// restart from a new challenge request
	ErrChallengeExpired = errors.New("login challenge expired")

	// ErrSessionExpired means the refresh token is invalid or absent; a full
	// re-login is required
	ErrSessionExpired = errors.New("session expired")

	// ErrNetwork indicates a transport failure, generically retryable
	ErrNetwork = errors.New("network failure")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
