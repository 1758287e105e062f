package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	hrerrors "github.com/hroffice/go-hrclient/internal/errors"
	"golang.org/x/oauth2"
)

// accessTokenExpiry reads the "exp" claim out of a JWT access token without
// verifying its signature; the client only needs the expiry hint, the server
// remains the authority on validity. Returns false for opaque tokens.
func accessTokenExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// tokenExpiresAt picks the expiry for a freshly issued token: the token
// endpoint's expires_in when given, the JWT exp claim otherwise, zero
// (unknown, treated as expired) when neither is available.
func tokenExpiresAt(tok *oauth2.Token) int64 {
	if !tok.Expiry.IsZero() {
		return tok.Expiry.UnixMilli()
	}
	if exp, ok := accessTokenExpiry(tok.AccessToken); ok {
		return exp.UnixMilli()
	}
	return 0
}

// mapTokenEndpointError folds golang.org/x/oauth2 retrieval failures into the
// error taxonomy. A 4xx from the token endpoint means the grant was refused
// (fatal becomes the caller's choice); anything else is a transport failure.
func mapTokenEndpointError(err error, refusedKind error) error {
	var retrieveErr *oauth2.RetrieveError
	if hrerrors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500 {
			return hrerrors.Wrapf(refusedKind, "token endpoint refused grant: %v", err)
		}
	}
	return hrerrors.Wrapf(hrerrors.ErrNetwork, "token endpoint unreachable: %v", err)
}
