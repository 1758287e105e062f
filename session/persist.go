package session

import (
	"encoding/json"
	"strings"

	"github.com/hroffice/go-hrclient/credstore"
	"github.com/hroffice/go-hrclient/users"
)

// storedAccessToken is the JSON envelope for the persisted access token. The
// expiry travels with the token so a restored session keeps the same
// authenticated/expired verdict it had before the restart.
type storedAccessToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

func encodeAccessToken(token string, expiresAt int64) string {
	raw, err := json.Marshal(storedAccessToken{Token: token, ExpiresAt: expiresAt})
	if err != nil {
		return token
	}
	return string(raw)
}

// decodeAccessToken accepts both the JSON envelope and a bare token string
// written by older builds. A bare token has an unknown expiry.
func decodeAccessToken(raw string) (string, int64) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return raw, 0
	}
	var stored storedAccessToken
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return "", 0
	}
	return stored.Token, stored.ExpiresAt
}

// restoreSession rebuilds a Session from the credential store. Corrupt
// entries are discarded and read as absent.
func restoreSession(store credstore.Store) Session {
	var session Session

	if raw, ok := store.Get(credstore.KeyAccessToken); ok {
		session.AccessToken, session.TokenExpiresAt = decodeAccessToken(raw)
	}
	if raw, ok := store.Get(credstore.KeyRefreshToken); ok {
		session.RefreshToken = raw
	}
	if raw, ok := store.Get(credstore.KeyUser); ok {
		var user users.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			_ = store.Delete(credstore.KeyUser)
		} else {
			session.User = &user
		}
	}
	return session
}
