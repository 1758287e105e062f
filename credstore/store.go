// Package credstore provides durable key-value persistence for session
// credentials and cached tenant data. The session manager and tenant resolver
// both write to the store but to disjoint key sets, so each write only needs
// to be atomic at the key level.
package credstore

// Keys persisted across restarts. Each entry is a plain string, JSON-encoded
// where the value is structured.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
	KeyTenant       = "tenant"
)

// Store is a durable keyed credential store. Get reports absence via the
// bool; a corrupt or undecryptable entry is treated as absent, never as an
// error.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}
