package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hroffice/go-hrclient/api"
	"github.com/hroffice/go-hrclient/credstore"
	hrerrors "github.com/hroffice/go-hrclient/internal/errors"
	"github.com/hroffice/go-hrclient/internal/utils"
	"github.com/hroffice/go-hrclient/tenants"
	"github.com/hroffice/go-hrclient/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// AuthAPI is the remote authentication surface consumed by the Manager.
// Implemented by the api client.
type AuthAPI interface {
	Challenge(ctx context.Context, req api.ChallengeRequest) (*api.ChallengeResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	UserInfo(ctx context.Context, bearer string) (*users.User, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Config carries the OAuth client identity the Manager authenticates with.
type Config struct {
	ClientID     string
	ClientSecret string // empty for public clients
	RedirectURI  string
	Scope        string // space-separated
	TokenURL     string // absolute token endpoint, e.g. api.Client.TokenURL()
}

// Manager orchestrates the challenge -> password -> code exchange -> refresh
// lifecycle and owns the Session. Operations are safe for concurrent use;
// overlapping challenge requests are resolved last-write-wins, with stale
// in-flight responses rejected instead of applied.
type Manager struct {
	api        AuthAPI
	store      credstore.Store
	oauth      oauth2.Config
	httpClient *http.Client
	nowTime    func() time.Time
	log        zerolog.Logger

	mu             sync.Mutex
	state          State
	session        Session
	challenge      *Challenge
	challengeEmail string
	challengeGen   uint64
}

type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithHTTPClient sets the HTTP client used for token-endpoint calls.
func WithHTTPClient(hc *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpClient = hc
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration is provided via options (e.g. WithNowTime for testing).
func NewManager(authAPI AuthAPI, store credstore.Store, cfg Config, options ...ManagerOption) (*Manager, error) {
	if authAPI == nil {
		return nil, errors.New("[NewManager] AuthAPI is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("[NewManager] ClientID is required")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New("[NewManager] TokenURL is required")
	}

	manager := &Manager{
		api:   authAPI,
		store: store,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		nowTime: time.Now,
		log:     log.Logger,
		state:   StateAnonymous,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Restore rebuilds the session from the credential store, typically once at
// startup. Corrupt entries read as absent. Returns a copy of the session.
func (m *Manager) Restore() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = restoreSession(m.store)
	if m.session.Authenticated(m.nowTime()) {
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}
	return m.session
}

// State returns the current state-machine position.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AccessToken returns the current bearer credential, empty when logged out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken
}

// RequestChallenge starts the login flow for an email. A second challenge
// request invalidates the first: only the most recent one is honored, and a
// stale in-flight response is rejected with ErrChallengeSuperseded rather
// than applied over newer state.
func (m *Manager) RequestChallenge(ctx context.Context, email string) (*Challenge, error) {
	m.mu.Lock()
	m.challengeGen++
	gen := m.challengeGen
	req := api.ChallengeRequest{
		Email:        email,
		ClientID:     m.oauth.ClientID,
		ResponseType: "code",
		Scope:        strings.Join(m.oauth.Scopes, " "),
		State:        uuid.New().String(),
		RedirectURI:  m.oauth.RedirectURL,
	}
	m.mu.Unlock()

	resp, err := m.api.Challenge(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.challengeGen {
		return nil, ErrChallengeSuperseded
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.RequestChallenge] challenge request")
	}

	challenge := &Challenge{
		LoginChallenge: resp.LoginChallenge,
		Company:        resp.Company,
		ExpiresIn:      resp.ExpiresIn,
		LoginURL:       utils.Value(resp.LoginURL),
		IssuedAt:       m.nowTime(),
	}
	m.challenge = challenge
	m.challengeEmail = email
	m.state = StateChallenged
	return challenge, nil
}

// SubmitPassword consumes the pending challenge. An expired challenge always
// fails with ErrChallengeExpired (checked client-side before sending, and the
// server's rejection is mapped the same way); invalid credentials fail with
// ErrAuth and keep the challenge alive so the user can retry the password
// without re-challenging.
func (m *Manager) SubmitPassword(ctx context.Context, password string, rememberMe bool) (*LoginOutcome, error) {
	m.mu.Lock()
	challenge := m.challenge
	if challenge == nil {
		m.state = StateAnonymous
		m.mu.Unlock()
		return nil, hrerrors.Wrapf(hrerrors.ErrChallengeExpired, "[Manager.SubmitPassword] no pending challenge")
	}
	if challenge.Expired(m.nowTime()) {
		m.challenge = nil
		m.challengeEmail = ""
		m.state = StateAnonymous
		m.mu.Unlock()
		return nil, hrerrors.Wrapf(hrerrors.ErrChallengeExpired, "[Manager.SubmitPassword] challenge timed out")
	}
	email := m.challengeEmail
	m.state = StateAuthenticating
	m.mu.Unlock()

	resp, err := m.api.Login(ctx, api.LoginRequest{
		LoginChallenge: challenge.LoginChallenge,
		Email:          email,
		Password:       password,
		RememberMe:     rememberMe,
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.challenge != challenge {
		return nil, ErrChallengeSuperseded
	}

	if err != nil {
		switch {
		case hrerrors.Is(err, hrerrors.ErrChallengeExpired):
			m.challenge = nil
			m.challengeEmail = ""
			m.state = StateAnonymous
		default:
			// Invalid credentials and transient failures keep the challenge
			// alive for a retry.
			m.state = StateChallenged
		}
		return nil, errors.Wrap(err, "[Manager.SubmitPassword] login")
	}

	// The challenge is consumed by exactly one submission.
	m.challenge = nil
	m.challengeEmail = ""

	switch {
	case utils.Value(resp.RedirectTo) != "":
		// SSO handoff; no local session is established.
		m.state = StateAnonymous
		return &LoginOutcome{Kind: OutcomeRedirect, RedirectURL: utils.Value(resp.RedirectTo)}, nil

	case resp.User != nil && resp.Tokens != nil:
		set := m.establishLocked(resp.Tokens.AccessToken, resp.Tokens.RefreshToken, m.payloadExpiry(resp.Tokens))
		m.setUserLocked(resp.User)
		return &LoginOutcome{Kind: OutcomeSession, User: resp.User, Tokens: set}, nil

	case utils.Value(resp.AuthorizationCode) != "":
		// Caller must follow up with ExchangeAuthorizationCode.
		return &LoginOutcome{Kind: OutcomeCode, AuthorizationCode: utils.Value(resp.AuthorizationCode)}, nil
	}

	m.state = StateAnonymous
	return nil, ErrEmptyLoginResponse
}

// ExchangeAuthorizationCode trades a one-time code for tokens at the token
// endpoint and transitions to authenticated.
func (m *Manager) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenSet, error) {
	tok, err := m.oauth.Exchange(m.httpContext(ctx), code)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		mapped := mapTokenEndpointError(err, hrerrors.ErrAuth)
		if hrerrors.Is(mapped, hrerrors.ErrAuth) {
			m.state = StateAnonymous
		}
		return nil, errors.Wrap(mapped, "[Manager.ExchangeAuthorizationCode] exchange")
	}

	return m.establishLocked(tok.AccessToken, tok.RefreshToken, tokenExpiresAt(tok)), nil
}

// Refresh obtains a fresh access token using the stored refresh token. A
// rotated refresh token replaces the stored one; when the server omits it,
// the prior refresh token remains valid. A missing or refused refresh token
// is fatal: credentials are cleared and the state returns to anonymous.
func (m *Manager) Refresh(ctx context.Context) (*TokenSet, error) {
	m.mu.Lock()
	refreshToken := m.session.RefreshToken
	if refreshToken == "" {
		m.clearCredentialsLocked()
		m.session = Session{}
		m.state = StateAnonymous
		m.mu.Unlock()
		return nil, hrerrors.Wrapf(hrerrors.ErrSessionExpired, "[Manager.Refresh] no refresh token stored")
	}
	m.mu.Unlock()

	// TokenSource reuses the old refresh token when the server does not
	// rotate it, which matches the optional-rotation contract.
	source := m.oauth.TokenSource(m.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		mapped := mapTokenEndpointError(err, hrerrors.ErrSessionExpired)
		if hrerrors.Is(mapped, hrerrors.ErrSessionExpired) {
			m.clearCredentialsLocked()
			m.session = Session{}
			m.state = StateAnonymous
		}
		return nil, errors.Wrap(mapped, "[Manager.Refresh] token refresh")
	}

	return m.establishLocked(tok.AccessToken, tok.RefreshToken, tokenExpiresAt(tok)), nil
}

// FetchCurrentUser loads the authenticated user record, refreshing the access
// token at most once when it is expired or rejected.
func (m *Manager) FetchCurrentUser(ctx context.Context) (*users.User, error) {
	m.mu.Lock()
	freshToken := m.session.Authenticated(m.nowTime())
	m.mu.Unlock()

	if !freshToken {
		if _, err := m.Refresh(ctx); err != nil {
			return nil, errors.Wrap(err, "[Manager.FetchCurrentUser] refresh")
		}
	}

	user, err := m.api.UserInfo(ctx, m.AccessToken())
	if err != nil && freshToken && hrerrors.Is(err, hrerrors.ErrAuth) {
		// The server rejected a token we still believed in; one refresh
		// attempt before surfacing the failure.
		if _, refreshErr := m.Refresh(ctx); refreshErr != nil {
			return nil, errors.Wrap(refreshErr, "[Manager.FetchCurrentUser] refresh after rejection")
		}
		user, err = m.api.UserInfo(ctx, m.AccessToken())
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchCurrentUser] userinfo")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setUserLocked(user)
	m.reconcileTenantLocked(user)
	return user, nil
}

// Logout notifies the server on a best-effort basis and unconditionally
// clears all stored credentials; local logout is never blocked by a network
// failure.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	refreshToken := m.session.RefreshToken
	m.mu.Unlock()

	if refreshToken != "" {
		if err := m.api.Logout(ctx, refreshToken); err != nil {
			m.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCredentialsLocked()
	m.session = Session{}
	m.challenge = nil
	m.challengeEmail = ""
	m.state = StateAnonymous
	return nil
}

// establishLocked installs freshly issued tokens, persists them, and moves to
// authenticated. An empty rotated refresh token keeps the previous one.
// Callers must hold m.mu.
func (m *Manager) establishLocked(accessToken, refreshToken string, expiresAt int64) *TokenSet {
	m.session.AccessToken = accessToken
	m.session.TokenExpiresAt = expiresAt
	if refreshToken != "" {
		m.session.RefreshToken = refreshToken
	}

	if err := m.store.Set(credstore.KeyAccessToken, encodeAccessToken(accessToken, expiresAt)); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist access token")
	}
	if refreshToken != "" {
		if err := m.store.Set(credstore.KeyRefreshToken, refreshToken); err != nil {
			m.log.Warn().Err(err).Msg("failed to persist refresh token")
		}
	}

	m.state = StateAuthenticated
	return &TokenSet{
		AccessToken:  accessToken,
		RefreshToken: m.session.RefreshToken,
		ExpiresAt:    time.UnixMilli(expiresAt),
	}
}

// setUserLocked replaces the session user and persists the record. Callers
// must hold m.mu.
func (m *Manager) setUserLocked(user *users.User) {
	m.session.User = user
	raw, err := json.Marshal(user)
	if err != nil {
		m.log.Warn().Err(err).Msg("failed to encode user record")
		return
	}
	if err := m.store.Set(credstore.KeyUser, string(raw)); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist user record")
	}
}

// reconcileTenantLocked compares the company embedded in the user record with
// the tenant resolved from the browsing context. The two resolutions must
// agree on the company id; when they disagree the session is flagged in the
// log and the user-embedded company wins, since it came authenticated.
// Callers must hold m.mu.
func (m *Manager) reconcileTenantLocked(user *users.User) {
	if user == nil || user.CompanyID == "" {
		return
	}

	var cached tenants.Info
	if raw, ok := m.store.Get(credstore.KeyTenant); ok {
		if err := json.Unmarshal([]byte(raw), &cached); err != nil {
			cached = tenants.Info{}
		}
	}
	if cached.CompanyID == user.CompanyID {
		return
	}
	if cached.CompanyID != "" {
		m.log.Warn().
			Str("resolvedCompanyId", cached.CompanyID).
			Str("userCompanyId", user.CompanyID).
			Msg("tenant resolution disagrees with user record, trusting user record")
	}

	info := tenants.Info{CompanyID: user.CompanyID, Company: user.Company}
	if user.Company != nil {
		info.Subdomain = user.Company.Subdomain
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := m.store.Set(credstore.KeyTenant, string(raw)); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist reconciled tenant")
	}
}

// clearCredentialsLocked removes the access token, refresh token, and user
// record from the store. The cached tenant survives so the next startup still
// knows its company context. Callers must hold m.mu.
func (m *Manager) clearCredentialsLocked() {
	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		if err := m.store.Delete(key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("failed to clear credential")
		}
	}
}

func (m *Manager) payloadExpiry(payload *api.TokenPayload) int64 {
	if payload.ExpiresIn > 0 {
		return m.nowTime().Add(time.Duration(payload.ExpiresIn) * time.Second).UnixMilli()
	}
	if exp, ok := accessTokenExpiry(payload.AccessToken); ok {
		return exp.UnixMilli()
	}
	return 0
}

// httpContext injects the configured HTTP client into ctx for the oauth2
// transport.
func (m *Manager) httpContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}
