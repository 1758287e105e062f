package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hroffice/go-hrclient/api"
	"github.com/hroffice/go-hrclient/credstore"
	hrerrors "github.com/hroffice/go-hrclient/internal/errors"
	"github.com/hroffice/go-hrclient/internal/utils"
	"github.com/hroffice/go-hrclient/session"
	"github.com/hroffice/go-hrclient/users"
	"github.com/stretchr/testify/require"
)

const (
	testClientID    = "hr-dashboard"
	testRedirectURI = "http://localhost:3000/callback"
	testEmail       = "jane.doe@acme.example"
	testPassword    = "password123"
	testChallengeID = "challenge-1"
	testCompanyID   = "comp-1"
)

// fakeAuthAPI is a hand-rolled AuthAPI fake in the style of the repo fakes
// used by the other packages.
type fakeAuthAPI struct {
	challengeResp *api.ChallengeResponse
	challengeErr  error
	challengeHook func() // runs during the Challenge call, before it returns

	loginResp  *api.LoginResponse
	loginErr   error
	loginCalls int

	userInfoResp  *users.User
	userInfoErr   error
	userInfoCalls int

	logoutErr   error
	logoutCalls int
}

func (f *fakeAuthAPI) Challenge(_ context.Context, _ api.ChallengeRequest) (*api.ChallengeResponse, error) {
	if f.challengeHook != nil {
		hook := f.challengeHook
		f.challengeHook = nil
		hook()
	}
	if f.challengeErr != nil {
		return nil, f.challengeErr
	}
	return f.challengeResp, nil
}

func (f *fakeAuthAPI) Login(_ context.Context, _ api.LoginRequest) (*api.LoginResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthAPI) UserInfo(_ context.Context, _ string) (*users.User, error) {
	f.userInfoCalls++
	if f.userInfoErr != nil {
		err := f.userInfoErr
		f.userInfoErr = nil // only fail once, like an expired token
		return nil, err
	}
	return f.userInfoResp, nil
}

func (f *fakeAuthAPI) Logout(_ context.Context, _ string) error {
	f.logoutCalls++
	return f.logoutErr
}

type managerFixture struct {
	api     *fakeAuthAPI
	store   *credstore.MemStore
	manager *session.Manager
	now     time.Time
}

func defaultChallenge() *api.ChallengeResponse {
	return &api.ChallengeResponse{LoginChallenge: testChallengeID, ExpiresIn: 300}
}

func testUser() *users.User {
	return &users.User{
		ID:        "user-1",
		Email:     testEmail,
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      users.RoleAdmin,
		CompanyID: testCompanyID,
	}
}

// newManagerFixture builds a Manager over fakes, with a controllable clock
// and an optional real token endpoint URL.
func newManagerFixture(t *testing.T, tokenURL string) *managerFixture {
	t.Helper()

	if tokenURL == "" {
		tokenURL = "http://token.invalid/oauth/token"
	}

	f := &managerFixture{
		api:   &fakeAuthAPI{challengeResp: defaultChallenge()},
		store: credstore.NewMemStore(),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	manager, err := session.NewManager(f.api, f.store, session.Config{
		ClientID:    testClientID,
		RedirectURI: testRedirectURI,
		Scope:       "openid profile email",
		TokenURL:    tokenURL,
	}, session.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.manager = manager
	return f
}

// tokenEndpoint spins up a fake OAuth2 token endpoint answering with the
// given payload (or status when payload is nil).
func tokenEndpoint(t *testing.T, status int, payload map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			require.NoError(t, json.NewEncoder(w).Encode(payload))
		} else {
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func (f *managerFixture) login(t *testing.T) {
	t.Helper()
	f.api.loginResp = &api.LoginResponse{
		User: testUser(),
		Tokens: &api.TokenPayload{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
		},
	}
	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)
	outcome, err := f.manager.SubmitPassword(context.Background(), testPassword, true)
	require.NoError(t, err)
	require.Equal(t, session.OutcomeSession, outcome.Kind)
}

func TestRequestChallengeTransitionsToChallenged(t *testing.T) {
	f := newManagerFixture(t, "")

	require.Equal(t, session.StateAnonymous, f.manager.State())
	challenge, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, testChallengeID, challenge.LoginChallenge)
	require.Equal(t, session.StateChallenged, f.manager.State())
}

func TestRequestChallengeSupersededByNewerRequest(t *testing.T) {
	f := newManagerFixture(t, "")

	// A second challenge request completes while the first is still in
	// flight; the first must not apply its result over the newer one.
	f.api.challengeHook = func() {
		_, err := f.manager.RequestChallenge(context.Background(), "other@acme.example")
		require.NoError(t, err)
	}
	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.ErrorIs(t, err, session.ErrChallengeSuperseded)
	require.Equal(t, session.StateChallenged, f.manager.State())
}

func TestSubmitPasswordWithoutChallenge(t *testing.T) {
	f := newManagerFixture(t, "")

	_, err := f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.True(t, hrerrors.Is(err, hrerrors.ErrChallengeExpired))
	require.Equal(t, session.StateAnonymous, f.manager.State())
	require.Zero(t, f.api.loginCalls, "an expired challenge must not reach the server")
}

func TestSubmitPasswordExpiredChallenge(t *testing.T) {
	f := newManagerFixture(t, "")

	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)

	f.now = f.now.Add(10 * time.Minute)
	_, err = f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.True(t, hrerrors.Is(err, hrerrors.ErrChallengeExpired))
	require.Equal(t, session.StateAnonymous, f.manager.State())
	require.Zero(t, f.api.loginCalls)
}

func TestSubmitPasswordServerSaysChallengeExpired(t *testing.T) {
	f := newManagerFixture(t, "")

	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)

	// The server can reject a challenge the client still believed valid.
	f.api.loginErr = hrerrors.Wrapf(hrerrors.ErrChallengeExpired, "challenge gone")
	_, err = f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.True(t, hrerrors.Is(err, hrerrors.ErrChallengeExpired))
	require.Equal(t, session.StateAnonymous, f.manager.State())
}

func TestSubmitPasswordBadCredentialsKeepsChallengeAlive(t *testing.T) {
	f := newManagerFixture(t, "")

	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)

	f.api.loginErr = hrerrors.Wrapf(hrerrors.ErrAuth, "wrong password")
	_, err = f.manager.SubmitPassword(context.Background(), "nope", false)
	require.True(t, hrerrors.Is(err, hrerrors.ErrAuth))
	require.Equal(t, session.StateChallenged, f.manager.State())

	// The user retries with the right password without re-challenging.
	f.api.loginErr = nil
	f.api.loginResp = &api.LoginResponse{
		User:   testUser(),
		Tokens: &api.TokenPayload{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 3600},
	}
	outcome, err := f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.NoError(t, err)
	require.Equal(t, session.OutcomeSession, outcome.Kind)
	require.Equal(t, session.StateAuthenticated, f.manager.State())
}

func TestSubmitPasswordDirectIssuance(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)

	current := f.manager.Current()
	require.Equal(t, "access-1", current.AccessToken)
	require.Equal(t, "refresh-1", current.RefreshToken)
	require.True(t, current.Authenticated(f.now))
	require.NotNil(t, current.User)
	require.Equal(t, testEmail, current.User.Email)

	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		_, ok := f.store.Get(key)
		require.True(t, ok, "key %s must be persisted", key)
	}
}

func TestSubmitPasswordRedirectTakesPriority(t *testing.T) {
	f := newManagerFixture(t, "")

	redirect := "https://sso.acme.example/login"
	f.api.loginResp = &api.LoginResponse{
		RedirectTo:        utils.Ptr(redirect),
		User:              testUser(),
		Tokens:            &api.TokenPayload{AccessToken: "access-1"},
		AuthorizationCode: utils.Ptr("code-1"),
	}

	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)
	outcome, err := f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.NoError(t, err)
	require.Equal(t, session.OutcomeRedirect, outcome.Kind)
	require.Equal(t, redirect, outcome.RedirectURL)
	require.Equal(t, session.StateAnonymous, f.manager.State())
}

func TestAuthorizationCodeFlow(t *testing.T) {
	server := tokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token":  "access-2",
		"refresh_token": "refresh-2",
		"token_type":    "bearer",
		"expires_in":    3600,
	})
	f := newManagerFixture(t, server.URL+"/oauth/token")

	f.api.loginResp = &api.LoginResponse{AuthorizationCode: utils.Ptr("code-1")}

	_, err := f.manager.RequestChallenge(context.Background(), testEmail)
	require.NoError(t, err)
	outcome, err := f.manager.SubmitPassword(context.Background(), testPassword, false)
	require.NoError(t, err)
	require.Equal(t, session.OutcomeCode, outcome.Kind)
	require.Equal(t, session.StateAuthenticating, f.manager.State())

	set, err := f.manager.ExchangeAuthorizationCode(context.Background(), outcome.AuthorizationCode)
	require.NoError(t, err)
	require.Equal(t, "access-2", set.AccessToken)
	require.Equal(t, "refresh-2", set.RefreshToken)
	require.Equal(t, session.StateAuthenticated, f.manager.State())

	_, ok := f.store.Get(credstore.KeyAccessToken)
	require.True(t, ok)
	_, ok = f.store.Get(credstore.KeyRefreshToken)
	require.True(t, ok)
}

func TestRefreshWithoutTokenIsFatal(t *testing.T) {
	f := newManagerFixture(t, "")

	_, err := f.manager.Refresh(context.Background())
	require.True(t, hrerrors.Is(err, hrerrors.ErrSessionExpired))
	require.Equal(t, session.StateAnonymous, f.manager.State())
}

func TestRefreshRotationIsOptional(t *testing.T) {
	// The token endpoint answers without a refresh token; the stored one must
	// remain valid.
	server := tokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token": "access-2",
		"token_type":   "bearer",
		"expires_in":   3600,
	})
	f := newManagerFixture(t, server.URL+"/oauth/token")
	f.login(t)

	set, err := f.manager.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access-2", set.AccessToken)
	require.Equal(t, "refresh-1", set.RefreshToken)
	require.Equal(t, "refresh-1", f.manager.Current().RefreshToken)
}

func TestRefreshRotationReplacesToken(t *testing.T) {
	server := tokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token":  "access-2",
		"refresh_token": "refresh-2",
		"token_type":    "bearer",
		"expires_in":    3600,
	})
	f := newManagerFixture(t, server.URL+"/oauth/token")
	f.login(t)

	_, err := f.manager.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "refresh-2", f.manager.Current().RefreshToken)

	stored, ok := f.store.Get(credstore.KeyRefreshToken)
	require.True(t, ok)
	require.Equal(t, "refresh-2", stored)
}

func TestRefreshRefusedClearsSession(t *testing.T) {
	server := tokenEndpoint(t, http.StatusBadRequest, nil)
	f := newManagerFixture(t, server.URL+"/oauth/token")
	f.login(t)

	_, err := f.manager.Refresh(context.Background())
	require.True(t, hrerrors.Is(err, hrerrors.ErrSessionExpired))
	require.Equal(t, session.StateAnonymous, f.manager.State())

	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		_, ok := f.store.Get(key)
		require.False(t, ok, "key %s must be cleared", key)
	}
}

func TestFetchCurrentUserRefreshesOnceOnRejection(t *testing.T) {
	server := tokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token": "access-2",
		"token_type":   "bearer",
		"expires_in":   3600,
	})
	f := newManagerFixture(t, server.URL+"/oauth/token")
	f.login(t)

	f.api.userInfoResp = testUser()
	f.api.userInfoErr = hrerrors.Wrapf(hrerrors.ErrAuth, "token rejected")

	user, err := f.manager.FetchCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, 2, f.api.userInfoCalls)
	require.Equal(t, "access-2", f.manager.AccessToken())
}

func TestFetchCurrentUserPersistsRecord(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)
	f.api.userInfoResp = testUser()

	_, err := f.manager.FetchCurrentUser(context.Background())
	require.NoError(t, err)

	raw, ok := f.store.Get(credstore.KeyUser)
	require.True(t, ok)
	var stored users.User
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Equal(t, testEmail, stored.Email)
}

func TestFetchCurrentUserFlagsTenantMismatch(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)

	// The subdomain-resolved tenant disagrees with the user record; the
	// user-embedded company wins.
	require.NoError(t, f.store.Set(credstore.KeyTenant, `{"companyId":"other-company","subdomain":"other"}`))
	f.api.userInfoResp = testUser()

	_, err := f.manager.FetchCurrentUser(context.Background())
	require.NoError(t, err)

	raw, ok := f.store.Get(credstore.KeyTenant)
	require.True(t, ok)
	require.Contains(t, raw, testCompanyID)
}

func TestLogoutClearsCredentialsEvenWhenServerFails(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)
	f.api.logoutErr = hrerrors.Wrapf(hrerrors.ErrNetwork, "connection refused")

	require.NoError(t, f.manager.Logout(context.Background()))
	require.Equal(t, 1, f.api.logoutCalls)
	require.Equal(t, session.StateAnonymous, f.manager.State())

	for _, key := range []string{credstore.KeyAccessToken, credstore.KeyRefreshToken, credstore.KeyUser} {
		_, ok := f.store.Get(key)
		require.False(t, ok, "key %s must be cleared despite the server failure", key)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)
	before := f.manager.Current()

	// A second manager over the same store picks up an equivalent session.
	reloaded, err := session.NewManager(f.api, f.store, session.Config{
		ClientID:    testClientID,
		RedirectURI: testRedirectURI,
		TokenURL:    "http://token.invalid/oauth/token",
	}, session.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	after := reloaded.Restore()
	require.Equal(t, before.AccessToken, after.AccessToken)
	require.Equal(t, before.Authenticated(f.now), after.Authenticated(f.now))
	require.NotNil(t, after.User)
	require.Equal(t, before.User.Email, after.User.Email)
	require.Equal(t, session.StateAuthenticated, reloaded.State())
}

func TestRestoreDiscardsCorruptUserRecord(t *testing.T) {
	f := newManagerFixture(t, "")
	f.login(t)
	require.NoError(t, f.store.Set(credstore.KeyUser, "{corrupt"))

	restored := f.manager.Restore()
	require.Nil(t, restored.User)
	require.Equal(t, "access-1", restored.AccessToken)

	// The corrupt entry is gone, not resurrected.
	_, ok := f.store.Get(credstore.KeyUser)
	require.False(t, ok)
}
