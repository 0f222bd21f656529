package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fooddelivery/internal/client/apitest"
	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// ---- fakes ----

type memTokens struct {
	mu        sync.Mutex
	token     string
	username  string
	saveErr   error
	deleteErr error
	loadErr   error
	// afterLoad runs once LoadToken has read the token, before it returns.
	afterLoad func()
}

func (m *memTokens) LoadToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	token, err, hook := m.token, m.loadErr, m.afterLoad
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return token, err
}

func (m *memTokens) SaveToken(ctx context.Context, token, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token, m.username = token, username
	return nil
}

func (m *memTokens) DeleteToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.token = ""
	return nil
}

func (m *memTokens) stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

type fakeAuth struct {
	loginResp models.LoginResponse
	loginErr  error
	// loginGate, when set, blocks Login until closed; loginStarted is
	// closed once Login is entered.
	loginGate    chan struct{}
	loginStarted chan struct{}

	user    models.User
	userErr error

	lastUser, lastPass string
	userCalls          int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	f.lastUser, f.lastPass = username, password
	if f.loginStarted != nil {
		close(f.loginStarted)
	}
	if f.loginGate != nil {
		<-f.loginGate
	}
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (models.User, error) {
	f.userCalls++
	return f.user, f.userErr
}

func newStore(api client.AuthAPI, tokens TokenStore) *Store {
	return New(api, tokens, logging.NewNop())
}

// ---- tests ----

func TestLogin_Success_SetsSessionAndPersistsToken(t *testing.T) {
	api := &fakeAuth{loginResp: models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}}}
	tokens := &memTokens{}
	s := newStore(api, tokens)

	require.NoError(t, s.Login(context.Background(), "bob", "secret1"))

	assert.True(t, s.IsAuthenticated())
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, models.User{ID: 1, Username: "bob"}, u)
	assert.Equal(t, "tok123", tokens.stored())
	assert.Equal(t, "bob", tokens.username)
	assert.Equal(t, "bob", api.lastUser)
	assert.Equal(t, "secret1", api.lastPass)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok.AccessToken)
	assert.True(t, tok.Expiry.IsZero(), "opaque tokens carry no expiry")
}

func TestLogin_Failure_LeavesStateUnchanged(t *testing.T) {
	boom := errors.New("bad creds")
	api := &fakeAuth{loginErr: boom}
	tokens := &memTokens{}
	s := newStore(api, tokens)

	err := s.Login(context.Background(), "bob", "nope")
	require.ErrorIs(t, err, boom)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.stored())
	_, err = s.Token()
	assert.ErrorIs(t, err, client.ErrNoToken)
}

func TestLogin_PersistFailure_LeavesStateUnchanged(t *testing.T) {
	api := &fakeAuth{loginResp: models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}}}
	s := newStore(api, &memTokens{saveErr: errors.New("disk full")})

	err := s.Login(context.Background(), "bob", "secret1")
	require.ErrorContains(t, err, "persist token")
	assert.False(t, s.IsAuthenticated())
}

func TestLogout_ClearsEverything(t *testing.T) {
	api := &fakeAuth{loginResp: models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}}}
	tokens := &memTokens{}
	s := newStore(api, tokens)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "bob", "secret1"))

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.stored())
	_, err := s.Token()
	assert.ErrorIs(t, err, client.ErrNoToken)
}

func TestLogout_StorageErrorIsSwallowed(t *testing.T) {
	api := &fakeAuth{loginResp: models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}}}
	tokens := &memTokens{}
	s := newStore(api, tokens)
	ctx := context.Background()
	require.NoError(t, s.Login(ctx, "bob", "secret1"))

	tokens.deleteErr = errors.New("locked")
	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	_, err := s.Token()
	assert.ErrorIs(t, err, client.ErrNoToken)
}

func TestLogin_RacingLogout_LogoutWins(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAuth{
		loginResp:    models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}},
		loginGate:    gate,
		loginStarted: make(chan struct{}),
	}
	tokens := &memTokens{}
	s := newStore(api, tokens)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Login(ctx, "bob", "secret1") }()

	<-api.loginStarted

	s.Logout(ctx)
	close(gate)

	require.ErrorIs(t, <-done, ErrSuperseded)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.stored())
}

func TestRestore_NoToken_NoNetwork(t *testing.T) {
	api := &fakeAuth{}
	s := newStore(api, &memTokens{})

	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, api.userCalls)
}

func TestRestore_ValidToken_SetsSession(t *testing.T) {
	api := &fakeAuth{user: models.User{ID: 1, Username: "bob"}}
	s := newStore(api, &memTokens{token: "tok123"})

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.Restore(context.Background()))

	assert.True(t, s.IsAuthenticated())
	u, _ := s.User()
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, []Event{EventRestored}, events)
}

func TestRestore_IdentityFailure_LogsOut(t *testing.T) {
	api := &fakeAuth{userErr: client.ErrUnauthorized}
	tokens := &memTokens{token: "stale"}
	s := newStore(api, tokens)

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.stored())
	_, err = s.Token()
	assert.ErrorIs(t, err, client.ErrNoToken)
	assert.Equal(t, []Event{EventLogout}, events)
}

func TestRestore_LogoutAfterLoadWins(t *testing.T) {
	api := &fakeAuth{user: models.User{ID: 1, Username: "bob"}}
	tokens := &memTokens{token: "tok123"}
	s := newStore(api, tokens)
	ctx := context.Background()
	tokens.afterLoad = func() { s.Logout(ctx) }

	err := s.Restore(ctx)

	require.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, s.IsAuthenticated())
	_, err = s.Token()
	assert.ErrorIs(t, err, client.ErrNoToken)
	assert.Empty(t, tokens.stored())
	assert.Zero(t, api.userCalls)
}

func TestRestore_LoadError(t *testing.T) {
	s := newStore(&fakeAuth{}, &memTokens{loadErr: errors.New("io")})
	require.ErrorContains(t, s.Restore(context.Background()), "load token")
}

func TestSubscribe_LoginLogoutEvents(t *testing.T) {
	api := &fakeAuth{loginResp: models.LoginResponse{Token: "tok123", User: models.User{ID: 1, Username: "bob"}}}
	s := newStore(api, &memTokens{})
	ctx := context.Background()

	var events []Event
	unsubscribe := s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.Login(ctx, "bob", "secret1"))
	s.Logout(ctx)
	unsubscribe()
	require.NoError(t, s.Login(ctx, "bob", "secret1"))

	assert.Equal(t, []Event{EventLogin, EventLogout}, events)
	assert.Equal(t, "login", EventLogin.String())
}

// ---- against the fake API server ----

func newWired(t *testing.T, srv *apitest.Server, tokens TokenStore) (*Store, *client.HTTPClient) {
	t.Helper()
	var s *Store
	api, err := client.NewHTTPClient(srv.URL, client.WithTokenSource(client.TokenSourceFunc(func() (*oauth2.Token, error) {
		return s.Token()
	})))
	require.NoError(t, err)
	s = newStore(api, tokens)
	return s, api
}

func TestStore_WithHTTPClient_LoginThenAuthorizedCalls(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser(1, "bob", "secret1")
	tokens := &memTokens{}
	s, api := newWired(t, srv, tokens)
	ctx := context.Background()

	_, err := api.ListMenuItems(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	require.NoError(t, s.Login(ctx, "bob", "secret1"))
	_, err = api.ListMenuItems(ctx)
	require.NoError(t, err)

	last, _ := srv.LastRequest(http.MethodGet, "/api/menu-items")
	assert.Equal(t, "Bearer "+tokens.stored(), last.Authorization)

	tok, err := s.Token()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, time.Minute, "expiry read from the JWT")

	s.Logout(ctx)
	_, err = api.ListMenuItems(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	last, _ = srv.LastRequest(http.MethodGet, "/api/menu-items")
	assert.Empty(t, last.Authorization)
}

func TestStore_WithHTTPClient_RestoreAcrossRestart(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddUser(1, "bob", "secret1")
	tokens := &memTokens{}
	ctx := context.Background()

	first, _ := newWired(t, srv, tokens)
	require.NoError(t, first.Login(ctx, "bob", "secret1"))

	second, _ := newWired(t, srv, tokens)
	require.NoError(t, second.Restore(ctx))
	u, ok := second.User()
	require.True(t, ok)
	assert.Equal(t, models.User{ID: 1, Username: "bob"}, u)
}

func TestStore_WithHTTPClient_RestoreExpiredJWTSkipsNetwork(t *testing.T) {
	srv := apitest.NewServer(t)
	expired := srv.IssueToken(models.User{ID: 1, Username: "bob"}, -time.Minute)
	tokens := &memTokens{token: expired}
	s, _ := newWired(t, srv, tokens)

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Empty(t, tokens.stored())
	_, called := srv.LastRequest(http.MethodGet, "/api/user")
	assert.False(t, called)
}

func TestStore_WithHTTPClient_RestoreGarbageTokenLogsOut(t *testing.T) {
	srv := apitest.NewServer(t)
	tokens := &memTokens{token: "garbage"}
	s, _ := newWired(t, srv, tokens)

	err := s.Restore(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.stored())

	last, ok := srv.LastRequest(http.MethodGet, "/api/user")
	require.True(t, ok)
	assert.Equal(t, "Bearer garbage", last.Authorization)
}
