// Package session owns the signed-in identity and the credential token.
//
// The Store is the only holder of the token. It persists it through a
// TokenStore and hands it to outgoing requests through its oauth2
// TokenSource implementation, read at the moment each request is sent.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/client/observe"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Event tells observers how the session changed.
type Event int

const (
	EventLogin Event = iota + 1
	EventLogout
	EventRestored
)

func (e Event) String() string {
	switch e {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned by Login or Restore when a Logout happened
// while they were in flight. The logout wins.
var ErrSuperseded = errors.New("login superseded by logout")

// TokenStore is the durable storage the token survives restarts in.
// LoadToken returns "" when nothing is stored.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token, username string) error
	DeleteToken(ctx context.Context) error
}

// Store holds the current session. It is safe for concurrent use.
type Store struct {
	api    client.AuthAPI
	tokens TokenStore
	log    logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	token *oauth2.Token
	user  *models.User
	// gen changes on every Logout; a Login or Restore started under an
	// older generation does not apply its result.
	gen uint64

	subs observe.Subscribers[Event]
}

func New(api client.AuthAPI, tokens TokenStore, log logging.Logger) *Store {
	return &Store{
		api:    api,
		tokens: tokens,
		log:    log.With("store", "session"),
		now:    time.Now,
	}
}

// Login authenticates with the server, persists the returned token and
// sets the session. On failure the state is left as it was.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "username", username, "error", err)
		return fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Info(ctx, "login discarded, logout happened meanwhile", "username", username)
		return ErrSuperseded
	}
	if err := s.tokens.SaveToken(ctx, resp.Token, resp.User.Username); err != nil {
		s.mu.Unlock()
		s.log.Error(ctx, "persisting token failed", "error", err)
		return fmt.Errorf("login: persist token: %w", err)
	}
	s.token = s.newToken(resp.Token)
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "user_id", user.ID, "username", user.Username)
	s.subs.Notify(EventLogin)
	return nil
}

// Logout forgets the session and the token, in memory and on disk. It has
// no network effect and never fails: a storage error is only logged.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	if err := s.tokens.DeleteToken(ctx); err != nil {
		s.log.Error(ctx, "deleting persisted token failed", "error", err)
	}
	s.token = nil
	s.user = nil
	s.mu.Unlock()

	s.log.Info(ctx, "logged out")
	s.subs.Notify(EventLogout)
}

// Restore resumes a session from a persisted token at process start.
//
// With no persisted token it does nothing. Otherwise the token is put in
// use and the current identity is fetched; if that fails, or the token is
// a JWT that has already expired, Restore logs out and returns the cause.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	raw, err := s.tokens.LoadToken(ctx)
	if err != nil {
		return fmt.Errorf("restore session: load token: %w", err)
	}
	if raw == "" {
		return nil
	}

	tok := s.newToken(raw)
	if !tok.Expiry.IsZero() && !tok.Expiry.After(s.now()) {
		s.log.Info(ctx, "persisted token expired", "expired_at", tok.Expiry)
		s.Logout(ctx)
		return fmt.Errorf("restore session: %w", common.ErrTokenExpired)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Info(ctx, "restore discarded, logout happened meanwhile")
		return ErrSuperseded
	}
	s.token = tok
	s.mu.Unlock()

	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.log.Warn(ctx, "identity refresh failed, logging out", "error", err)
		s.Logout(ctx)
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.user = &user
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "user_id", user.ID, "username", user.Username)
	s.subs.Notify(EventRestored)
	return nil
}

// IsAuthenticated reports whether a session is set.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the current identity.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Token implements oauth2.TokenSource. It returns client.ErrNoToken when
// no credential is held.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, client.ErrNoToken
	}
	tok := *s.token
	return &tok, nil
}

// Subscribe registers fn for session changes.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}

// newToken wraps raw as a bearer token. If raw is a JWT carrying an exp
// claim, the expiry is copied; the signature is not checked, the server
// stays the authority on validity.
func (s *Store) newToken(raw string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}
