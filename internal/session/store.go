// Package session owns the authenticated identity of the running client:
// the bearer token + user profile pair, persisted across restarts and
// exposed to the route guard. It is an explicit injected object, not a
// package-level global.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dentalstack/practicekit/internal/api"
	"github.com/dentalstack/practicekit/pkg/logging"
)

// AuthBackend is the slice of the REST layer the store needs.
// *api.Client satisfies it.
type AuthBackend interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Store is the single source of truth for "who is logged in". Token and user
// are always set or cleared together; a failed login leaves an existing
// session untouched.
type Store struct {
	mu      sync.RWMutex
	vault   Vault
	backend AuthBackend
	logger  *logging.Logger

	loading bool
	token   string
	user    *api.User
}

// NewStore creates an uninitialized store. Call Initialize once, before the
// first guard decision.
func NewStore(vault Vault, backend AuthBackend, logger *logging.Logger) (*Store, error) {
	if vault == nil {
		return nil, fmt.Errorf("session: vault is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		vault:   vault,
		backend: backend,
		logger:  logger.Component("session"),
		loading: true,
	}, nil
}

// SetBackend wires the REST client after construction. The API client needs
// the store as its token source, so the two are built in that order.
func (s *Store) SetBackend(backend AuthBackend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = backend
}

// Initialize restores a persisted session, if any. It runs once per process,
// before anything consults the guard; until it completes, Loading reports
// true and the guard holds rather than redirecting.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loading {
		return nil
	}
	defer func() { s.loading = false }()

	token, userJSON, err := s.vault.Load(ctx)
	if err != nil {
		// Startup must not wedge on a broken vault; start logged out.
		s.logger.Warn("vault load failed, starting logged out", "error", err)
		return nil
	}
	if token == "" || len(userJSON) == 0 {
		return nil
	}

	var user api.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		s.logger.Warn("persisted user unreadable, starting logged out", "error", err)
		return nil
	}

	s.token = token
	s.user = &user
	s.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
	return nil
}

// Login exchanges credentials for a session. On failure the backend's error
// message propagates unchanged and any existing session stays as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*api.User, error) {
	res, err := s.backend.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

// Register creates an account and logs it in, with the same contract as
// Login.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	res, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

// adopt persists and installs a fresh token/user pair together.
func (s *Store) adopt(ctx context.Context, res *api.AuthResponse) (*api.User, error) {
	userJSON, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("session: marshal user: %w", err)
	}
	if err := s.vault.Store(ctx, res.Token, userJSON); err != nil {
		// The in-memory session still works this run; persistence is what
		// failed. Keep going, the next restart just starts logged out.
		s.logger.Warn("vault store failed", "error", err)
	}

	s.mu.Lock()
	user := res.User
	s.token = res.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("session established", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Logout clears the vault and the in-memory session unconditionally. It
// never fails, even when no session existed.
func (s *Store) Logout(ctx context.Context) {
	if err := s.vault.Clear(ctx); err != nil {
		s.logger.Warn("vault clear failed", "error", err)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.logger.Info("session cleared")
}

// CurrentUser re-fetches the profile for the stored token from the backend.
func (s *Store) CurrentUser(ctx context.Context) (*api.User, error) {
	return s.backend.CurrentUser(ctx)
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in profile, or nil.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether Initialize has completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports token ≠ "" and user ≠ nil; the two are only ever
// written together, so this is a single consistent read.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}
