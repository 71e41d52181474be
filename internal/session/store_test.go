package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dentalstack/practicekit/internal/api"
)

type stubBackend struct {
	loginRes *api.AuthResponse
	loginErr error
	calls    int
}

func (b *stubBackend) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	b.calls++
	return b.loginRes, b.loginErr
}

func (b *stubBackend) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	return b.loginRes, b.loginErr
}

func (b *stubBackend) CurrentUser(ctx context.Context) (*api.User, error) {
	if b.loginErr != nil {
		return nil, b.loginErr
	}
	u := b.loginRes.User
	return &u, nil
}

// failingVault rejects every write but loads cleanly.
type failingVault struct{}

func (failingVault) Load(ctx context.Context) (string, []byte, error) { return "", nil, nil }
func (failingVault) Store(ctx context.Context, token string, userJSON []byte) error {
	return errors.New("disk full")
}
func (failingVault) Clear(ctx context.Context) error { return errors.New("disk full") }

func fileVault(t *testing.T) Vault {
	t.Helper()
	v, err := NewFileVault(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func okResponse() *api.AuthResponse {
	return &api.AuthResponse{
		Token: "tok-1",
		User:  api.User{ID: 1, Email: "dr@clinic.test", FirstName: "Anna", LastName: "Adams", Role: "dentist"},
	}
}

func TestStoreStartsLoading(t *testing.T) {
	s, err := NewStore(fileVault(t), &stubBackend{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Loading() {
		t.Fatal("store must report loading before Initialize")
	}
	if s.Authenticated() {
		t.Fatal("store must not report authenticated before Initialize")
	}
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if s.Loading() {
		t.Fatal("Loading must be false after Initialize")
	}
	if s.Authenticated() {
		t.Fatal("empty vault must leave the store logged out")
	}
}

func TestLoginEstablishesAndPersistsSession(t *testing.T) {
	vault := fileVault(t)
	s, _ := NewStore(vault, &stubBackend{loginRes: okResponse()}, nil)
	ctx := context.Background()
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	user, err := s.Login(ctx, "dr@clinic.test", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != 1 || !s.Authenticated() || s.Token() != "tok-1" {
		t.Fatalf("session not established: user=%+v token=%q", user, s.Token())
	}

	// A second store over the same vault restores the session.
	s2, _ := NewStore(vault, &stubBackend{}, nil)
	if err := s2.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if !s2.Authenticated() || s2.Token() != "tok-1" {
		t.Fatal("restart did not restore the session")
	}
	if got := s2.User(); got == nil || got.Email != "dr@clinic.test" {
		t.Fatalf("restored user = %+v", got)
	}
}

func TestFailedLoginLeavesExistingSessionUntouched(t *testing.T) {
	backend := &stubBackend{loginRes: okResponse()}
	s, _ := NewStore(fileVault(t), backend, nil)
	ctx := context.Background()
	s.Initialize(ctx)

	if _, err := s.Login(ctx, "dr@clinic.test", "secret"); err != nil {
		t.Fatal(err)
	}

	backend.loginErr = &api.Error{Status: 401, Message: "Invalid credentials"}
	_, err := s.Login(ctx, "dr@clinic.test", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("backend message must propagate unchanged, got %v", err)
	}
	if !s.Authenticated() || s.Token() != "tok-1" {
		t.Fatal("failed login must not disturb the existing session")
	}
}

func TestLogoutNeverFails(t *testing.T) {
	s, _ := NewStore(failingVault{}, &stubBackend{loginRes: okResponse()}, nil)
	ctx := context.Background()
	s.Initialize(ctx)

	// Logout with no session at all.
	s.Logout(ctx)
	if s.Authenticated() {
		t.Fatal("logout with no session must leave the store logged out")
	}

	if _, err := s.Login(ctx, "dr@clinic.test", "secret"); err != nil {
		t.Fatal(err)
	}
	// Vault writes fail, the in-memory session still works this run.
	if !s.Authenticated() {
		t.Fatal("persist failure must not block the in-memory session")
	}
	s.Logout(ctx)
	if s.Authenticated() || s.Token() != "" || s.User() != nil {
		t.Fatal("logout must clear token and user even when the vault errors")
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	vault := fileVault(t)
	if err := vault.Store(context.Background(), "tok-x", []byte(`{"id":2,"email":"h@c.test","firstName":"H","lastName":"K","role":"hygienist"}`)); err != nil {
		t.Fatal(err)
	}
	s, _ := NewStore(vault, &stubBackend{}, nil)
	ctx := context.Background()
	s.Initialize(ctx)
	if !s.Authenticated() {
		t.Fatal("persisted session must restore")
	}

	s.Logout(ctx)
	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Authenticated() {
		t.Fatal("a second Initialize must be a no-op, not a re-restore")
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mint := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"exp":     exp.Unix(),
		})
		signed, err := tok.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatal(err)
		}
		return signed
	}

	if TokenExpired(mint(now.Add(time.Hour)), now) {
		t.Fatal("future exp must not report expired")
	}
	if !TokenExpired(mint(now.Add(-time.Hour)), now) {
		t.Fatal("past exp must report expired")
	}
	if TokenExpired("", now) {
		t.Fatal("empty token is not expired")
	}
	if TokenExpired("not-a-jwt", now) {
		t.Fatal("unparseable token defers to the backend")
	}
}
