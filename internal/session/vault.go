package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Vault is the persisted credential store surviving restarts. It holds
// exactly two values, the bearer token and the serialized user profile, and
// they are always written and cleared together. Only Login, Register, and
// Logout write to it.
type Vault interface {
	// Load returns the persisted pair. Absence is not an error: a vault that
	// was never written (or was cleared) returns "", nil, nil.
	Load(ctx context.Context) (token string, userJSON []byte, err error)
	Store(ctx context.Context, token string, userJSON []byte) error
	Clear(ctx context.Context) error
}

// FileVault persists the session as a small JSON file under the user's
// config directory.
type FileVault struct {
	path string
}

type vaultFile struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// NewFileVault creates a vault at path. The parent directory is created on
// first Store.
func NewFileVault(path string) (*FileVault, error) {
	if path == "" {
		return nil, fmt.Errorf("session: vault path is required")
	}
	return &FileVault{path: path}, nil
}

func (v *FileVault) Load(ctx context.Context) (string, []byte, error) {
	_ = ctx

	raw, err := os.ReadFile(v.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("session: read vault: %w", err)
	}

	var f vaultFile
	if err := json.Unmarshal(raw, &f); err != nil {
		// A corrupt vault means logged out, not a startup failure.
		return "", nil, nil
	}
	if f.Token == "" || len(f.User) == 0 {
		return "", nil, nil
	}
	return f.Token, f.User, nil
}

func (v *FileVault) Store(ctx context.Context, token string, userJSON []byte) error {
	_ = ctx

	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("session: create vault dir: %w", err)
	}
	raw, err := json.Marshal(vaultFile{Token: token, User: userJSON})
	if err != nil {
		return fmt.Errorf("session: marshal vault: %w", err)
	}
	if err := os.WriteFile(v.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write vault: %w", err)
	}
	return nil
}

func (v *FileVault) Clear(ctx context.Context) error {
	_ = ctx

	err := os.Remove(v.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clear vault: %w", err)
	}
	return nil
}
