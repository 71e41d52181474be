package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	v, err := NewFileVault(path)
	if err != nil {
		t.Fatalf("NewFileVault: %v", err)
	}
	ctx := context.Background()

	if err := v.Store(ctx, "tok-123", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("Store: %v", err)
	}
	token, userJSON, err := v.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "tok-123" || string(userJSON) != `{"id":1}` {
		t.Fatalf("Load = %q, %s", token, userJSON)
	}

	if err := v.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	token, userJSON, err = v.Load(ctx)
	if err != nil || token != "" || userJSON != nil {
		t.Fatalf("after Clear: %q, %s, %v", token, userJSON, err)
	}
}

func TestFileVaultAbsenceIsNotAnError(t *testing.T) {
	v, err := NewFileVault(filepath.Join(t.TempDir(), "never-written.json"))
	if err != nil {
		t.Fatalf("NewFileVault: %v", err)
	}
	token, userJSON, err := v.Load(context.Background())
	if err != nil || token != "" || userJSON != nil {
		t.Fatalf("Load on missing file = %q, %s, %v", token, userJSON, err)
	}
	if err := v.Clear(context.Background()); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
}

func TestFileVaultCorruptFileMeansLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	v, _ := NewFileVault(path)
	token, userJSON, err := v.Load(context.Background())
	if err != nil || token != "" || userJSON != nil {
		t.Fatalf("Load on corrupt file = %q, %s, %v", token, userJSON, err)
	}
}

func TestFileVaultHalfPairMeansLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"token":"tok","user":null}`), 0o600); err != nil {
		t.Fatal(err)
	}
	v, _ := NewFileVault(path)
	token, userJSON, err := v.Load(context.Background())
	if err != nil || token != "" || userJSON != nil {
		t.Fatalf("Load with missing user = %q, %s, %v", token, userJSON, err)
	}
}
