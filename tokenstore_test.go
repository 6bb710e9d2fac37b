package postadmin

import (
	"context"
	"path/filepath"
	"testing"
)

func setupTokenStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "data", "credentials.db"))
	if err != nil {
		t.Fatalf("NewTokenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenStoreEmpty(t *testing.T) {
	store := setupTokenStore(t)

	token, err := store.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("Token = %q, want empty on a fresh store", token)
	}
}

func TestTokenStoreSetAndReplace(t *testing.T) {
	store := setupTokenStore(t)
	ctx := context.Background()

	if err := store.SetToken(ctx, "first-token"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if token, _ := store.Token(ctx); token != "first-token" {
		t.Errorf("Token = %q", token)
	}

	if err := store.SetToken(ctx, "second-token"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if token, _ := store.Token(ctx); token != "second-token" {
		t.Errorf("Token = %q, want replacement to win", token)
	}
}

func TestTokenStoreClear(t *testing.T) {
	store := setupTokenStore(t)
	ctx := context.Background()

	if err := store.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := store.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken failed: %v", err)
	}
	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "" {
		t.Errorf("Token = %q, want empty after clear", token)
	}
}

func TestTokenStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")
	ctx := context.Background()

	store, err := NewTokenStore(path)
	if err != nil {
		t.Fatalf("NewTokenStore failed: %v", err)
	}
	if err := store.SetToken(ctx, "persisted"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	store.Close()

	store, err = NewTokenStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	if token, _ := store.Token(ctx); token != "persisted" {
		t.Errorf("Token = %q, want value to survive reopen", token)
	}
}
