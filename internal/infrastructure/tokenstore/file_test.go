package tokenstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/trendora/storefront-client/internal/core/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jwt")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken before save, got %v", err)
	}

	if err := store.Save("T"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "T" {
		t.Fatalf("expected T, got %q", token)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}

	// clearing an already-absent token is not an error
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStore_BlankFileMeansNoToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save("  \n"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("whitespace-only content must read as absent, got %v", err)
	}
}
