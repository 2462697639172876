package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trendora/storefront-client/internal/apitest"
	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
	"github.com/trendora/storefront-client/internal/pkg/config"
)

func newAppFixture(t *testing.T, tokenPath string) (*apitest.Server, *App) {
	t.Helper()
	backend := apitest.NewServer()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:   srv.URL,
		HTTPTimeout:  5 * time.Second,
		TokenBackend: "file",
		TokenPath:    tokenPath,
	}
	a, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return backend, a
}

func TestApp_LoginThenRestartRestoresSession(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "jwt")
	backend, a := newAppFixture(t, tokenPath)
	ctx := context.Background()

	backend.SeedUser("Ada", "ada@example.com", "secret1", domain.RoleUser)

	err := a.Store.Do(ctx, a.Auth.Login(ports.Credentials{Email: "ada@example.com", Password: "secret1"}))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	auth := a.Store.State().Auth
	if auth.User == nil || auth.User.Email != "ada@example.com" || auth.Token == "" {
		t.Fatalf("expected authenticated state: %+v", auth)
	}
	if saved, err := a.Tokens.Load(); err != nil || saved != auth.Token {
		t.Fatalf("expected token persisted: %q %v", saved, err)
	}

	// a fresh App over the same token file models a process restart
	_, restarted := newAppFixtureSameBackend(t, backend, tokenPath)
	if restarted.Store.State().Auth.Token == "" {
		t.Fatalf("restart must seed the token from storage")
	}

	if err := restarted.Store.Do(ctx, restarted.Auth.RestoreSession()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	auth = restarted.Store.State().Auth
	if auth.User == nil || auth.User.Email != "ada@example.com" {
		t.Fatalf("expected restored session: %+v", auth)
	}
}

// newAppFixtureSameBackend builds a second App against an already-running
// backend, sharing the persisted token file.
func newAppFixtureSameBackend(t *testing.T, backend *apitest.Server, tokenPath string) (*apitest.Server, *App) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:   srv.URL,
		HTTPTimeout:  5 * time.Second,
		TokenBackend: "file",
		TokenPath:    tokenPath,
	}
	a, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return backend, a
}

func TestApp_RestoreWithDeadTokenLogsOut(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "jwt")
	backend, a := newAppFixture(t, tokenPath)
	ctx := context.Background()

	backend.SeedUser("Ada", "ada@example.com", "secret1", domain.RoleUser)
	// a token the backend will reject
	if err := a.Tokens.Save("not-a-real-token"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := a.Store.Do(ctx, a.Auth.RestoreSession()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	auth := a.Store.State().Auth
	if auth.User != nil || auth.Token != "" {
		t.Fatalf("dead token must yield a logged-out state: %+v", auth)
	}
	if _, err := a.Tokens.Load(); err == nil {
		t.Fatalf("dead token must be cleared from storage")
	}
}

func TestApp_AdminCatalogRoundTrip(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "jwt")
	backend, a := newAppFixture(t, tokenPath)
	ctx := context.Background()

	backend.SeedUser("Root", "admin@example.com", "secret1", domain.RoleAdmin)
	backend.SeedProducts([]domain.Product{{ID: "p1", Title: "Speaker", Category: "audio", Price: 50}})

	err := a.Store.Do(ctx, a.Auth.Login(ports.Credentials{Email: "admin@example.com", Password: "secret1"}))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := a.Store.Do(ctx, a.Products.List(ports.ProductQuery{})); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := a.Store.Do(ctx, a.Products.Create(ports.ProductForm{
		Fields: map[string]string{"title": "Mouse", "category": "peripherals", "price": "30"},
	})); err != nil {
		t.Fatalf("create: %v", err)
	}

	p := a.Store.State().Product
	if len(p.Products) != 2 || p.Products[0].Title != "Mouse" {
		t.Fatalf("created product must head the cached listing: %+v", p.Products)
	}
	if !p.CreateSuccess {
		t.Fatalf("expected one-shot create flag")
	}

	if err := a.Store.Do(ctx, a.Products.Delete(p.Products[0].ID)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	p = a.Store.State().Product
	if len(p.Products) != 1 || p.Products[0].ID != "p1" {
		t.Fatalf("deleted product must leave the cached listing: %+v", p.Products)
	}
}

func TestApp_UnknownTokenBackend(t *testing.T) {
	cfg := &config.Config{APIBaseURL: "http://localhost:0", TokenBackend: "vault"}
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}
