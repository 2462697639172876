// Package app wires the client together: configuration, token persistence,
// the HTTP client, the gateways, the store, and the action layer. There is
// no implicit singleton; construct an App and pass it to consumers.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/trendora/storefront-client/internal/core/ports"
	"github.com/trendora/storefront-client/internal/core/service"
	"github.com/trendora/storefront-client/internal/core/state"
	"github.com/trendora/storefront-client/internal/infrastructure/api"
	"github.com/trendora/storefront-client/internal/infrastructure/tokenstore"
	"github.com/trendora/storefront-client/internal/pkg/config"
)

// App is the assembled client.
type App struct {
	Store    *state.Store
	Auth     *service.AuthActions
	Products *service.ProductActions
	Tokens   ports.TokenStore
}

// New builds the full graph from configuration. The store starts with its
// token field seeded from persisted storage when a session was saved.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	tokens, err := newTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
	}, tokens, log)
	if err != nil {
		return nil, err
	}

	initialToken := ""
	if saved, err := tokens.Load(); err == nil {
		initialToken = saved
	}

	store := state.New(initialToken, log)
	authGW := api.NewAuthGateway(client)
	productGW := api.NewProductGateway(client)

	return &App{
		Store:    store,
		Auth:     service.NewAuthActions(authGW, tokens, log),
		Products: service.NewProductActions(productGW, log),
		Tokens:   tokens,
	}, nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, error) {
	switch cfg.TokenBackend {
	case "", "file":
		return tokenstore.NewFileStore(cfg.TokenPath)
	case "redis":
		client, err := tokenstore.Connect(ctx, tokenstore.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return tokenstore.NewRedisStore(client, cfg.Redis.Key), nil
	default:
		return nil, fmt.Errorf("app: unknown token backend %q", cfg.TokenBackend)
	}
}
