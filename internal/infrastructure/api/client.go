// Package api implements the HTTP client for the storefront backend: one
// shared client with a fixed base endpoint, a JSON default content type, and
// bearer-token injection read from persisted storage at request-build time.
// It performs no retry, no caching, and no circuit breaking.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
	"github.com/trendora/storefront-client/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Config captures the settings for building a Client.
type Config struct {
	BaseURL string
	// Timeout bounds every request; defaultTimeout when zero. Expiry
	// surfaces to callers as an ordinary transport error.
	Timeout time.Duration
}

// Client is the single shared HTTP client all gateways go through.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens ports.TokenStore
	log    zerolog.Logger
}

func NewClient(cfg Config, tokens ports.TokenStore, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base url %q: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		log:    log,
	}, nil
}

// call describes one request. route is the path template used for metrics;
// path the concrete URL path. token overrides the ambient persisted token
// when non-empty.
type call struct {
	method      string
	route       string
	path        string
	query       url.Values
	contentType string
	body        io.Reader
	token       string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	u := *c.base
	// cl.path carries decoded segments; URL.String() escapes them exactly once
	u.Path = strings.TrimRight(u.Path, "/") + cl.path
	if cl.query != nil {
		u.RawQuery = cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), cl.body)
	if err != nil {
		return err
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}

	token := cl.token
	if token == "" {
		if saved, err := c.tokens.Load(); err == nil {
			token = saved
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveRequest(cl.method, cl.route, 0, time.Since(start))
		c.log.Debug().Err(err).Str("method", cl.method).Str("route", cl.route).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	metrics.ObserveRequest(cl.method, cl.route, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		return &domain.APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(resp.StatusCode, body),
		}
	}
	if readErr != nil {
		return readErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.DecodeError{Endpoint: cl.route, Err: err}
	}
	return nil
}

// extractMessage applies the error-message extraction priority: the body's
// "message" field, then its "error" field, then a generic text carrying the
// status code. UI layers surface the result verbatim.
func extractMessage(status int, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func (c *Client) get(ctx context.Context, route, path string, query url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, route: route, path: path, query: query}, out)
}

func (c *Client) getWithToken(ctx context.Context, route, path, token string, out any) error {
	return c.do(ctx, call{method: http.MethodGet, route: route, path: path, token: token}, out)
}

func (c *Client) postJSON(ctx context.Context, route, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		route:       route,
		path:        path,
		contentType: "application/json",
		body:        bytes.NewReader(buf),
	}, out)
}

func (c *Client) putJSON(ctx context.Context, route, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      http.MethodPut,
		route:       route,
		path:        path,
		contentType: "application/json",
		body:        bytes.NewReader(buf),
	}, out)
}

func (c *Client) delete(ctx context.Context, route, path string, out any) error {
	return c.do(ctx, call{method: http.MethodDelete, route: route, path: path}, out)
}

// sendMultipart buffers a multipart body built by fill and sends it with the
// writer's boundary-qualified content type.
func (c *Client) sendMultipart(ctx context.Context, method, route, path string, fill func(*multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, call{
		method:      method,
		route:       route,
		path:        path,
		contentType: w.FormDataContentType(),
		body:        &buf,
	}, out)
}
