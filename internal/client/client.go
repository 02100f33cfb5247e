// Package client is a typed HTTP client for the shopping list REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/shoplist-backend/internal/domain"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Fields  []domain.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// Unwrap maps the status to the matching domain sentinel so callers can
// use errors.Is(err, domain.ErrNotFound).
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return nil
	}
}

type envelope[T any] struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       T                   `json:"data"`
	Pagination *domain.Pagination  `json:"pagination"`
	Errors     []domain.FieldError `json:"errors"`
}

// Client talks to one API base URL.
type Client struct {
	base      *url.URL
	http      *http.Client
	log       *slog.Logger
	userAgent string
}

// New creates a Client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  logger.With("component", "client"),
	}, nil
}

// WithUserAgent sets the User-Agent header sent with every request.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// Products returns the products resource.
func (c *Client) Products() *Resource[domain.Product] {
	return NewResource[domain.Product](c, "products")
}

// Lists returns the shopping lists resource.
func (c *Client) Lists() *Resource[domain.ShoppingList] {
	return NewResource[domain.ShoppingList](c, "shopping-lists")
}

func (c *Client) url(path string, query url.Values) string {
	u := *c.base
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (envelope[T], error) {
	var env envelope[T]

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return env, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return env, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "api call",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return env, decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("%s %s: decode response: %w", method, req.URL.Path, err)
	}
	return env, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}

// IsNetworkError reports whether err came from the transport rather than
// from an API response.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
