// Package rest implements the Olleh HTTP API over JSON/REST.
//
// Client attaches the stored access token to every request, performs at most
// one refresh-and-retry cycle on 401, and normalizes error responses into the
// olleh error taxonomy. It implements both olleh.AuthAPI and
// olleh.MembershipAPI.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	olleh "github.com/olleh-rw/olleh-go"
	"github.com/olleh-rw/olleh-go/audit"
	"github.com/olleh-rw/olleh-go/metrics"
)

// Client performs authenticated requests against the Olleh backend.
//
// Side effects are confined to the injected session store: a successful
// refresh replaces the access token in place, and an exhausted refresh
// clears the session entirely.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      olleh.SessionStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      *audit.Logger

	// sf collapses concurrent 401-triggered refreshes into one call.
	sf singleflight.Group
}

// compile-time checks
var (
	_ olleh.AuthAPI       = (*Client)(nil)
	_ olleh.MembershipAPI = (*Client)(nil)
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithAudit sets the audit logger for session lifecycle events.
func WithAudit(a *audit.Logger) Option {
	return func(c *Client) { c.audit = a }
}

// New creates a REST client for the backend at baseURL, reading and writing
// session state through store.
func New(baseURL string, store olleh.SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{Timeout: olleh.DefaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    metrics.New(false),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request outcomes recorded in metrics.
const (
	outcomeSuccess      = "success"
	outcomeAuthError    = "auth_error"
	outcomeHTTPError    = "http_error"
	outcomeNetworkError = "network_error"
)

// do performs one logical authenticated request: attach token, send, and on
// 401 refresh once and retry once. Never retries further.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	start := time.Now()
	if olleh.RequestIDFromContext(ctx) == "" {
		ctx = olleh.WithRequestID(ctx, uuid.NewString())
	}

	pair, err := c.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("rest: read session: %w", err)
	}
	access := ""
	if pair != nil {
		access = pair.Access
	}

	status, raw, err := c.send(ctx, method, endpoint, body, access)
	if err != nil {
		c.metrics.RecordRequest(method, outcomeNetworkError, time.Since(start).Seconds())
		return fmt.Errorf("rest: %s %s: %w", method, endpoint, err)
	}

	if status == http.StatusUnauthorized {
		// Re-read: a concurrent login or logout may have changed the store.
		pair, err = c.store.Get(ctx)
		if err != nil {
			return fmt.Errorf("rest: read session: %w", err)
		}
		if pair == nil || pair.Refresh == "" {
			c.metrics.RecordRequest(method, outcomeAuthError, time.Since(start).Seconds())
			return &olleh.AuthenticationError{Reason: "no refresh token stored"}
		}

		newAccess, rerr := c.refreshAccess(ctx, endpoint)
		if rerr != nil {
			c.metrics.RecordRequest(method, outcomeAuthError, time.Since(start).Seconds())
			return rerr
		}

		status, raw, err = c.send(ctx, method, endpoint, body, newAccess)
		if err != nil {
			c.metrics.RecordRequest(method, outcomeNetworkError, time.Since(start).Seconds())
			return fmt.Errorf("rest: %s %s (retry): %w", method, endpoint, err)
		}
		if status == http.StatusUnauthorized {
			// A freshly minted token was rejected; the session is unusable.
			c.forceLogout(ctx, endpoint, "retry rejected with 401")
			c.metrics.RecordRequest(method, outcomeAuthError, time.Since(start).Seconds())
			return &olleh.AuthenticationError{Reason: "request rejected after token refresh"}
		}
	}

	return c.decode(ctx, method, endpoint, status, raw, out, start)
}

// doAnon performs a request without credentials and without the refresh
// cycle. Used by the auth endpoints themselves, where a 401 means rejected
// credentials rather than an expired session.
func (c *Client) doAnon(ctx context.Context, method, endpoint string, body, out any) error {
	start := time.Now()
	if olleh.RequestIDFromContext(ctx) == "" {
		ctx = olleh.WithRequestID(ctx, uuid.NewString())
	}

	status, raw, err := c.send(ctx, method, endpoint, body, "")
	if err != nil {
		c.metrics.RecordRequest(method, outcomeNetworkError, time.Since(start).Seconds())
		return fmt.Errorf("rest: %s %s: %w", method, endpoint, err)
	}
	return c.decode(ctx, method, endpoint, status, raw, out, start)
}

// decode turns a settled response into out or into a typed error.
func (c *Client) decode(ctx context.Context, method, endpoint string, status int, raw []byte, out any, start time.Time) error {
	if status == http.StatusNoContent {
		c.metrics.RecordRequest(method, outcomeSuccess, time.Since(start).Seconds())
		return nil
	}

	if status >= 200 && status < 300 {
		if out != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				c.metrics.RecordRequest(method, outcomeHTTPError, time.Since(start).Seconds())
				return fmt.Errorf("rest: %s %s: decode response: %w", method, endpoint, err)
			}
		}
		c.metrics.RecordRequest(method, outcomeSuccess, time.Since(start).Seconds())
		return nil
	}

	c.metrics.RecordRequest(method, outcomeHTTPError, time.Since(start).Seconds())
	apiErr := olleh.ParseAPIError(status, raw, http.StatusText(status))
	c.logger.DebugContext(ctx, "request failed",
		"method", method,
		"endpoint", endpoint,
		"status", status,
		"request_id", olleh.RequestIDFromContext(ctx),
	)
	return apiErr
}

// refreshAccess mints a new access token from the stored refresh token.
// Concurrent callers share one refresh via singleflight; refresh is
// idempotent on the backend since the refresh token is never rotated.
// On any failure the session is cleared and an AuthenticationError returned.
func (c *Client) refreshAccess(ctx context.Context, endpoint string) (string, error) {
	v, err, _ := c.sf.Do("refresh", func() (interface{}, error) {
		pair, err := c.store.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("rest: read session: %w", err)
		}
		if pair == nil || pair.Refresh == "" {
			return nil, &olleh.AuthenticationError{Reason: "no refresh token stored"}
		}

		status, raw, err := c.send(ctx, http.MethodPost, "/auth/jwt/refresh/",
			map[string]string{"refresh": pair.Refresh}, "")
		if err != nil {
			c.metrics.RecordRefresh(outcomeNetworkError)
			c.forceLogout(ctx, endpoint, "refresh request failed")
			return nil, &olleh.AuthenticationError{Reason: "token refresh failed"}
		}
		if status < 200 || status >= 300 {
			c.metrics.RecordRefresh(outcomeHTTPError)
			c.forceLogout(ctx, endpoint, fmt.Sprintf("refresh rejected with %d", status))
			return nil, &olleh.AuthenticationError{Reason: "refresh token rejected"}
		}

		var resp struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil || resp.Access == "" {
			c.metrics.RecordRefresh(outcomeHTTPError)
			c.forceLogout(ctx, endpoint, "refresh response unusable")
			return nil, &olleh.AuthenticationError{Reason: "refresh response unusable"}
		}

		// The refresh token is reused, never rotated.
		if err := c.store.Set(ctx, olleh.TokenPair{Access: resp.Access, Refresh: pair.Refresh}); err != nil {
			return nil, fmt.Errorf("rest: store refreshed session: %w", err)
		}

		c.metrics.RecordRefresh(outcomeSuccess)
		c.audit.Log(audit.Event{
			RequestID: olleh.RequestIDFromContext(ctx),
			Action:    audit.ActionTokenRefresh,
			Endpoint:  endpoint,
			Result:    audit.ResultSuccess,
		})
		return resp.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// forceLogout clears the session after an irrecoverable auth failure.
func (c *Client) forceLogout(ctx context.Context, endpoint, reason string) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to clear session", "error", err)
	}
	c.metrics.RecordSessionClear()
	c.audit.Log(audit.Event{
		RequestID: olleh.RequestIDFromContext(ctx),
		Action:    audit.ActionForcedLogout,
		Endpoint:  endpoint,
		Result:    audit.ResultFailure,
		Error:     reason,
	})
	c.logger.InfoContext(ctx, "session cleared", "reason", reason)
}

// send issues a single HTTP request and reads the full body.
func (c *Client) send(ctx context.Context, method, endpoint string, body any, access string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := olleh.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if access != "" {
		req.Header.Set("Authorization", "JWT "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}
