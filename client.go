// Package olleh provides a Go client SDK for the Olleh membership backend.
//
// The SDK defines interfaces for session storage, authentication, and
// membership operations. Concrete implementations are injected via Option
// functions; the rest/ package provides the HTTP implementations and the
// fake/ package provides in-memory test doubles.
//
// Example usage against a live backend:
//
//	store := session.NewFile(path)
//	api := rest.New("https://api.olleh.rw", store)
//	client, err := olleh.NewClient(
//	    olleh.Config{BaseURL: "https://api.olleh.rw"},
//	    olleh.WithSessionStore(store),
//	    olleh.WithAuthAPI(api),
//	    olleh.WithMembershipAPI(api),
//	)
package olleh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultTimeout is the default per-request HTTP timeout.
const DefaultTimeout = 10 * time.Second

// Config holds connection and behavior configuration.
type Config struct {
	// BaseURL is the address of the Olleh backend, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout is the per-request HTTP timeout. Default: 10 seconds.
	Timeout time.Duration
}

// Client is the main entry point for Olleh operations.
// Service implementations are injected via Option functions.
type Client struct {
	config      Config
	logger      *slog.Logger
	store       SessionStore
	auth        AuthAPI
	memberships MembershipAPI
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a structured logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSessionStore sets the session storage implementation.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.store = s }
}

// WithAuthAPI sets the authentication implementation.
func WithAuthAPI(a AuthAPI) Option {
	return func(c *Client) { c.auth = a }
}

// WithMembershipAPI sets the membership implementation.
func WithMembershipAPI(m MembershipAPI) Option {
	return func(c *Client) { c.memberships = m }
}

// NewClient creates a new Olleh client with the given configuration and options.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("olleh: BaseURL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{config: cfg}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.config }

// Sessions returns the session store, or nil if not configured.
func (c *Client) Sessions() SessionStore { return c.store }

// Auth returns the authentication service, or nil if not configured.
func (c *Client) Auth() AuthAPI { return c.auth }

// Memberships returns the membership service, or nil if not configured.
func (c *Client) Memberships() MembershipAPI { return c.memberships }

// IsAuthenticated reports whether a session is currently stored. It says
// nothing about whether the backend still accepts the tokens.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	pair, err := c.store.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("olleh: read session: %w", err)
	}
	return pair != nil, nil
}

// SignupAndLogin registers a new account and immediately logs it in, the
// way the storefront signup flow does.
func (c *Client) SignupAndLogin(ctx context.Context, in SignupInput) (*User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("olleh: no auth service configured")
	}

	user, err := c.auth.Signup(ctx, in)
	if err != nil {
		return nil, err
	}

	_, err = c.auth.Login(ctx, LoginInput{Email: in.Email, Password: in.Password})
	if err != nil {
		return nil, fmt.Errorf("olleh: signup succeeded but login failed: %w", err)
	}
	return user, nil
}

// Close releases all resources held by the client.
// Any injected service that implements io.Closer will be closed.
func (c *Client) Close() error {
	closers := []interface{}{c.store, c.auth, c.memberships}
	var firstErr error
	for _, svc := range closers {
		if cl, ok := svc.(io.Closer); ok && cl != nil {
			if err := cl.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
