package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	olleh "github.com/olleh-rw/olleh-go"
	"github.com/olleh-rw/olleh-go/audit"
)

// Login exchanges credentials for a token pair and stores it.
// Input is validated locally before anything is sent.
func (c *Client) Login(ctx context.Context, in olleh.LoginInput) (*olleh.TokenPair, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var pair olleh.TokenPair
	err := c.doAnon(ctx, http.MethodPost, "/auth/jwt/create/", in, &pair)
	if err != nil {
		c.audit.Log(audit.Event{
			RequestID: olleh.RequestIDFromContext(ctx),
			Email:     in.Email,
			Action:    audit.ActionLogin,
			Result:    audit.ResultFailure,
			Error:     err.Error(),
		})
		return nil, err
	}

	if err := c.store.Set(ctx, pair); err != nil {
		return nil, fmt.Errorf("rest: store session: %w", err)
	}

	c.audit.Log(audit.Event{
		RequestID: olleh.RequestIDFromContext(ctx),
		Email:     in.Email,
		Action:    audit.ActionLogin,
		Result:    audit.ResultSuccess,
	})
	c.logger.InfoContext(ctx, "logged in", "email", in.Email)
	return &pair, nil
}

// Signup registers a new account. The backend returns the created user;
// field-level problems surface as *olleh.ValidationError.
func (c *Client) Signup(ctx context.Context, in olleh.SignupInput) (*olleh.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var user olleh.User
	err := c.doAnon(ctx, http.MethodPost, "/auth/users/", in, &user)
	if err != nil {
		c.audit.Log(audit.Event{
			RequestID: olleh.RequestIDFromContext(ctx),
			Email:     in.Email,
			Action:    audit.ActionSignup,
			Result:    audit.ResultFailure,
			Error:     err.Error(),
		})
		return nil, err
	}

	c.audit.Log(audit.Event{
		RequestID: olleh.RequestIDFromContext(ctx),
		Email:     in.Email,
		Action:    audit.ActionSignup,
		Result:    audit.ResultSuccess,
	})
	return &user, nil
}

// CurrentUser returns the authenticated account.
func (c *Client) CurrentUser(ctx context.Context) (*olleh.User, error) {
	var user olleh.User
	if err := c.do(ctx, http.MethodGet, "/auth/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken reports whether the backend still accepts the token.
// A rejection is a negative answer, not an error.
func (c *Client) VerifyToken(ctx context.Context, token string) (bool, error) {
	err := c.doAnon(ctx, http.MethodPost, "/auth/jwt/verify/",
		map[string]string{"token": token}, nil)
	if err == nil {
		return true, nil
	}

	var httpErr *olleh.HTTPError
	var valErr *olleh.ValidationError
	if errors.As(err, &httpErr) || errors.As(err, &valErr) {
		return false, nil
	}
	return false, err
}

// Logout clears the local session. The backend is stateless for JWT
// sessions, so there is nothing to revoke remotely.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("rest: clear session: %w", err)
	}
	c.audit.Log(audit.Event{
		RequestID: olleh.RequestIDFromContext(ctx),
		Action:    audit.ActionLogout,
		Result:    audit.ResultSuccess,
	})
	c.logger.InfoContext(ctx, "logged out")
	return nil
}
