package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	olleh "github.com/olleh-rw/olleh-go"
)

// Tiers returns the full tier catalog.
func (c *Client) Tiers(ctx context.Context) ([]olleh.MembershipTier, error) {
	var tiers []olleh.MembershipTier
	if err := c.do(ctx, http.MethodGet, "/api/memberships/", nil, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// Tier returns a single tier by ID.
func (c *Client) Tier(ctx context.Context, id int) (*olleh.MembershipTier, error) {
	var tier olleh.MembershipTier
	endpoint := fmt.Sprintf("/api/memberships/%d/", id)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &tier); err != nil {
		return nil, err
	}
	return &tier, nil
}

// Active returns the caller's active membership. The backend answers 404
// when there is none; that is absence, not failure, and yields (nil, nil).
func (c *Client) Active(ctx context.Context) (*olleh.MembershipRecord, error) {
	var record olleh.MembershipRecord
	err := c.do(ctx, http.MethodGet, "/api/user-memberships/active/", nil, &record)
	if err != nil {
		var notFound *olleh.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Pending returns the caller's pending membership requests, in backend order.
func (c *Client) Pending(ctx context.Context) ([]olleh.MembershipRecord, error) {
	var records []olleh.MembershipRecord
	if err := c.do(ctx, http.MethodGet, "/api/user-memberships/pending/", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// List returns all of the caller's membership records.
func (c *Client) List(ctx context.Context) ([]olleh.MembershipRecord, error) {
	var records []olleh.MembershipRecord
	if err := c.do(ctx, http.MethodGet, "/api/user-memberships/", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// History returns the caller's expired and canceled records.
func (c *Client) History(ctx context.Context) ([]olleh.MembershipRecord, error) {
	var records []olleh.MembershipRecord
	if err := c.do(ctx, http.MethodGet, "/api/user-memberships/history/", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Request creates a new membership request.
func (c *Client) Request(ctx context.Context, in olleh.MembershipRequest) (*olleh.MembershipRecord, error) {
	var record olleh.MembershipRecord
	if err := c.do(ctx, http.MethodPost, "/api/user-memberships/", in, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdatePayment patches payment info on a pending request.
func (c *Client) UpdatePayment(ctx context.Context, id int, in olleh.PaymentUpdate) (*olleh.MembershipRecord, error) {
	var record olleh.MembershipRecord
	endpoint := fmt.Sprintf("/api/user-memberships/%d/", id)
	if err := c.do(ctx, http.MethodPatch, endpoint, in, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Cancel deletes a membership request.
func (c *Client) Cancel(ctx context.Context, id int) error {
	endpoint := fmt.Sprintf("/api/user-memberships/%d/", id)
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}
