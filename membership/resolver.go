// Package membership resolves which membership view a user should see.
//
// The resolver orchestrates up to four backend queries with a strict
// precedence: an active membership outranks a pending request, a pending
// request outranks a confirmed-but-unactivated payment, and only a user with
// none of those is offered the tier catalog. Later queries are issued only
// once every earlier state is known to be ruled out, so a user with an
// active membership never triggers the catalog query at all.
package membership

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	olleh "github.com/olleh-rw/olleh-go"
	"github.com/olleh-rw/olleh-go/metrics"
)

// StateKind identifies the single view to present.
type StateKind string

const (
	// Loading is emitted by ResolveAsync while queries are in flight.
	Loading StateKind = "loading"

	// Unauthenticated means no session is stored; no queries were issued.
	Unauthenticated StateKind = "unauthenticated"

	// Active means the user holds an active membership.
	Active StateKind = "active"

	// Pending means a membership request is awaiting payment confirmation.
	Pending StateKind = "pending"

	// PaidAwaitingActivation means payment is confirmed but the membership
	// has not been activated yet.
	PaidAwaitingActivation StateKind = "paid_awaiting_activation"

	// TiersAvailable means the user can be offered the available tiers.
	TiersAvailable StateKind = "tiers_available"

	// NoTiersAvailable means nothing is currently purchasable.
	NoTiersAvailable StateKind = "no_tiers_available"
)

// State is the resolved display state. Exactly one of Record or Tiers is
// populated, depending on Kind; both are nil for Unauthenticated and
// NoTiersAvailable.
type State struct {
	Kind   StateKind
	Record *olleh.MembershipRecord
	Tiers  []olleh.MembershipTier
}

// Update is one emission from ResolveAsync.
type Update struct {
	State State
	Err   error
}

// Resolver decides the membership display state for the current session.
type Resolver struct {
	store   olleh.SessionStore
	api     olleh.MembershipAPI
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New creates a Resolver reading authentication state from store and
// querying through api.
func New(store olleh.SessionStore, api olleh.MembershipAPI, opts ...Option) *Resolver {
	r := &Resolver{
		store:   store,
		api:     api,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.New(false),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve evaluates the precedence chain and returns exactly one settled
// state. Hard errors from any query propagate instead of falling through to
// a lower-precedence state, so a backend failure is never presented as
// "no membership".
func (r *Resolver) Resolve(ctx context.Context) (State, error) {
	pair, err := r.store.Get(ctx)
	if err != nil {
		return State{}, fmt.Errorf("membership: read session: %w", err)
	}
	if pair == nil {
		return r.settled(ctx, State{Kind: Unauthenticated}), nil
	}

	active, err := r.api.Active(ctx)
	if err != nil {
		return State{}, err
	}
	if active != nil {
		return r.settled(ctx, State{Kind: Active, Record: active}), nil
	}

	pending, err := r.api.Pending(ctx)
	if err != nil {
		return State{}, err
	}
	if len(pending) > 0 {
		// Backend order breaks ties; a user has at most one pending
		// request in practice.
		return r.settled(ctx, State{Kind: Pending, Record: &pending[0]}), nil
	}

	all, err := r.api.List(ctx)
	if err != nil {
		return State{}, err
	}
	for i := range all {
		if all[i].Status == olleh.StatusPaid && !all[i].IsActive {
			return r.settled(ctx, State{Kind: PaidAwaitingActivation, Record: &all[i]}), nil
		}
	}

	tiers, err := r.api.Tiers(ctx)
	if err != nil {
		return State{}, err
	}
	available := tiers[:0:0]
	for _, t := range tiers {
		if t.IsAvailable {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return r.settled(ctx, State{Kind: NoTiersAvailable}), nil
	}
	return r.settled(ctx, State{Kind: TiersAvailable, Tiers: available}), nil
}

// ResolveAsync emits Loading immediately, then the settled state, and closes
// the channel. Abandoning the channel does not abort the queries.
func (r *Resolver) ResolveAsync(ctx context.Context) <-chan Update {
	ch := make(chan Update, 2)
	ch <- Update{State: State{Kind: Loading}}
	go func() {
		defer close(ch)
		state, err := r.Resolve(ctx)
		ch <- Update{State: state, Err: err}
	}()
	return ch
}

func (r *Resolver) settled(ctx context.Context, s State) State {
	r.metrics.RecordResolve(string(s.Kind))
	r.logger.DebugContext(ctx, "membership status resolved", "state", string(s.Kind))
	return s
}
