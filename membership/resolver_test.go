package membership_test

import (
	"context"
	"errors"
	"testing"

	olleh "github.com/olleh-rw/olleh-go"
	"github.com/olleh-rw/olleh-go/fake"
	"github.com/olleh-rw/olleh-go/membership"
	"github.com/olleh-rw/olleh-go/session"
)

func authedStore(t *testing.T) *session.Memory {
	t.Helper()
	store := session.NewMemory()
	if err := store.Set(context.Background(), olleh.TokenPair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return store
}

func record(id int, status olleh.RecordStatus, isActive bool) olleh.MembershipRecord {
	return olleh.MembershipRecord{
		ID:             id,
		Membership:     1,
		MembershipName: "Gold",
		Status:         status,
		IsActive:       isActive,
	}
}

func tier(id int, available bool) olleh.MembershipTier {
	return olleh.MembershipTier{ID: id, Name: "Gold", Price: 50000, IsAvailable: available}
}

func TestResolve_Unauthenticated(t *testing.T) {
	api := fake.NewMemberships()
	r := membership.New(session.NewMemory(), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.Unauthenticated {
		t.Errorf("Kind = %s, want unauthenticated", state.Kind)
	}

	// No session means not a single query goes out.
	for _, op := range []string{"active", "pending", "list", "tiers"} {
		if n := api.Calls(op); n != 0 {
			t.Errorf("Calls(%q) = %d, want 0", op, n)
		}
	}
}

func TestResolve_ActiveWinsAndGatesEverything(t *testing.T) {
	api := fake.NewMemberships(
		fake.WithActive(record(1, olleh.StatusActive, true)),
		fake.WithPending(record(2, olleh.StatusPending, false)),
		fake.WithTiers(tier(1, true)),
	)
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.Active {
		t.Fatalf("Kind = %s, want active", state.Kind)
	}
	if state.Record == nil || state.Record.ID != 1 {
		t.Errorf("Record = %+v, want id 1", state.Record)
	}

	if n := api.Calls("active"); n != 1 {
		t.Errorf("Calls(active) = %d, want 1", n)
	}
	for _, op := range []string{"pending", "list", "tiers"} {
		if n := api.Calls(op); n != 0 {
			t.Errorf("Calls(%q) = %d, want 0 (gated by active)", op, n)
		}
	}
}

func TestResolve_PendingFirstRecordWins(t *testing.T) {
	api := fake.NewMemberships(
		fake.WithPending(
			record(10, olleh.StatusPending, false),
			record(11, olleh.StatusPending, false),
		),
	)
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.Pending {
		t.Fatalf("Kind = %s, want pending", state.Kind)
	}
	if state.Record.ID != 10 {
		t.Errorf("Record.ID = %d, want first pending record 10", state.Record.ID)
	}

	for _, op := range []string{"list", "tiers"} {
		if n := api.Calls(op); n != 0 {
			t.Errorf("Calls(%q) = %d, want 0 (gated by pending)", op, n)
		}
	}
}

func TestResolve_PaidAwaitingActivation(t *testing.T) {
	api := fake.NewMemberships(
		fake.WithRecords(
			record(20, olleh.StatusCanceled, false),
			record(21, olleh.StatusPaid, false),
		),
		fake.WithTiers(tier(1, true)),
	)
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.PaidAwaitingActivation {
		t.Fatalf("Kind = %s, want paid_awaiting_activation", state.Kind)
	}
	if state.Record.ID != 21 {
		t.Errorf("Record.ID = %d, want 21", state.Record.ID)
	}
	if n := api.Calls("tiers"); n != 0 {
		t.Errorf("Calls(tiers) = %d, want 0 (gated by paid record)", n)
	}
}

func TestResolve_PaidButActiveFlagDoesNotMatch(t *testing.T) {
	// A paid record that is already active must not resolve as awaiting
	// activation; with nothing else it falls through to the catalog.
	api := fake.NewMemberships(
		fake.WithRecords(record(30, olleh.StatusPaid, true)),
		fake.WithTiers(tier(1, true)),
	)
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.TiersAvailable {
		t.Errorf("Kind = %s, want tiers_available", state.Kind)
	}
}

func TestResolve_AvailableTiersFiltered(t *testing.T) {
	api := fake.NewMemberships(
		fake.WithTiers(tier(1, true), tier(2, false), tier(3, true), tier(4, true)),
	)
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.TiersAvailable {
		t.Fatalf("Kind = %s, want tiers_available", state.Kind)
	}
	if len(state.Tiers) != 3 {
		t.Fatalf("len(Tiers) = %d, want 3 (unavailable excluded)", len(state.Tiers))
	}
	for _, tr := range state.Tiers {
		if !tr.IsAvailable {
			t.Errorf("tier %d is not available but was included", tr.ID)
		}
	}
}

func TestResolve_NoTiersAvailable(t *testing.T) {
	api := fake.NewMemberships(fake.WithTiers(tier(1, false)))
	r := membership.New(authedStore(t), api)

	state, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if state.Kind != membership.NoTiersAvailable {
		t.Errorf("Kind = %s, want no_tiers_available", state.Kind)
	}
	if state.Record != nil || state.Tiers != nil {
		t.Errorf("state payload should be empty, got %+v", state)
	}
}

func TestResolve_HardErrorPropagates(t *testing.T) {
	backendErr := &olleh.HTTPError{Status: 500, Body: map[string]any{"detail": "boom"}}
	api := fake.NewMemberships(
		fake.WithError("active", backendErr),
		fake.WithTiers(tier(1, true)),
	)
	r := membership.New(authedStore(t), api)

	_, err := r.Resolve(context.Background())
	var httpErr *olleh.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want the backend *HTTPError", err)
	}

	// An error must not fall through to a lower-precedence state.
	for _, op := range []string{"pending", "list", "tiers"} {
		if n := api.Calls(op); n != 0 {
			t.Errorf("Calls(%q) = %d, want 0 after hard error", op, n)
		}
	}
}

func TestResolve_TierCatalogErrorPropagates(t *testing.T) {
	backendErr := &olleh.HTTPError{Status: 502, Body: map[string]any{"detail": "upstream"}}
	api := fake.NewMemberships(fake.WithError("tiers", backendErr))
	r := membership.New(authedStore(t), api)

	_, err := r.Resolve(context.Background())
	var httpErr *olleh.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *HTTPError, not no_tiers_available", err)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	api := fake.NewMemberships(fake.WithPending(record(10, olleh.StatusPending, false)))
	r := membership.New(authedStore(t), api)

	first, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	second, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if first.Kind != second.Kind {
		t.Errorf("kinds differ: %s then %s", first.Kind, second.Kind)
	}
	if first.Record.ID != second.Record.ID {
		t.Errorf("records differ: %d then %d", first.Record.ID, second.Record.ID)
	}
}

func TestResolveAsync_LoadingThenSettled(t *testing.T) {
	api := fake.NewMemberships(fake.WithActive(record(1, olleh.StatusActive, true)))
	r := membership.New(authedStore(t), api)

	ch := r.ResolveAsync(context.Background())

	first, ok := <-ch
	if !ok {
		t.Fatal("channel closed before any update")
	}
	if first.State.Kind != membership.Loading {
		t.Fatalf("first Kind = %s, want loading", first.State.Kind)
	}

	second, ok := <-ch
	if !ok {
		t.Fatal("channel closed before settled update")
	}
	if second.Err != nil {
		t.Fatalf("settled Err = %v", second.Err)
	}
	if second.State.Kind != membership.Active {
		t.Errorf("settled Kind = %s, want active", second.State.Kind)
	}

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after the settled update")
	}
}
