// Package fake provides in-memory implementations of the olleh interfaces
// for testing.
//
// Use fake.NewMemberships and fake.NewAuth in unit tests to avoid network
// calls. Both count invocations per operation so tests can assert which
// queries actually ran.
package fake

import (
	"context"
	"fmt"
	"sync"

	olleh "github.com/olleh-rw/olleh-go"
)

// Memberships is an in-memory olleh.MembershipAPI.
type Memberships struct {
	mu      sync.Mutex
	active  *olleh.MembershipRecord
	pending []olleh.MembershipRecord
	all     []olleh.MembershipRecord
	history []olleh.MembershipRecord
	tiers   []olleh.MembershipTier
	errs    map[string]error
	calls   map[string]int
	nextID  int
}

var _ olleh.MembershipAPI = (*Memberships)(nil)

// MembershipsOption configures the fake.
type MembershipsOption func(*Memberships)

// WithActive sets the active membership record.
func WithActive(rec olleh.MembershipRecord) MembershipsOption {
	return func(m *Memberships) { m.active = &rec }
}

// WithPending sets the pending membership records, in order.
func WithPending(recs ...olleh.MembershipRecord) MembershipsOption {
	return func(m *Memberships) { m.pending = recs }
}

// WithRecords sets the full membership record list.
func WithRecords(recs ...olleh.MembershipRecord) MembershipsOption {
	return func(m *Memberships) { m.all = recs }
}

// WithHistory sets the expired/canceled record list.
func WithHistory(recs ...olleh.MembershipRecord) MembershipsOption {
	return func(m *Memberships) { m.history = recs }
}

// WithTiers sets the tier catalog.
func WithTiers(tiers ...olleh.MembershipTier) MembershipsOption {
	return func(m *Memberships) { m.tiers = tiers }
}

// WithError makes the named operation fail. Operation names match the
// lower-cased method names ("active", "pending", "list", "tiers", ...).
func WithError(op string, err error) MembershipsOption {
	return func(m *Memberships) { m.errs[op] = err }
}

// NewMemberships creates a fake membership API.
func NewMemberships(opts ...MembershipsOption) *Memberships {
	m := &Memberships{
		errs:   make(map[string]error),
		calls:  make(map[string]int),
		nextID: 1000,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Calls returns how many times the named operation was invoked.
func (m *Memberships) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Memberships) begin(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return m.errs[op]
}

func (m *Memberships) Tiers(ctx context.Context) ([]olleh.MembershipTier, error) {
	if err := m.begin("tiers"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]olleh.MembershipTier(nil), m.tiers...), nil
}

func (m *Memberships) Tier(ctx context.Context, id int) (*olleh.MembershipTier, error) {
	if err := m.begin("tier"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tiers {
		if m.tiers[i].ID == id {
			tier := m.tiers[i]
			return &tier, nil
		}
	}
	return nil, &olleh.NotFoundError{Endpoint: fmt.Sprintf("/api/memberships/%d/", id)}
}

func (m *Memberships) Active(ctx context.Context) (*olleh.MembershipRecord, error) {
	if err := m.begin("active"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil, nil
	}
	rec := *m.active
	return &rec, nil
}

func (m *Memberships) Pending(ctx context.Context) ([]olleh.MembershipRecord, error) {
	if err := m.begin("pending"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]olleh.MembershipRecord(nil), m.pending...), nil
}

func (m *Memberships) List(ctx context.Context) ([]olleh.MembershipRecord, error) {
	if err := m.begin("list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]olleh.MembershipRecord(nil), m.all...), nil
}

func (m *Memberships) History(ctx context.Context) ([]olleh.MembershipRecord, error) {
	if err := m.begin("history"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]olleh.MembershipRecord(nil), m.history...), nil
}

func (m *Memberships) Request(ctx context.Context, in olleh.MembershipRequest) (*olleh.MembershipRecord, error) {
	if err := m.begin("request"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec := olleh.MembershipRecord{
		ID:               m.nextID,
		Membership:       in.Membership,
		Status:           olleh.StatusPending,
		PaymentMode:      in.PaymentMode,
		PaymentReference: in.PaymentReference,
		AmountPaid:       in.AmountPaid,
	}
	m.all = append(m.all, rec)
	m.pending = append(m.pending, rec)
	return &rec, nil
}

func (m *Memberships) UpdatePayment(ctx context.Context, id int, in olleh.PaymentUpdate) (*olleh.MembershipRecord, error) {
	if err := m.begin("update_payment"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.all {
		if m.all[i].ID == id {
			if in.PaymentMode != nil {
				m.all[i].PaymentMode = in.PaymentMode
			}
			if in.PaymentReference != nil {
				m.all[i].PaymentReference = in.PaymentReference
			}
			if in.AmountPaid != nil {
				m.all[i].AmountPaid = in.AmountPaid
			}
			rec := m.all[i]
			return &rec, nil
		}
	}
	return nil, &olleh.NotFoundError{Endpoint: fmt.Sprintf("/api/user-memberships/%d/", id)}
}

func (m *Memberships) Cancel(ctx context.Context, id int) error {
	if err := m.begin("cancel"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.all {
		if m.all[i].ID == id {
			m.all = append(m.all[:i], m.all[i+1:]...)
			for j := range m.pending {
				if m.pending[j].ID == id {
					m.pending = append(m.pending[:j], m.pending[j+1:]...)
					break
				}
			}
			return nil
		}
	}
	return &olleh.NotFoundError{Endpoint: fmt.Sprintf("/api/user-memberships/%d/", id)}
}
