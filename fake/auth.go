package fake

import (
	"context"
	"fmt"
	"sync"

	olleh "github.com/olleh-rw/olleh-go"
)

// Auth is an in-memory olleh.AuthAPI backed by a session store.
type Auth struct {
	store olleh.SessionStore

	mu       sync.Mutex
	accounts map[string]string // email → password
	ids      map[string]int    // email → user id
	current  string
	nextID   int
	calls    map[string]int
}

var _ olleh.AuthAPI = (*Auth)(nil)

// AuthOption configures the fake.
type AuthOption func(*Auth)

// WithAccount adds a pre-registered account.
func WithAccount(email, password string) AuthOption {
	return func(a *Auth) {
		a.nextID++
		a.accounts[email] = password
		a.ids[email] = a.nextID
	}
}

// NewAuth creates a fake auth API writing sessions to store.
func NewAuth(store olleh.SessionStore, opts ...AuthOption) *Auth {
	a := &Auth{
		store:    store,
		accounts: make(map[string]string),
		ids:      make(map[string]int),
		calls:    make(map[string]int),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Calls returns how many times the named operation was invoked.
func (a *Auth) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

func (a *Auth) Login(ctx context.Context, in olleh.LoginInput) (*olleh.TokenPair, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.calls["login"]++
	password, ok := a.accounts[in.Email]
	a.mu.Unlock()
	if !ok || password != in.Password {
		return nil, &olleh.HTTPError{Status: 401, Body: map[string]any{
			"detail": "No active account found with the given credentials",
		}}
	}

	pair := olleh.TokenPair{
		Access:  fmt.Sprintf("fake-access-%s", in.Email),
		Refresh: fmt.Sprintf("fake-refresh-%s", in.Email),
	}
	if err := a.store.Set(ctx, pair); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.current = in.Email
	a.mu.Unlock()
	return &pair, nil
}

func (a *Auth) Signup(ctx context.Context, in olleh.SignupInput) (*olleh.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls["signup"]++
	if _, exists := a.accounts[in.Email]; exists {
		return nil, &olleh.ValidationError{
			Fields: map[string][]string{"email": {"user with this email already exists."}},
		}
	}
	a.nextID++
	a.accounts[in.Email] = in.Password
	a.ids[in.Email] = a.nextID
	return &olleh.User{ID: a.nextID, Email: in.Email}, nil
}

func (a *Auth) CurrentUser(ctx context.Context) (*olleh.User, error) {
	a.mu.Lock()
	a.calls["current_user"]++
	a.mu.Unlock()

	pair, err := a.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, &olleh.AuthenticationError{Reason: "no session stored"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == "" {
		return nil, &olleh.AuthenticationError{Reason: "no session stored"}
	}
	return &olleh.User{ID: a.ids[a.current], Email: a.current}, nil
}

func (a *Auth) VerifyToken(ctx context.Context, token string) (bool, error) {
	a.mu.Lock()
	a.calls["verify_token"]++
	a.mu.Unlock()

	pair, err := a.store.Get(ctx)
	if err != nil {
		return false, err
	}
	return pair != nil && (token == pair.Access || token == pair.Refresh), nil
}

func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.calls["logout"]++
	a.current = ""
	a.mu.Unlock()
	return a.store.Clear(ctx)
}
