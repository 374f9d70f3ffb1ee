package olleh

import "context"

// SessionStore holds the two-token session. Implementations: session/
// (memory, file, redis), fake/ (testing).
//
// Callers must re-read the store on every use rather than caching the pair;
// login, refresh and logout all mutate it concurrently.
type SessionStore interface {
	// Get returns the stored token pair, or nil when logged out.
	Get(ctx context.Context) (*TokenPair, error)

	// Set replaces the stored token pair.
	Set(ctx context.Context, pair TokenPair) error

	// Clear removes the session entirely.
	Clear(ctx context.Context) error
}

// AuthAPI covers the authentication endpoints.
type AuthAPI interface {
	// Login exchanges credentials for a token pair and stores it.
	Login(ctx context.Context, in LoginInput) (*TokenPair, error)

	// Signup registers a new account. It does not log the user in.
	Signup(ctx context.Context, in SignupInput) (*User, error)

	// CurrentUser returns the authenticated account.
	CurrentUser(ctx context.Context) (*User, error)

	// VerifyToken reports whether the backend still accepts the token.
	VerifyToken(ctx context.Context, token string) (bool, error)

	// Logout clears the local session. The backend holds no state to revoke.
	Logout(ctx context.Context) error
}

// MembershipAPI covers the membership catalog and the caller's records.
type MembershipAPI interface {
	// Tiers returns the full tier catalog, available or not.
	Tiers(ctx context.Context) ([]MembershipTier, error)

	// Tier returns a single tier by ID.
	Tier(ctx context.Context, id int) (*MembershipTier, error)

	// Active returns the caller's active membership, or nil when there is
	// none. Absence is not an error.
	Active(ctx context.Context) (*MembershipRecord, error)

	// Pending returns the caller's pending membership requests.
	Pending(ctx context.Context) ([]MembershipRecord, error)

	// List returns all of the caller's membership records.
	List(ctx context.Context) ([]MembershipRecord, error)

	// History returns the caller's expired and canceled records.
	History(ctx context.Context) ([]MembershipRecord, error)

	// Request creates a new membership request.
	Request(ctx context.Context, in MembershipRequest) (*MembershipRecord, error)

	// UpdatePayment patches payment info on a pending request.
	UpdatePayment(ctx context.Context, id int, in PaymentUpdate) (*MembershipRecord, error)

	// Cancel deletes a membership request.
	Cancel(ctx context.Context, id int) error
}
