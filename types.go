package olleh

import "time"

// TokenPair is the credential pair issued by the backend on login.
// The refresh token is never rotated; refreshing only replaces Access.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the authenticated account as returned by /auth/users/me/.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// RecordStatus is the lifecycle status of a user's membership record.
type RecordStatus string

const (
	StatusPending  RecordStatus = "pending"
	StatusPaid     RecordStatus = "paid"
	StatusActive   RecordStatus = "active"
	StatusExpired  RecordStatus = "expired"
	StatusCanceled RecordStatus = "canceled"
)

// PaymentMode is how a membership payment was (or will be) made.
type PaymentMode string

const (
	PaymentMobileMoney PaymentMode = "mobile_money"
	PaymentCash        PaymentMode = "cash"
	PaymentBank        PaymentMode = "bank"
)

// MembershipTier is a purchasable plan from the backend catalog.
// Immutable from the client's perspective.
type MembershipTier struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	MaxOrderPrice float64   `json:"max_order_price"`
	Description   string    `json:"description"`
	DurationDays  int       `json:"duration_days"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MembershipRecord is one user's relationship to one tier.
//
// List endpoints populate MembershipName/MembershipPrice; the detail and
// active endpoints populate Details instead. At most one record per user is
// both StatusActive and IsActive (backend-enforced).
type MembershipRecord struct {
	ID               int             `json:"id"`
	User             int             `json:"user"`
	UserEmail        string          `json:"user_email"`
	Membership       int             `json:"membership"`
	MembershipName   string          `json:"membership_name,omitempty"`
	MembershipPrice  float64         `json:"membership_price,omitempty"`
	Details          *MembershipTier `json:"membership_details,omitempty"`
	Status           RecordStatus    `json:"status"`
	StartDate        *time.Time      `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	PaymentMode      *PaymentMode    `json:"payment_mode"`
	PaymentReference *string         `json:"payment_reference"`
	AmountPaid       *float64        `json:"amount_paid"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TierName returns the plan name regardless of which serializer shape the
// record came from.
func (r *MembershipRecord) TierName() string {
	if r.Details != nil {
		return r.Details.Name
	}
	return r.MembershipName
}

// MembershipRequest is the payload for creating a membership request.
// Payment fields may be supplied later via PaymentUpdate.
type MembershipRequest struct {
	Membership       int          `json:"membership"`
	PaymentMode      *PaymentMode `json:"payment_mode,omitempty"`
	PaymentReference *string      `json:"payment_reference,omitempty"`
	AmountPaid       *float64     `json:"amount_paid,omitempty"`
}

// PaymentUpdate is the PATCH payload for a pending membership's payment info.
type PaymentUpdate struct {
	PaymentMode      *PaymentMode `json:"payment_mode,omitempty"`
	PaymentReference *string      `json:"payment_reference,omitempty"`
	AmountPaid       *float64     `json:"amount_paid,omitempty"`
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput holds registration data. RePassword must match Password;
// the backend enforces the same rule server-side.
type SignupInput struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8"`
	RePassword string `json:"re_password" validate:"required,eqfield=Password"`
}
