package domain

import (
	"context"
	"time"
)

// LockoutThreshold is the number of consecutive failed credential checks
// before an account is locked, and LockoutDuration is how long the lock
// holds.
const (
	LockoutThreshold = 5
	LockoutDuration  = 30 * time.Minute
)

type User struct {
	ID                  string             `json:"id"`
	Email               string             `json:"email"`
	PasswordHash        string             `json:"-"`
	Role                Role               `json:"role"`
	OrgID               *string            `json:"org_id,omitempty"` // set only for org-scoped roles
	VerificationStatus  VerificationStatus `json:"verification_status"`
	FailedLoginAttempts int                `json:"-"`
	LockedUntil         *time.Time         `json:"-"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Locked reports whether the account is currently locked out.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// LockoutState is the result of atomically recording a failed credential
// check against a user row.
type LockoutState struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	// RecordFailedLogin bumps the failed-attempt counter and sets the lock
	// timestamp once the threshold is reached, in a single statement so
	// concurrent failures cannot under-count.
	RecordFailedLogin(ctx context.Context, id string, now time.Time) (*LockoutState, error)
	// ResetLockout clears the counter and lock after a successful check.
	ResetLockout(ctx context.Context, id string) error
	UpdateVerificationStatus(ctx context.Context, id string, status VerificationStatus) error
}

// CredentialResult is the outcome of a credential check.
type CredentialResult int

const (
	CredentialOk CredentialResult = iota
	CredentialInvalid
	CredentialLocked
)

type AuthUsecase interface {
	Register(ctx context.Context, email, password string, role Role) (*User, error)
	// CheckCredentials verifies a password against the stored hash,
	// applying the lockout policy. lockedUntil is set only for
	// CredentialLocked.
	CheckCredentials(ctx context.Context, email, password string) (*User, CredentialResult, *time.Time, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	// Logout revokes all tokens issued to the user up to now. The cookie
	// overwrite alone is not enough: a stolen token would otherwise stay
	// valid until its expiry.
	Logout(ctx context.Context, userID string) error
}
