package domain

import (
	"context"
	"time"
)

// AccountVerification is the review record behind a user's verification
// status. The status on the user row is the authoritative gate input; this
// record carries what the reviewer looks at.
type AccountVerification struct {
	ID          int64              `json:"id"`
	UserID      string             `json:"user_id"`
	UserEmail   string             `json:"user_email,omitempty"` // populated via join
	Role        Role               `json:"role"`
	Status      VerificationStatus `json:"status"`
	FullName    *string            `json:"full_name,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	CompanyName *string            `json:"company_name,omitempty"` // org-scoped applicants
	WebsiteURL  *string            `json:"website_url,omitempty"`
	Intro       *string            `json:"intro,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	ReviewedBy  *string            `json:"reviewed_by,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type VerificationFilter struct {
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type VerificationRepository interface {
	GetByUserID(ctx context.Context, userID string) (*AccountVerification, error)
	GetByID(ctx context.Context, id int64) (*AccountVerification, error)
	List(ctx context.Context, filter VerificationFilter) ([]AccountVerification, int64, error)
	Upsert(ctx context.Context, v *AccountVerification) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status VerificationStatus, reviewedBy, notes string) error
}

type VerificationUsecase interface {
	// SubmitDetails records or updates the applicant's review material and
	// moves the account to UNDER_REVIEW.
	SubmitDetails(ctx context.Context, userID string, v *AccountVerification) error
	GetStatus(ctx context.Context, userID string) (*AccountVerification, error)
	ListVerifications(ctx context.Context, filter VerificationFilter) ([]AccountVerification, int64, error)
	// Review approves or rejects a verification. On success the user row's
	// status is updated and the subject's cached claims are invalidated so
	// the change is visible before token expiry.
	Review(ctx context.Context, reviewerID string, verificationID int64, approve bool, notes string) error
}
