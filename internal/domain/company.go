package domain

import (
	"context"
	"time"
)

// CompanyProfile is the organization record that org-scoped roles belong to.
type CompanyProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,min=2,max=120"`
	Website   *string   `json:"website,omitempty" validate:"omitempty,url"`
	About     *string   `json:"about,omitempty"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreditFee int       `json:"credit_fee"` // default fee charged per candidate submission
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompanyProfileRepository interface {
	Create(ctx context.Context, profile *CompanyProfile) error
	GetByID(ctx context.Context, id string) (*CompanyProfile, error)
	Update(ctx context.Context, profile *CompanyProfile) error
	List(ctx context.Context, page, limit int) ([]CompanyProfile, int64, error)
}

type CompanyProfileUsecase interface {
	CreateProfile(ctx context.Context, profile *CompanyProfile) error
	GetProfile(ctx context.Context, id string) (*CompanyProfile, error)
	UpdateProfile(ctx context.Context, profile *CompanyProfile) error
	ListProfiles(ctx context.Context, page, limit int) ([]CompanyProfile, int64, error)
}
