package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

type companyProfileUsecase struct {
	companyRepo domain.CompanyProfileRepository
	userRepo    domain.UserRepository
}

func NewCompanyProfileUsecase(companyRepo domain.CompanyProfileRepository, userRepo domain.UserRepository) domain.CompanyProfileUsecase {
	return &companyProfileUsecase{companyRepo: companyRepo, userRepo: userRepo}
}

// CreateProfile creates the caller's organization and links the caller to
// it. Only a company admin who is not yet attached to an org may create
// one.
func (u *companyProfileUsecase) CreateProfile(ctx context.Context, profile *domain.CompanyProfile) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	if role != domain.RoleCompanyAdmin && role != domain.RoleAdmin {
		return apperror.Forbidden("Only company admins can create a company profile")
	}
	if role == domain.RoleCompanyAdmin && callerOrgID(ctx) != "" {
		return apperror.Conflict("User already belongs to an organization")
	}

	now := time.Now()
	profile.ID = uuid.NewString()
	if profile.CreditFee <= 0 {
		profile.CreditFee = 1
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if err := u.companyRepo.Create(ctx, profile); err != nil {
		return err
	}

	if role == domain.RoleCompanyAdmin {
		user, err := u.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.OrgID = &profile.ID
		user.UpdatedAt = now
		return u.userRepo.Update(ctx, user)
	}
	return nil
}

func (u *companyProfileUsecase) GetProfile(ctx context.Context, id string) (*domain.CompanyProfile, error) {
	return u.companyRepo.GetByID(ctx, id)
}

// UpdateProfile lets a company admin edit their own org, and platform
// admins edit any org.
func (u *companyProfileUsecase) UpdateProfile(ctx context.Context, profile *domain.CompanyProfile) error {
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	switch role {
	case domain.RoleAdmin, domain.RoleOperator:
	case domain.RoleCompanyAdmin:
		if callerOrgID(ctx) != profile.ID {
			return apperror.Forbidden("Cannot edit another organization's profile")
		}
	default:
		return apperror.Forbidden("Insufficient role to edit a company profile")
	}

	existing, err := u.companyRepo.GetByID(ctx, profile.ID)
	if err != nil {
		return err
	}
	existing.Name = profile.Name
	existing.Website = profile.Website
	existing.About = profile.About
	existing.LogoURL = profile.LogoURL
	if profile.CreditFee > 0 {
		existing.CreditFee = profile.CreditFee
	}
	existing.UpdatedAt = time.Now()
	*profile = *existing
	return u.companyRepo.Update(ctx, existing)
}

func (u *companyProfileUsecase) ListProfiles(ctx context.Context, page, limit int) ([]domain.CompanyProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return u.companyRepo.List(ctx, page, limit)
}
