package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyProfileRepository
}

func NewJobUsecase(jobRepo domain.JobRepository, companyRepo domain.CompanyProfileRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo, companyRepo: companyRepo}
}

// CreateJob posts a job under the caller's organization. The submission
// fee defaults to the org-level fee when the posting does not set one.
func (u *jobUsecase) CreateJob(ctx context.Context, job *domain.Job) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	if role != domain.RoleCompanyAdmin && role != domain.RoleCompanyMember {
		return apperror.Forbidden("Only company staff can post jobs")
	}
	orgID := callerOrgID(ctx)
	if orgID == "" {
		return apperror.Forbidden("User does not belong to an organization")
	}

	if job.CreditFee <= 0 {
		org, err := u.companyRepo.GetByID(ctx, orgID)
		if err != nil {
			return err
		}
		job.CreditFee = org.CreditFee
	}

	now := time.Now()
	job.ID = uuid.NewString()
	job.OrgID = orgID
	job.Status = domain.JobStatusOpen
	job.CreatedBy = userID
	job.CreatedAt = now
	job.UpdatedAt = now
	return u.jobRepo.Create(ctx, job)
}

func (u *jobUsecase) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return u.jobRepo.GetByID(ctx, id)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	existing, err := u.ownedJob(ctx, job.ID)
	if err != nil {
		return err
	}
	existing.Title = job.Title
	existing.Description = job.Description
	existing.Location = job.Location
	existing.SalaryMin = job.SalaryMin
	existing.SalaryMax = job.SalaryMax
	if job.CreditFee > 0 {
		existing.CreditFee = job.CreditFee
	}
	existing.UpdatedAt = time.Now()
	*job = *existing
	return u.jobRepo.Update(ctx, existing)
}

func (u *jobUsecase) CloseJob(ctx context.Context, id string) error {
	job, err := u.ownedJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == domain.JobStatusClosed {
		return nil
	}
	job.Status = domain.JobStatusClosed
	job.UpdatedAt = time.Now()
	return u.jobRepo.Update(ctx, job)
}

// ListOpenJobs is the marketplace view for TAS users: open postings
// across all organizations.
func (u *jobUsecase) ListOpenJobs(ctx context.Context, page, limit int) ([]domain.Job, int64, error) {
	return u.jobRepo.List(ctx, domain.JobFilter{
		Status: domain.JobStatusOpen,
		Page:   page,
		Limit:  limit,
	})
}

// ListCompanyJobs lists the caller's own org's postings regardless of
// status. Platform staff may pass an explicit org filter.
func (u *jobUsecase) ListCompanyJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	role, err := callerRole(ctx)
	if err != nil {
		return nil, 0, err
	}
	if role.OrgScoped() {
		orgID := callerOrgID(ctx)
		if orgID == "" {
			return nil, 0, apperror.Forbidden("User does not belong to an organization")
		}
		filter.OrgID = orgID
	}
	return u.jobRepo.List(ctx, filter)
}

// ownedJob loads a job and checks the caller may mutate it: the owning
// org's admin or a platform admin.
func (u *jobUsecase) ownedJob(ctx context.Context, id string) (*domain.Job, error) {
	role, err := callerRole(ctx)
	if err != nil {
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch role {
	case domain.RoleAdmin, domain.RoleOperator:
		return job, nil
	case domain.RoleCompanyAdmin, domain.RoleCompanyMember:
		if callerOrgID(ctx) != job.OrgID {
			return nil, apperror.Forbidden("Job belongs to another organization")
		}
		return job, nil
	}
	return nil, apperror.Forbidden("Insufficient role to modify jobs")
}
