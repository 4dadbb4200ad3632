package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

type submissionUsecase struct {
	subRepo    domain.SubmissionRepository
	jobRepo    domain.JobRepository
	creditRepo domain.CreditRepository
	cvStore    domain.CVStorage
}

func NewSubmissionUsecase(subRepo domain.SubmissionRepository, jobRepo domain.JobRepository, creditRepo domain.CreditRepository, cvStore domain.CVStorage) domain.SubmissionUsecase {
	return &submissionUsecase{subRepo: subRepo, jobRepo: jobRepo, creditRepo: creditRepo, cvStore: cvStore}
}

// SubmitCandidate charges the job's credit fee against the caller's
// balance and creates the submission. The debit happens first; if the
// insert then fails the fee is refunded.
func (u *submissionUsecase) SubmitCandidate(ctx context.Context, sub *domain.Submission) error {
	tasID, err := callerID(ctx)
	if err != nil {
		return err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	if role != domain.RoleTAS {
		return apperror.Forbidden("Only talent acquisition specialists can submit candidates")
	}

	job, err := u.jobRepo.GetByID(ctx, sub.JobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobStatusOpen {
		return apperror.Conflict("Job is no longer accepting submissions")
	}

	sub.ID = uuid.NewString()
	sub.OrgID = job.OrgID
	sub.TASID = tasID
	sub.Stage = domain.StageSubmitted
	sub.CreditsCharged = job.CreditFee
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if job.CreditFee > 0 {
		err = u.creditRepo.Debit(ctx, tasID, job.CreditFee, domain.LedgerSubmission, sub.ID)
		if errors.Is(err, domain.ErrInsufficientCredits) {
			return apperror.PaymentRequired("Insufficient credits for this submission")
		}
		if err != nil {
			return err
		}
	}

	if err := u.subRepo.Create(ctx, sub); err != nil {
		if job.CreditFee > 0 {
			if refundErr := u.creditRepo.Credit(ctx, tasID, job.CreditFee, domain.LedgerRefund, sub.ID); refundErr != nil {
				return apperror.Internal(fmt.Errorf("submission failed (%w) and refund failed: %v", err, refundErr))
			}
		}
		return err
	}
	return nil
}

func (u *submissionUsecase) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := u.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.canView(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// AdvanceStage moves a submission forward one stage, or rejects it.
// Interviewers can move everything below OFFER; the OFFER -> HIRED
// decision is reserved for decision-makers and company admins.
func (u *submissionUsecase) AdvanceStage(ctx context.Context, id string, reject bool, notes string) error {
	reviewerID, err := callerID(ctx)
	if err != nil {
		return err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}

	sub, err := u.subRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch role {
	case domain.RoleCompanyAdmin, domain.RoleInterviewer, domain.RoleDecisionMaker:
		if callerOrgID(ctx) != sub.OrgID {
			return apperror.Forbidden("Submission belongs to another organization")
		}
	case domain.RoleAdmin:
	default:
		return apperror.Forbidden("Insufficient role to review submissions")
	}

	if sub.Stage == domain.StageHired || sub.Stage == domain.StageRejected {
		return apperror.Conflict("Submission already decided")
	}

	next := domain.StageRejected
	if !reject {
		next = domain.NextStage(sub.Stage)
		if next == "" {
			return apperror.Conflict("Submission already decided")
		}
		if next == domain.StageHired && role == domain.RoleInterviewer {
			return apperror.Forbidden("Hiring decisions require a decision maker")
		}
	}

	return u.subRepo.UpdateStage(ctx, id, next, reviewerID)
}

func (u *submissionUsecase) ListSubmissions(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int64, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, 0, err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Scope the filter to what the caller may see.
	switch {
	case role == domain.RoleTAS:
		filter.TASID = userID
	case role.OrgScoped():
		orgID := callerOrgID(ctx)
		if orgID == "" {
			return nil, 0, apperror.Forbidden("User does not belong to an organization")
		}
		filter.OrgID = orgID
	case role == domain.RoleAdmin || role == domain.RoleSupport || role == domain.RoleOperator:
	default:
		return nil, 0, apperror.Forbidden("Insufficient role to list submissions")
	}
	return u.subRepo.List(ctx, filter)
}

// CVUploadURL presigns a PUT for the submitting TAS and records the
// object key on the submission.
func (u *submissionUsecase) CVUploadURL(ctx context.Context, submissionID, filename string) (string, error) {
	if u.cvStore == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "CV storage is not configured", nil)
	}
	tasID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	sub, err := u.subRepo.GetByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if sub.TASID != tasID {
		return "", apperror.Forbidden("Only the submitting specialist can upload the CV")
	}

	ext := path.Ext(filename)
	if ext != ".pdf" && ext != ".doc" && ext != ".docx" {
		return "", apperror.BadRequest("CV must be a PDF or Word document")
	}
	key := fmt.Sprintf("cv/%s/%s%s", sub.OrgID, sub.ID, ext)

	url, err := u.cvStore.UploadURL(ctx, key)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := u.subRepo.AttachCV(ctx, submissionID, key); err != nil {
		return "", err
	}
	return url, nil
}

func (u *submissionUsecase) CVDownloadURL(ctx context.Context, submissionID string) (string, error) {
	if u.cvStore == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "CV storage is not configured", nil)
	}
	sub, err := u.subRepo.GetByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if err := u.canView(ctx, sub); err != nil {
		return "", err
	}
	if sub.CVKey == nil {
		return "", apperror.NotFound("No CV attached to this submission")
	}
	url, err := u.cvStore.DownloadURL(ctx, *sub.CVKey)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return url, nil
}

// canView enforces the read boundary: the submitting TAS, the owning
// org's staff, and platform staff.
func (u *submissionUsecase) canView(ctx context.Context, sub *domain.Submission) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	switch {
	case role == domain.RoleTAS && sub.TASID == userID:
		return nil
	case role.OrgScoped() && callerOrgID(ctx) == sub.OrgID:
		return nil
	case role == domain.RoleAdmin || role == domain.RoleSupport || role == domain.RoleOperator:
		return nil
	}
	return apperror.Forbidden("Not allowed to view this submission")
}
