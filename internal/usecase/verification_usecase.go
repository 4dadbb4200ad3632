package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/thinksaga/recruitkart-sub003/internal/audit"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
)

// DecisionNotifier delivers the review outcome to the applicant. A nil
// notifier disables notifications.
type DecisionNotifier interface {
	SendVerificationDecision(toEmail string, approved bool, notes string) error
}

type verificationUsecase struct {
	verificationRepo domain.VerificationRepository
	userRepo         domain.UserRepository
	sessions         *session.Cache
	notifier         DecisionNotifier
	auditor          *audit.Logger
}

func NewVerificationUsecase(verificationRepo domain.VerificationRepository, userRepo domain.UserRepository, sessions *session.Cache, notifier DecisionNotifier, auditor *audit.Logger) domain.VerificationUsecase {
	return &verificationUsecase{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		sessions:         sessions,
		notifier:         notifier,
		auditor:          auditor,
	}
}

// SubmitDetails stores the applicant's review material and moves the
// account from PENDING to UNDER_REVIEW.
func (u *verificationUsecase) SubmitDetails(ctx context.Context, userID string, v *domain.AccountVerification) error {
	callerUID, err := callerID(ctx)
	if err != nil {
		return err
	}
	if callerUID != userID {
		return apperror.Forbidden("Cannot submit verification for another user")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	switch user.VerificationStatus {
	case domain.StatusPending, domain.StatusUnderReview, domain.StatusRejected:
	default:
		return apperror.Conflict("Account is not awaiting verification")
	}

	now := time.Now()
	v.UserID = userID
	v.Role = user.Role
	v.Status = domain.StatusUnderReview
	v.SubmittedAt = now
	if _, err := u.verificationRepo.Upsert(ctx, v); err != nil {
		return err
	}
	if err := u.userRepo.UpdateVerificationStatus(ctx, userID, domain.StatusUnderReview); err != nil {
		return err
	}
	u.dropSnapshot(ctx, userID)
	return nil
}

func (u *verificationUsecase) GetStatus(ctx context.Context, userID string) (*domain.AccountVerification, error) {
	callerUID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if callerUID != userID {
		role, err := callerRole(ctx)
		if err != nil {
			return nil, err
		}
		if !reviewerRole(role) {
			return nil, apperror.Forbidden("Not allowed to view this verification")
		}
	}
	return u.verificationRepo.GetByUserID(ctx, userID)
}

func (u *verificationUsecase) ListVerifications(ctx context.Context, filter domain.VerificationFilter) ([]domain.AccountVerification, int64, error) {
	role, err := callerRole(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !reviewerRole(role) {
		return nil, 0, apperror.Forbidden("Not allowed to list verifications")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return u.verificationRepo.List(ctx, filter)
}

// Review records the decision, flips the user row's status, and drops the
// subject's cached claims so the change lands within the snapshot TTL
// rather than the token lifetime.
func (u *verificationUsecase) Review(ctx context.Context, reviewerID string, verificationID int64, approve bool, notes string) error {
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	if !reviewerRole(role) {
		return apperror.Forbidden("Not allowed to review verifications")
	}

	v, err := u.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return err
	}
	if v.Status != domain.StatusUnderReview && v.Status != domain.StatusPending {
		return apperror.Conflict("Verification already decided")
	}

	status := domain.StatusRejected
	if approve {
		status = domain.StatusVerified
	}
	if err := u.verificationRepo.UpdateStatus(ctx, verificationID, status, reviewerID, notes); err != nil {
		return err
	}
	if err := u.userRepo.UpdateVerificationStatus(ctx, v.UserID, status); err != nil {
		return err
	}
	u.dropSnapshot(ctx, v.UserID)
	u.auditor.VerificationReviewed(ctx, reviewerID, v.UserID, approve)

	if u.notifier != nil && v.UserEmail != "" {
		if err := u.notifier.SendVerificationDecision(v.UserEmail, approve, notes); err != nil {
			logger.Log.Warn("failed to send verification decision email", "user_id", v.UserID, "error", err)
		}
	}
	return nil
}

func (u *verificationUsecase) dropSnapshot(ctx context.Context, userID string) {
	if err := u.sessions.Invalidate(ctx, userID); err != nil && !errors.Is(err, session.ErrUnavailable) {
		logger.Log.Warn("failed to drop session snapshot", "user_id", userID, "error", err)
	}
}

// reviewerRole reports whether the role may work the verification queue.
func reviewerRole(r domain.Role) bool {
	switch r {
	case domain.RoleAdmin, domain.RoleOperator, domain.RoleComplianceOfficer:
		return true
	}
	return false
}
