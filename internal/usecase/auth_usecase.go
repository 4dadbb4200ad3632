package usecase

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thinksaga/recruitkart-sub003/internal/audit"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
)

const bcryptCost = 10

type authUsecase struct {
	userRepo domain.UserRepository
	sessions *session.Cache
	auditor  *audit.Logger
	now      func() time.Time
}

func NewAuthUsecase(userRepo domain.UserRepository, sessions *session.Cache, auditor *audit.Logger) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo, sessions: sessions, auditor: auditor, now: time.Now}
}

// Register creates a self-service account. Privileged and org-member roles
// are provisioned through admin flows, never through open signup.
func (u *authUsecase) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	if !slices.Contains(domain.SelfServiceRoles, role) {
		return nil, apperror.Forbidden("Role not available for signup")
	}
	if len(password) < 8 {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	user := &domain.User{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       string(hash),
		Role:               role,
		VerificationStatus: domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CheckCredentials runs the credential check with the lockout policy:
// a locked account is rejected before the hash comparison, a mismatch
// bumps the failure counter, and the fifth consecutive failure locks the
// account for the lockout window.
func (u *authUsecase) CheckCredentials(ctx context.Context, email, password string) (*domain.User, domain.CredentialResult, *time.Time, error) {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
			// Indistinguishable from a wrong password, so the endpoint
			// cannot be used to enumerate accounts.
			return nil, domain.CredentialInvalid, nil, nil
		}
		return nil, domain.CredentialInvalid, nil, err
	}

	now := u.now()
	if user.Locked(now) {
		return nil, domain.CredentialLocked, user.LockedUntil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		state, recErr := u.userRepo.RecordFailedLogin(ctx, user.ID, now)
		if recErr != nil {
			logger.Log.Error("failed to record login failure", "user_id", user.ID, "error", recErr)
			return nil, domain.CredentialInvalid, nil, nil
		}
		if state.FailedAttempts >= domain.LockoutThreshold {
			if state.LockedUntil != nil {
				u.auditor.LoginLocked(ctx, email, *state.LockedUntil)
			}
			return nil, domain.CredentialLocked, state.LockedUntil, nil
		}
		u.auditor.LoginFailed(ctx, email, state.FailedAttempts)
		return nil, domain.CredentialInvalid, nil, nil
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := u.userRepo.ResetLockout(ctx, user.ID); err != nil {
			logger.Log.Error("failed to reset lockout counter", "user_id", user.ID, "error", err)
		}
	}

	// Prime the claims snapshot so the first authorized request does not
	// miss the cache.
	if err := u.sessions.Set(ctx, user.ID, session.Snapshot{Role: user.Role, Status: user.VerificationStatus}); err != nil && !errors.Is(err, session.ErrUnavailable) {
		logger.Log.Warn("failed to prime session snapshot", "user_id", user.ID, "error", err)
	}

	u.auditor.LoginSuccess(ctx, user.ID)
	return user, domain.CredentialOk, nil, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// Logout sets the revocation watermark so every token issued up to now is
// dead, then drops the cached snapshot.
func (u *authUsecase) Logout(ctx context.Context, userID string) error {
	if err := u.sessions.Revoke(ctx, userID, u.now()); err != nil {
		if !errors.Is(err, session.ErrUnavailable) {
			return apperror.Internal(err)
		}
		// No Redis: the cookie overwrite is the whole logout.
		logger.Log.Warn("logout without revocation watermark", "user_id", userID)
	}
	if err := u.sessions.Invalidate(ctx, userID); err != nil && !errors.Is(err, session.ErrUnavailable) {
		logger.Log.Warn("failed to drop session snapshot", "user_id", userID, "error", err)
	}
	u.auditor.Logout(ctx, userID)
	return nil
}
