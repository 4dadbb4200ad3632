package usecase

import (
	"context"
	"net/http"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
)

// creditPriceCents is the unit price charged per credit on top-up.
const creditPriceCents int64 = 500

type creditUsecase struct {
	creditRepo domain.CreditRepository
	gateway    domain.PaymentGateway
}

func NewCreditUsecase(creditRepo domain.CreditRepository, gateway domain.PaymentGateway) domain.CreditUsecase {
	return &creditUsecase{creditRepo: creditRepo, gateway: gateway}
}

func (u *creditUsecase) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	if err := u.authorize(ctx, userID); err != nil {
		return nil, err
	}
	return u.creditRepo.GetBalance(ctx, userID)
}

// TopUp charges the gateway first, then credits the balance with the
// gateway charge id as the ledger reference.
func (u *creditUsecase) TopUp(ctx context.Context, userID string, credits int) (*domain.CreditBalance, error) {
	callerUID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if callerUID != userID {
		return nil, apperror.Forbidden("Cannot top up another user's balance")
	}
	if credits < 1 || credits > 1000 {
		return nil, apperror.BadRequest("Top-up must be between 1 and 1000 credits")
	}

	chargeID, err := u.gateway.Charge(ctx, userID, int64(credits)*creditPriceCents)
	if err != nil {
		return nil, apperror.New(http.StatusPaymentRequired, "Payment was declined", err)
	}

	if err := u.creditRepo.Credit(ctx, userID, credits, domain.LedgerTopUp, chargeID); err != nil {
		// The charge went through but the balance did not move. Surface
		// the charge id so support can reconcile.
		logger.Log.Error("credit top-up not applied after charge", "user_id", userID, "charge_id", chargeID, "error", err)
		return nil, apperror.Internal(err)
	}
	return u.creditRepo.GetBalance(ctx, userID)
}

func (u *creditUsecase) ListLedger(ctx context.Context, userID string, page, limit int) ([]domain.LedgerEntry, int64, error) {
	if err := u.authorize(ctx, userID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return u.creditRepo.ListLedger(ctx, userID, page, limit)
}

// authorize allows the balance owner and finance/admin staff.
func (u *creditUsecase) authorize(ctx context.Context, userID string) error {
	callerUID, err := callerID(ctx)
	if err != nil {
		return err
	}
	if callerUID == userID {
		return nil
	}
	role, err := callerRole(ctx)
	if err != nil {
		return err
	}
	if role == domain.RoleAdmin || role == domain.RoleFinancialController {
		return nil
	}
	return apperror.Forbidden("Not allowed to view this balance")
}
