package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInsufficientCredits is returned by Debit when the balance cannot
// cover the requested amount.
var ErrInsufficientCredits = errors.New("insufficient credit balance")

// Credit ledger entry types.
const (
	LedgerTopUp      = "TOP_UP"
	LedgerSubmission = "SUBMISSION_FEE"
	LedgerRefund     = "REFUND"
	LedgerAdjustment = "ADJUSTMENT"
)

type CreditBalance struct {
	UserID    string    `json:"user_id"`
	Balance   int       `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LedgerEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    int       `json:"amount"` // positive for credit, negative for debit
	Type      string    `json:"type"`
	Reference *string   `json:"reference,omitempty"` // e.g. submission id, gateway charge id
	CreatedAt time.Time `json:"created_at"`
}

type CreditRepository interface {
	GetBalance(ctx context.Context, userID string) (*CreditBalance, error)
	// Debit atomically checks and decrements the balance, writing a
	// ledger entry in the same transaction. Returns
	// ErrInsufficientCredits without side effects when the balance is
	// too low.
	Debit(ctx context.Context, userID string, amount int, entryType, reference string) error
	Credit(ctx context.Context, userID string, amount int, entryType, reference string) error
	ListLedger(ctx context.Context, userID string, page, limit int) ([]LedgerEntry, int64, error)
}

// PaymentGateway is the narrow surface consumed for credit top-ups. The
// real client lives outside this repo; tests use a fake.
type PaymentGateway interface {
	Charge(ctx context.Context, userID string, amountCents int64) (chargeID string, err error)
}

type CreditUsecase interface {
	GetBalance(ctx context.Context, userID string) (*CreditBalance, error)
	// TopUp charges the payment gateway and credits the balance.
	TopUp(ctx context.Context, userID string, credits int) (*CreditBalance, error)
	ListLedger(ctx context.Context, userID string, page, limit int) ([]LedgerEntry, int64, error)
}
