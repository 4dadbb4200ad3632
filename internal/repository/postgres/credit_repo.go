package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

type creditRepo struct {
	db *pgxpool.Pool
}

func NewCreditRepository(db *pgxpool.Pool) domain.CreditRepository {
	return &creditRepo{db: db}
}

func (r *creditRepo) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	query := `SELECT user_id, balance, updated_at FROM credit_balances WHERE user_id = $1`
	var b domain.CreditBalance
	err := r.db.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Balance, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row yet means a zero balance, not an error.
		return &domain.CreditBalance{UserID: userID, Balance: 0, UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Debit decrements the balance with a guard in the WHERE clause: the
// update only applies while the balance covers the amount, so two
// concurrent debits cannot drive it negative.
func (r *creditRepo) Debit(ctx context.Context, userID string, amount int, entryType, reference string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE credit_balances
		 SET balance = balance - $2, updated_at = $3
		 WHERE user_id = $1 AND balance >= $2`,
		userID, amount, time.Now(),
	)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientCredits
	}

	if err := insertLedgerEntry(ctx, tx, userID, -amount, entryType, reference); err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *creditRepo) Credit(ctx context.Context, userID string, amount int, entryType, reference string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO credit_balances (user_id, balance, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET balance = credit_balances.balance + $2, updated_at = $3`,
		userID, amount, time.Now(),
	)
	if err != nil {
		return apperror.Internal(err)
	}

	if err := insertLedgerEntry(ctx, tx, userID, amount, entryType, reference); err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, userID string, amount int, entryType, reference string) error {
	var ref *string
	if reference != "" {
		ref = &reference
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO credit_ledger (id, user_id, amount, type, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), userID, amount, entryType, ref, time.Now(),
	)
	return err
}

func (r *creditRepo) ListLedger(ctx context.Context, userID string, page, limit int) ([]domain.LedgerEntry, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM credit_ledger WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, type, reference, created_at
		 FROM credit_ledger WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Type, &e.Reference, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
