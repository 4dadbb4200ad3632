package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

const userColumns = `id, email, password_hash, role, org_id, verification_status,
	failed_login_attempts, locked_until, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var role, status string
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &role, &user.OrgID, &status,
		&user.FailedLoginAttempts, &user.LockedUntil, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	user.VerificationStatus = domain.VerificationStatus(status)
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, role, org_id, verification_status,
	              failed_login_attempts, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role.String(), user.OrgID,
		user.VerificationStatus.String(), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("User with this email already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("User not found")
	}
	return user, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("User not found")
	}
	return user, err
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $2, role = $3, org_id = $4, verification_status = $5, updated_at = $6
	          WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Role.String(), user.OrgID,
		user.VerificationStatus.String(), time.Now(),
	)
	return err
}

// RecordFailedLogin performs the increment-and-maybe-lock in one
// statement, so two concurrent failed attempts both count and the
// threshold cannot be skipped over. A lapsed lock starts a fresh
// window: the failure counts as attempt one, not attempt six.
func (r *userRepo) RecordFailedLogin(ctx context.Context, id string, now time.Time) (*domain.LockoutState, error) {
	query := `UPDATE users
	          SET failed_login_attempts = CASE
	                  WHEN locked_until IS NOT NULL AND locked_until <= $4 THEN 1
	                  ELSE failed_login_attempts + 1
	              END,
	              locked_until = CASE
	                  WHEN locked_until IS NOT NULL AND locked_until <= $4 THEN NULL
	                  WHEN failed_login_attempts + 1 >= $2 THEN $3
	                  ELSE locked_until
	              END,
	              updated_at = $4
	          WHERE id = $1
	          RETURNING failed_login_attempts, locked_until`
	lockAt := now.Add(domain.LockoutDuration)
	var state domain.LockoutState
	err := r.db.QueryRow(ctx, query, id, domain.LockoutThreshold, lockAt, now).
		Scan(&state.FailedAttempts, &state.LockedUntil)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *userRepo) ResetLockout(ctx context.Context, id string) error {
	query := `UPDATE users
	          SET failed_login_attempts = 0, locked_until = NULL, updated_at = $2
	          WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, time.Now())
	return err
}

func (r *userRepo) UpdateVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	query := `UPDATE users SET verification_status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status.String(), time.Now())
	return err
}
