package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

const verificationColumns = `v.id, v.user_id, u.email, u.role, v.status, v.full_name, v.phone,
	v.company_name, v.website_url, v.intro, v.submitted_at, v.reviewed_at, v.reviewed_by,
	v.notes, v.created_at, v.updated_at`

type verificationRepo struct {
	db *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) domain.VerificationRepository {
	return &verificationRepo{db: db}
}

func scanVerification(row pgx.Row) (*domain.AccountVerification, error) {
	var v domain.AccountVerification
	var role, status string
	err := row.Scan(
		&v.ID, &v.UserID, &v.UserEmail, &role, &status, &v.FullName, &v.Phone,
		&v.CompanyName, &v.WebsiteURL, &v.Intro, &v.SubmittedAt, &v.ReviewedAt, &v.ReviewedBy,
		&v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Role = domain.Role(role)
	v.Status = domain.VerificationStatus(status)
	return &v, nil
}

func (r *verificationRepo) GetByUserID(ctx context.Context, userID string) (*domain.AccountVerification, error) {
	query := `SELECT ` + verificationColumns + `
	          FROM account_verifications v JOIN users u ON u.id = v.user_id
	          WHERE v.user_id = $1`
	v, err := scanVerification(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Verification record not found")
	}
	return v, err
}

func (r *verificationRepo) GetByID(ctx context.Context, id int64) (*domain.AccountVerification, error) {
	query := `SELECT ` + verificationColumns + `
	          FROM account_verifications v JOIN users u ON u.id = v.user_id
	          WHERE v.id = $1`
	v, err := scanVerification(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Verification record not found")
	}
	return v, err
}

func (r *verificationRepo) List(ctx context.Context, filter domain.VerificationFilter) ([]domain.AccountVerification, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if filter.Role != "" {
		where += fmt.Sprintf(` AND u.role = $%d`, idx)
		args = append(args, filter.Role)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(` AND v.status = $%d`, idx)
		args = append(args, filter.Status)
		idx++
	}

	countQuery := `SELECT COUNT(*) FROM account_verifications v JOIN users u ON u.id = v.user_id` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + verificationColumns + `
	          FROM account_verifications v JOIN users u ON u.id = v.user_id` + where +
		fmt.Sprintf(` ORDER BY v.submitted_at ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []domain.AccountVerification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *v)
	}
	return list, total, rows.Err()
}

func (r *verificationRepo) Upsert(ctx context.Context, v *domain.AccountVerification) (int64, error) {
	query := `INSERT INTO account_verifications
	              (user_id, status, full_name, phone, company_name, website_url, intro,
	               submitted_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $8)
	          ON CONFLICT (user_id) DO UPDATE SET
	              status = $2, full_name = $3, phone = $4, company_name = $5,
	              website_url = $6, intro = $7, submitted_at = $8, updated_at = $8
	          RETURNING id`
	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx, query,
		v.UserID, v.Status.String(), v.FullName, v.Phone, v.CompanyName,
		v.WebsiteURL, v.Intro, now,
	).Scan(&id)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return id, nil
}

func (r *verificationRepo) UpdateStatus(ctx context.Context, id int64, status domain.VerificationStatus, reviewedBy, notes string) error {
	query := `UPDATE account_verifications
	          SET status = $2, reviewed_by = $3, reviewed_at = $4, notes = $5, updated_at = $4
	          WHERE id = $1`
	var n *string
	if notes != "" {
		n = &notes
	}
	_, err := r.db.Exec(ctx, query, id, status.String(), reviewedBy, time.Now(), n)
	return err
}
