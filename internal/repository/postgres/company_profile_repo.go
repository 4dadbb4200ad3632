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

type companyProfileRepo struct {
	db *pgxpool.Pool
}

func NewCompanyProfileRepository(db *pgxpool.Pool) domain.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

func (r *companyProfileRepo) Create(ctx context.Context, profile *domain.CompanyProfile) error {
	query := `INSERT INTO company_profiles (id, name, website, about, logo_url, credit_fee, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Name, profile.Website, profile.About,
		profile.LogoURL, profile.CreditFee, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Company with this name already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *companyProfileRepo) GetByID(ctx context.Context, id string) (*domain.CompanyProfile, error) {
	query := `SELECT id, name, website, about, logo_url, credit_fee, created_at, updated_at
	          FROM company_profiles WHERE id = $1`
	var p domain.CompanyProfile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Website, &p.About, &p.LogoURL, &p.CreditFee, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Company profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *companyProfileRepo) Update(ctx context.Context, profile *domain.CompanyProfile) error {
	query := `UPDATE company_profiles
	          SET name = $2, website = $3, about = $4, logo_url = $5, credit_fee = $6, updated_at = $7
	          WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Name, profile.Website, profile.About,
		profile.LogoURL, profile.CreditFee, time.Now(),
	)
	return err
}

func (r *companyProfileRepo) List(ctx context.Context, page, limit int) ([]domain.CompanyProfile, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM company_profiles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, website, about, logo_url, credit_fee, created_at, updated_at
	          FROM company_profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []domain.CompanyProfile
	for rows.Next() {
		var p domain.CompanyProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Website, &p.About, &p.LogoURL, &p.CreditFee, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}
