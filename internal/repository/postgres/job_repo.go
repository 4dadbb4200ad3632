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

const jobColumns = `id, org_id, title, description, location, salary_min, salary_max,
	credit_fee, status, created_by, created_at, updated_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.OrgID, &j.Title, &j.Description, &j.Location, &j.SalaryMin, &j.SalaryMax,
		&j.CreditFee, &j.Status, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.OrgID, job.Title, job.Description, job.Location, job.SalaryMin, job.SalaryMax,
		job.CreditFee, job.Status, job.CreatedBy, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Job not found")
	}
	return job, err
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs
	          SET title = $2, description = $3, location = $4, salary_min = $5, salary_max = $6,
	              credit_fee = $7, status = $8, updated_at = $9
	          WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Location, job.SalaryMin, job.SalaryMax,
		job.CreditFee, job.Status, time.Now(),
	)
	return err
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1
	if filter.OrgID != "" {
		where += fmt.Sprintf(" AND org_id = $%d", idx)
		args = append(args, filter.OrgID)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+jobColumns+` FROM jobs`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, total, rows.Err()
}
