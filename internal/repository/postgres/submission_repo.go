package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

const submissionColumns = `id, job_id, org_id, tas_id, candidate_name, candidate_email, cv_key,
	stage, credits_charged, notes, decided_by, decided_at, created_at, updated_at`

type submissionRepo struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) domain.SubmissionRepository {
	return &submissionRepo{db: db}
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var s domain.Submission
	err := row.Scan(
		&s.ID, &s.JobID, &s.OrgID, &s.TASID, &s.CandidateName, &s.CandidateEmail, &s.CVKey,
		&s.Stage, &s.CreditsCharged, &s.Notes, &s.DecidedBy, &s.DecidedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	query := `INSERT INTO submissions (` + submissionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.JobID, sub.OrgID, sub.TASID, sub.CandidateName, sub.CandidateEmail, sub.CVKey,
		sub.Stage, sub.CreditsCharged, sub.Notes, sub.DecidedBy, sub.DecidedAt, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("This candidate has already been submitted for this job")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Submission not found")
	}
	return sub, err
}

func (r *submissionRepo) UpdateStage(ctx context.Context, id, stage, decidedBy string) error {
	query := `UPDATE submissions
	          SET stage = $2, decided_by = $3, decided_at = $4, updated_at = $4
	          WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, stage, decidedBy, time.Now())
	return err
}

func (r *submissionRepo) AttachCV(ctx context.Context, id, cvKey string) error {
	query := `UPDATE submissions SET cv_key = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, cvKey, time.Now())
	return err
}

func (r *submissionRepo) List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1
	if filter.JobID != "" {
		where += fmt.Sprintf(" AND job_id = $%d", idx)
		args = append(args, filter.JobID)
		idx++
	}
	if filter.OrgID != "" {
		where += fmt.Sprintf(" AND org_id = $%d", idx)
		args = append(args, filter.OrgID)
		idx++
	}
	if filter.TASID != "" {
		where += fmt.Sprintf(" AND tas_id = $%d", idx)
		args = append(args, filter.TASID)
		idx++
	}
	if filter.Stage != "" {
		where += fmt.Sprintf(" AND stage = $%d", idx)
		args = append(args, filter.Stage)
		idx++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+submissionColumns+` FROM submissions`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, *sub)
	}
	return subs, total, rows.Err()
}
