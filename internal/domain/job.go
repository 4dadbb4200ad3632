package domain

import (
	"context"
	"time"
)

// Job posting status
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

type Job struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Title       string    `json:"title" validate:"required,min=3,max=150"`
	Description string    `json:"description" validate:"required"`
	Location    *string   `json:"location,omitempty"`
	SalaryMin   *int64    `json:"salary_min,omitempty"`
	SalaryMax   *int64    `json:"salary_max,omitempty"`
	CreditFee   int       `json:"credit_fee"` // credits a TAS pays to submit a candidate
	Status      string    `json:"status"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type JobFilter struct {
	OrgID  string `json:"org_id,omitempty"`
	Status string `json:"status,omitempty"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	List(ctx context.Context, filter JobFilter) ([]Job, int64, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	UpdateJob(ctx context.Context, job *Job) error
	CloseJob(ctx context.Context, id string) error
	ListOpenJobs(ctx context.Context, page, limit int) ([]Job, int64, error)
	ListCompanyJobs(ctx context.Context, filter JobFilter) ([]Job, int64, error)
}
