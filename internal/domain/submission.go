package domain

import (
	"context"
	"time"
)

// Submission stages. A submission moves forward through the pipeline one
// stage at a time; REJECTED is terminal and reachable from any stage.
const (
	StageSubmitted = "SUBMITTED"
	StageScreening = "SCREENING"
	StageInterview = "INTERVIEW"
	StageOffer     = "OFFER"
	StageHired     = "HIRED"
	StageRejected  = "REJECTED"
)

// NextStage returns the stage that follows s in the pipeline, or "" when s
// is terminal.
func NextStage(s string) string {
	switch s {
	case StageSubmitted:
		return StageScreening
	case StageScreening:
		return StageInterview
	case StageInterview:
		return StageOffer
	case StageOffer:
		return StageHired
	}
	return ""
}

// Submission is a candidate put forward by a TAS for a specific job, paid
// for with credits at submission time.
type Submission struct {
	ID             string     `json:"id"`
	JobID          string     `json:"job_id" validate:"required"`
	OrgID          string     `json:"org_id"`
	TASID          string     `json:"tas_id"`
	CandidateName  string     `json:"candidate_name" validate:"required,min=2,max=120"`
	CandidateEmail string     `json:"candidate_email" validate:"required,email"`
	CVKey          *string    `json:"cv_key,omitempty"` // object-storage key of the uploaded CV
	Stage          string     `json:"stage"`
	CreditsCharged int        `json:"credits_charged"`
	Notes          *string    `json:"notes,omitempty"`
	DecidedBy      *string    `json:"decided_by,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type SubmissionFilter struct {
	JobID string `json:"job_id,omitempty"`
	OrgID string `json:"org_id,omitempty"`
	TASID string `json:"tas_id,omitempty"`
	Stage string `json:"stage,omitempty"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	UpdateStage(ctx context.Context, id, stage, decidedBy string) error
	AttachCV(ctx context.Context, id, cvKey string) error
	List(ctx context.Context, filter SubmissionFilter) ([]Submission, int64, error)
}

type SubmissionUsecase interface {
	// SubmitCandidate debits the TAS credit balance by the job's fee and
	// creates the submission. Fails without side effects if the balance
	// is insufficient.
	SubmitCandidate(ctx context.Context, sub *Submission) error
	GetSubmission(ctx context.Context, id string) (*Submission, error)
	// AdvanceStage moves a submission to the next pipeline stage, or to
	// REJECTED. Only interviewers and decision-makers of the owning org
	// may call it; OFFER -> HIRED is reserved for decision-makers.
	AdvanceStage(ctx context.Context, id string, reject bool, notes string) error
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, int64, error)
	// CVUploadURL returns a presigned PUT URL the TAS uploads the CV to,
	// and records the object key on the submission.
	CVUploadURL(ctx context.Context, submissionID, filename string) (string, error)
	// CVDownloadURL returns a presigned GET URL for org-side reviewers.
	CVDownloadURL(ctx context.Context, submissionID string) (string, error)
}
