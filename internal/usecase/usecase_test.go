package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/internal/usecase"
)

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) RecordFailedLogin(ctx context.Context, id string, now time.Time) (*domain.LockoutState, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LockoutState), args.Error(1)
}
func (m *MockUserRepo) ResetLockout(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) UpdateVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	return m.Called(ctx, sub).Error(0)
}
func (m *MockSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) UpdateStage(ctx context.Context, id, stage, decidedBy string) error {
	return m.Called(ctx, id, stage, decidedBy).Error(0)
}
func (m *MockSubmissionRepo) AttachCV(ctx context.Context, id, cvKey string) error {
	return m.Called(ctx, id, cvKey).Error(0)
}
func (m *MockSubmissionRepo) List(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Get(1).(int64), args.Error(2)
}

type MockCreditRepo struct {
	mock.Mock
}

func (m *MockCreditRepo) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditBalance), args.Error(1)
}
func (m *MockCreditRepo) Debit(ctx context.Context, userID string, amount int, entryType, reference string) error {
	return m.Called(ctx, userID, amount, entryType, reference).Error(0)
}
func (m *MockCreditRepo) Credit(ctx context.Context, userID string, amount int, entryType, reference string) error {
	return m.Called(ctx, userID, amount, entryType, reference).Error(0)
}
func (m *MockCreditRepo) ListLedger(ctx context.Context, userID string, page, limit int) ([]domain.LedgerEntry, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int64), args.Error(2)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, userID string, amountCents int64) (string, error) {
	args := m.Called(ctx, userID, amountCents)
	return args.String(0), args.Error(1)
}

type MockCVStore struct {
	mock.Mock
}

func (m *MockCVStore) UploadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
func (m *MockCVStore) DownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// identityCtx builds a request context the way the authorization
// middleware does after a successful decision.
func identityCtx(userID string, role domain.Role, orgID string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	ctx = context.WithValue(ctx, domain.KeyUserRole, role)
	if orgID != "" {
		ctx = context.WithValue(ctx, domain.KeyUserOrgID, orgID)
	}
	return ctx
}

func TestSubmitCandidateDebitsCredits(t *testing.T) {
	openJob := &domain.Job{ID: "job1", OrgID: "org1", Status: domain.JobStatusOpen, CreditFee: 3}
	ctx := identityCtx("tas1", domain.RoleTAS, "")

	t.Run("Should debit the job fee before creating the submission", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		jobRepo := new(MockJobRepo)
		creditRepo := new(MockCreditRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(openJob, nil)
		creditRepo.On("Debit", mock.Anything, "tas1", 3, domain.LedgerSubmission, mock.Anything).Return(nil)
		subRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewSubmissionUsecase(subRepo, jobRepo, creditRepo, nil)
		sub := &domain.Submission{JobID: "job1", CandidateName: "Jane Dev", CandidateEmail: "jane@example.com"}
		err := uc.SubmitCandidate(ctx, sub)
		assert.NoError(t, err)
		assert.Equal(t, "org1", sub.OrgID)
		assert.Equal(t, "tas1", sub.TASID)
		assert.Equal(t, domain.StageSubmitted, sub.Stage)
		assert.Equal(t, 3, sub.CreditsCharged)
		creditRepo.AssertExpectations(t)
		subRepo.AssertExpectations(t)
	})

	t.Run("Should fail with 402 and no submission when balance is too low", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		jobRepo := new(MockJobRepo)
		creditRepo := new(MockCreditRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(openJob, nil)
		creditRepo.On("Debit", mock.Anything, "tas1", 3, domain.LedgerSubmission, mock.Anything).Return(domain.ErrInsufficientCredits)

		uc := usecase.NewSubmissionUsecase(subRepo, jobRepo, creditRepo, nil)
		err := uc.SubmitCandidate(ctx, &domain.Submission{JobID: "job1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient credits")
		subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should refund the fee when the insert fails", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		jobRepo := new(MockJobRepo)
		creditRepo := new(MockCreditRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(openJob, nil)
		creditRepo.On("Debit", mock.Anything, "tas1", 3, domain.LedgerSubmission, mock.Anything).Return(nil)
		subRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
		creditRepo.On("Credit", mock.Anything, "tas1", 3, domain.LedgerRefund, mock.Anything).Return(nil)

		uc := usecase.NewSubmissionUsecase(subRepo, jobRepo, creditRepo, nil)
		err := uc.SubmitCandidate(ctx, &domain.Submission{JobID: "job1"})
		assert.Error(t, err)
		creditRepo.AssertExpectations(t)
	})

	t.Run("Should reject non-TAS callers", func(t *testing.T) {
		uc := usecase.NewSubmissionUsecase(new(MockSubmissionRepo), new(MockJobRepo), new(MockCreditRepo), nil)
		err := uc.SubmitCandidate(identityCtx("c1", domain.RoleCandidate, ""), &domain.Submission{JobID: "job1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "talent acquisition")
	})

	t.Run("Should reject submissions to a closed job", func(t *testing.T) {
		jobRepo := new(MockJobRepo)
		jobRepo.On("GetByID", mock.Anything, "job1").Return(&domain.Job{ID: "job1", Status: domain.JobStatusClosed}, nil)
		uc := usecase.NewSubmissionUsecase(new(MockSubmissionRepo), jobRepo, new(MockCreditRepo), nil)
		err := uc.SubmitCandidate(ctx, &domain.Submission{JobID: "job1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no longer accepting")
	})
}

func TestAdvanceStage(t *testing.T) {
	t.Run("Interviewer can move SCREENING to INTERVIEW", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageScreening}, nil)
		subRepo.On("UpdateStage", mock.Anything, "sub1", domain.StageInterview, "iv1").Return(nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("iv1", domain.RoleInterviewer, "org1"), "sub1", false, "")
		assert.NoError(t, err)
		subRepo.AssertExpectations(t)
	})

	t.Run("Interviewer cannot make the hiring decision", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageOffer}, nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("iv1", domain.RoleInterviewer, "org1"), "sub1", false, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decision maker")
	})

	t.Run("Decision maker can hire from OFFER", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageOffer}, nil)
		subRepo.On("UpdateStage", mock.Anything, "sub1", domain.StageHired, "dm1").Return(nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("dm1", domain.RoleDecisionMaker, "org1"), "sub1", false, "")
		assert.NoError(t, err)
	})

	t.Run("Rejection is allowed from any live stage", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageSubmitted}, nil)
		subRepo.On("UpdateStage", mock.Anything, "sub1", domain.StageRejected, "iv1").Return(nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("iv1", domain.RoleInterviewer, "org1"), "sub1", true, "not a fit")
		assert.NoError(t, err)
	})

	t.Run("Reviewer from another org is rejected", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageScreening}, nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("iv2", domain.RoleInterviewer, "org2"), "sub1", false, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "another organization")
	})

	t.Run("Decided submissions are immutable", func(t *testing.T) {
		subRepo := new(MockSubmissionRepo)
		subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", Stage: domain.StageHired}, nil)

		uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)
		err := uc.AdvanceStage(identityCtx("dm1", domain.RoleDecisionMaker, "org1"), "sub1", true, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already decided")
	})
}

func TestSubmissionIDOR(t *testing.T) {
	subRepo := new(MockSubmissionRepo)
	subRepo.On("GetByID", mock.Anything, "sub1").Return(&domain.Submission{ID: "sub1", OrgID: "org1", TASID: "tas1", Stage: domain.StageSubmitted}, nil)
	uc := usecase.NewSubmissionUsecase(subRepo, nil, nil, nil)

	t.Run("Submitting TAS can read their own submission", func(t *testing.T) {
		_, err := uc.GetSubmission(identityCtx("tas1", domain.RoleTAS, ""), "sub1")
		assert.NoError(t, err)
	})

	t.Run("Another TAS cannot", func(t *testing.T) {
		_, err := uc.GetSubmission(identityCtx("tas2", domain.RoleTAS, ""), "sub1")
		assert.Error(t, err)
	})

	t.Run("Org staff of the owning org can", func(t *testing.T) {
		_, err := uc.GetSubmission(identityCtx("m1", domain.RoleCompanyMember, "org1"), "sub1")
		assert.NoError(t, err)
	})

	t.Run("Org staff of another org cannot", func(t *testing.T) {
		_, err := uc.GetSubmission(identityCtx("m2", domain.RoleCompanyMember, "org2"), "sub1")
		assert.Error(t, err)
	})

	t.Run("TAS listing is forced to their own submissions", func(t *testing.T) {
		listRepo := new(MockSubmissionRepo)
		listRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.SubmissionFilter) bool {
			return f.TASID == "tas1"
		})).Return([]domain.Submission{}, int64(0), nil)

		listUC := usecase.NewSubmissionUsecase(listRepo, nil, nil, nil)
		_, _, err := listUC.ListSubmissions(identityCtx("tas1", domain.RoleTAS, ""), domain.SubmissionFilter{TASID: "tas9"})
		assert.NoError(t, err)
		listRepo.AssertExpectations(t)
	})
}

func TestCreditTopUp(t *testing.T) {
	t.Run("Charges the gateway and credits the balance", func(t *testing.T) {
		creditRepo := new(MockCreditRepo)
		gateway := new(MockGateway)
		gateway.On("Charge", mock.Anything, "tas1", int64(10*500)).Return("ch_123", nil)
		creditRepo.On("Credit", mock.Anything, "tas1", 10, domain.LedgerTopUp, "ch_123").Return(nil)
		creditRepo.On("GetBalance", mock.Anything, "tas1").Return(&domain.CreditBalance{UserID: "tas1", Balance: 10}, nil)

		uc := usecase.NewCreditUsecase(creditRepo, gateway)
		bal, err := uc.TopUp(identityCtx("tas1", domain.RoleTAS, ""), "tas1", 10)
		assert.NoError(t, err)
		assert.Equal(t, 10, bal.Balance)
		gateway.AssertExpectations(t)
		creditRepo.AssertExpectations(t)
	})

	t.Run("Declined charge leaves the balance untouched", func(t *testing.T) {
		creditRepo := new(MockCreditRepo)
		gateway := new(MockGateway)
		gateway.On("Charge", mock.Anything, "tas1", mock.Anything).Return("", errors.New("card declined"))

		uc := usecase.NewCreditUsecase(creditRepo, gateway)
		_, err := uc.TopUp(identityCtx("tas1", domain.RoleTAS, ""), "tas1", 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "declined")
		creditRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cannot top up another user's balance", func(t *testing.T) {
		uc := usecase.NewCreditUsecase(new(MockCreditRepo), new(MockGateway))
		_, err := uc.TopUp(identityCtx("tas1", domain.RoleTAS, ""), "tas2", 5)
		assert.Error(t, err)
	})

	t.Run("Finance staff can view any balance, others cannot", func(t *testing.T) {
		creditRepo := new(MockCreditRepo)
		creditRepo.On("GetBalance", mock.Anything, "tas1").Return(&domain.CreditBalance{UserID: "tas1", Balance: 2}, nil)
		uc := usecase.NewCreditUsecase(creditRepo, new(MockGateway))

		_, err := uc.GetBalance(identityCtx("fc1", domain.RoleFinancialController, ""), "tas1")
		assert.NoError(t, err)

		_, err = uc.GetBalance(identityCtx("tas2", domain.RoleTAS, ""), "tas1")
		assert.Error(t, err)
	})
}
