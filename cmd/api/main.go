package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thinksaga/recruitkart-sub003/config"
	"github.com/thinksaga/recruitkart-sub003/internal/audit"
	"github.com/thinksaga/recruitkart-sub003/internal/authz"
	v1 "github.com/thinksaga/recruitkart-sub003/internal/delivery/http/v1"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/internal/repository/postgres"
	"github.com/thinksaga/recruitkart-sub003/internal/usecase"
	"github.com/thinksaga/recruitkart-sub003/pkg/database"
	"github.com/thinksaga/recruitkart-sub003/pkg/email"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
	"github.com/thinksaga/recruitkart-sub003/pkg/payments"
	"github.com/thinksaga/recruitkart-sub003/pkg/redis"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
	"github.com/thinksaga/recruitkart-sub003/pkg/storage"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"

	goredis "github.com/redis/go-redis/v9"
)

// @title           RecruitKart API
// @version         1.0
// @description     Multi-role recruitment marketplace backend.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config. A missing JWT secret is fatal: the process must not
	// come up signing tokens with an empty key.
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting recruitkart backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (session cache, revocation watermarks, rate limits).
	// The server still comes up without it; the session cache fails over
	// to token claims and rate limiting falls back to memory.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(redis.Config{
			URL:      cfg.RedisURL,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, continuing degraded", "error", err)
			redisClient = nil
		}
	}
	sessions := session.NewCache(redisClient, token.TokenTTL)

	// 5. Token codec and authorization engine
	codec, err := token.New(cfg.JWTSecret)
	if err != nil {
		logger.Log.Error("Failed to build token codec", "error", err)
		os.Exit(1)
	}
	accessor := authz.NewAccessor(codec, sessions)
	engine := authz.NewEngine(sessions)

	// 6. CV storage (optional in development)
	var cvStore *storage.CVStore
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewS3Client(context.Background(), storage.Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Error("Failed to set up CV storage", "error", err)
			os.Exit(1)
		}
		cvStore = storage.NewCVStore(s3Client, cfg.S3Bucket)
	} else {
		logger.Log.Warn("S3_BUCKET not configured, CV uploads disabled")
	}

	// 7. Email
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("SMTP not fully configured, verification emails disabled")
	}

	// 8. Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyProfileRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	submissionRepo := postgres.NewSubmissionRepository(dbPool)
	creditRepo := postgres.NewCreditRepository(dbPool)
	verificationRepo := postgres.NewVerificationRepository(dbPool)

	// 9. Audit trail
	auditor := audit.New(audit.NewRepository(dbPool).PersistEvent)

	// 10. Usecases
	authUC := usecase.NewAuthUsecase(userRepo, sessions, auditor)
	companyUC := usecase.NewCompanyProfileUsecase(companyRepo, userRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo)
	creditUC := usecase.NewCreditUsecase(creditRepo, payments.NewStubGateway())
	verificationUC := usecase.NewVerificationUsecase(verificationRepo, userRepo, sessions, emailService, auditor)

	// A nil *CVStore must stay a nil interface in the usecase.
	var cvStorage domain.CVStorage
	if cvStore != nil {
		cvStorage = cvStore
	}
	submissionUC := usecase.NewSubmissionUsecase(submissionRepo, jobRepo, creditRepo, cvStorage)

	// 11. Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:           authUC,
		JobUC:            jobUC,
		SubmissionUC:     submissionUC,
		CompanyProfileUC: companyUC,
		CreditUC:         creditUC,
		VerificationUC:   verificationUC,
		Codec:            codec,
		Accessor:         accessor,
		Engine:           engine,
		Auditor:          auditor,
		Redis:            redisClient,
		Config:           cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
