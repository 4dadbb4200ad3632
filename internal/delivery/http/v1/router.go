package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/thinksaga/recruitkart-sub003/config"
	"github.com/thinksaga/recruitkart-sub003/internal/audit"
	"github.com/thinksaga/recruitkart-sub003/internal/authz"
	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/middleware"
	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"
	"github.com/thinksaga/recruitkart-sub003/pkg/validation"
)

type RouterDeps struct {
	AuthUC           domain.AuthUsecase
	JobUC            domain.JobUsecase
	SubmissionUC     domain.SubmissionUsecase
	CompanyProfileUC domain.CompanyProfileUsecase
	CreditUC         domain.CreditUsecase
	VerificationUC   domain.VerificationUsecase
	Codec            *token.Codec
	Accessor         *authz.Accessor
	Engine           *authz.Engine
	Auditor          *audit.Logger
	Redis            *goredis.Client
	Config           *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// CORS must run before anything that can short-circuit the request.
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(middleware.GlobalRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	), deps.Redis))
	r.Use(middleware.CSRFMiddleware())

	// Every request below this point passes through the decision engine.
	r.Use(middleware.Authz(deps.Accessor, deps.Engine, deps.Auditor))

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Credential endpoints are public; logins get the stricter budget.
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	), deps.Redis))
	NewAuthHandler(auth, deps.AuthUC, deps.Codec)

	// Role-gated namespaces. The matrix decides who gets in; handlers and
	// usecases enforce ownership within a namespace.
	tas := api.Group("/tas")
	company := api.Group("/company")
	review := api.Group("/review")
	finance := api.Group("/finance")

	NewJobHandler(tas, company, deps.JobUC)
	NewSubmissionHandler(tas, company, deps.SubmissionUC)
	NewCompanyProfileHandler(api, company, deps.CompanyProfileUC)
	NewCreditHandler(tas, finance, deps.CreditUC)
	NewVerificationHandler(api, review, deps.VerificationUC)

	return r
}
