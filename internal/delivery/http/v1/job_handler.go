package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// NewJobHandler mounts the marketplace view for specialists and the
// management surface for company staff. The route matrix already gates
// the groups by role; handlers re-check ownership in the usecase.
func NewJobHandler(tas *gin.RouterGroup, company *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	tasJobs := tas.Group("/jobs")
	{
		tasJobs.GET("", handler.ListOpen)
		tasJobs.GET("/:id", handler.Get)
	}

	companyJobs := company.Group("/jobs")
	{
		companyJobs.GET("", handler.ListCompany)
		companyJobs.POST("", handler.Create)
		companyJobs.GET("/:id", handler.Get)
		companyJobs.PUT("/:id", handler.Update)
		companyJobs.POST("/:id/close", handler.Close)
	}
}

type JobRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=150,no_emoji"`
	Description string  `json:"description" binding:"required"`
	Location    *string `json:"location"`
	SalaryMin   *int64  `json:"salary_min"`
	SalaryMax   *int64  `json:"salary_max"`
	CreditFee   int     `json:"credit_fee" binding:"omitempty,gte=0"`
}

// ListOpen godoc
// @Summary      Open jobs across the marketplace
// @Tags         jobs
// @Produce      json
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /api/tas/jobs [get]
func (h *JobHandler) ListOpen(c *gin.Context) {
	page, limit := pagination(c)
	jobs, total, err := h.jobUC.ListOpenJobs(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", jobs, response.Meta{Page: page, Limit: limit, Total: total})
}

// ListCompany godoc
// @Summary      The caller's organization's postings
// @Tags         jobs
// @Produce      json
// @Param        status  query     string  false  "OPEN or CLOSED"
// @Success      200     {object}  response.Response
// @Router       /api/company/jobs [get]
func (h *JobHandler) ListCompany(c *gin.Context) {
	page, limit := pagination(c)
	filter := domain.JobFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	jobs, total, err := h.jobUC.ListCompanyJobs(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", jobs, response.Meta{Page: page, Limit: limit, Total: total})
}

// Create godoc
// @Summary      Post a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/company/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	job := &domain.Job{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		CreditFee:   req.CreditFee,
	}
	if err := h.jobUC.CreateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job posted", job)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", job)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	job := &domain.Job{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		CreditFee:   req.CreditFee,
	}
	if err := h.jobUC.UpdateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

func (h *JobHandler) Close(c *gin.Context) {
	if err := h.jobUC.CloseJob(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job closed", nil)
}

// pagination reads page/limit query params with clamped defaults.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
