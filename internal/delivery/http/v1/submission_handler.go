package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

type SubmissionHandler struct {
	subUC domain.SubmissionUsecase
}

func NewSubmissionHandler(tas *gin.RouterGroup, company *gin.RouterGroup, subUC domain.SubmissionUsecase) {
	handler := &SubmissionHandler{subUC: subUC}

	tasSubs := tas.Group("/submissions")
	{
		tasSubs.POST("", handler.Submit)
		tasSubs.GET("", handler.List)
		tasSubs.GET("/:id", handler.Get)
		tasSubs.POST("/:id/cv", handler.CVUpload)
	}

	companySubs := company.Group("/submissions")
	{
		companySubs.GET("", handler.List)
		companySubs.GET("/:id", handler.Get)
		companySubs.POST("/:id/advance", handler.Advance)
		companySubs.GET("/:id/cv", handler.CVDownload)
	}
}

type SubmitRequest struct {
	JobID          string  `json:"job_id" binding:"required"`
	CandidateName  string  `json:"candidate_name" binding:"required,min=2,max=120,valid_name"`
	CandidateEmail string  `json:"candidate_email" binding:"required,email"`
	Notes          *string `json:"notes"`
}

type AdvanceRequest struct {
	Reject bool   `json:"reject"`
	Notes  string `json:"notes"`
}

type CVUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// Submit godoc
// @Summary      Submit a candidate for a job
// @Description  Debits the job's credit fee from the caller's balance
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      SubmitRequest  true  "Submission JSON"
// @Success      201   {object}  response.Response
// @Failure      402   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/tas/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	sub := &domain.Submission{
		JobID:          req.JobID,
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Notes:          req.Notes,
	}
	if err := h.subUC.SubmitCandidate(c.Request.Context(), sub); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate submitted", sub)
}

// List godoc
// @Summary      List submissions visible to the caller
// @Tags         submissions
// @Produce      json
// @Param        job_id  query     string  false  "Filter by job"
// @Param        stage   query     string  false  "Filter by stage"
// @Success      200     {object}  response.Response
// @Router       /api/company/submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	filter := domain.SubmissionFilter{
		JobID: c.Query("job_id"),
		Stage: c.Query("stage"),
		Page:  page,
		Limit: limit,
	}
	subs, total, err := h.subUC.ListSubmissions(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", subs, response.Meta{Page: page, Limit: limit, Total: total})
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	sub, err := h.subUC.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", sub)
}

// Advance godoc
// @Summary      Move a submission through the pipeline
// @Description  Advances one stage, or rejects. Hiring requires a decision maker.
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      AdvanceRequest  true  "Decision JSON"
// @Success      200   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/company/submissions/{id}/advance [post]
func (h *SubmissionHandler) Advance(c *gin.Context) {
	var req AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	if err := h.subUC.AdvanceStage(c.Request.Context(), c.Param("id"), req.Reject, req.Notes); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Submission updated", nil)
}

// CVUpload godoc
// @Summary      Presigned upload URL for the candidate CV
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body  body      CVUploadRequest  true  "Upload JSON"
// @Success      200   {object}  response.Response
// @Router       /api/tas/submissions/{id}/cv [post]
func (h *SubmissionHandler) CVUpload(c *gin.Context) {
	var req CVUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	url, err := h.subUC.CVUploadURL(c.Request.Context(), c.Param("id"), req.Filename)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"upload_url": url})
}

func (h *SubmissionHandler) CVDownload(c *gin.Context) {
	url, err := h.subUC.CVDownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"download_url": url})
}
