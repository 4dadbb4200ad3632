package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

type VerificationHandler struct {
	verificationUC domain.VerificationUsecase
}

// NewVerificationHandler mounts the applicant side on the general
// protected group and the queue on the review group, which the route
// matrix opens to every reviewer role.
func NewVerificationHandler(protected *gin.RouterGroup, review *gin.RouterGroup, verificationUC domain.VerificationUsecase) {
	handler := &VerificationHandler{verificationUC: verificationUC}

	verification := protected.Group("/verification")
	{
		verification.GET("", handler.OwnStatus)
		verification.POST("", handler.Submit)
	}

	queue := review.Group("/verifications")
	{
		queue.GET("", handler.List)
		queue.POST("/:id/review", handler.Review)
	}
}

type VerificationSubmitRequest struct {
	FullName    string  `json:"full_name" binding:"required,min=2,max=120,valid_name"`
	Phone       *string `json:"phone" binding:"omitempty,valid_phone"`
	CompanyName *string `json:"company_name"`
	WebsiteURL  *string `json:"website_url" binding:"omitempty,url"`
	Intro       *string `json:"intro"`
}

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// Submit godoc
// @Summary      Submit verification details
// @Description  Moves the caller's account to UNDER_REVIEW
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      VerificationSubmitRequest  true  "Details JSON"
// @Success      200   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/verification [post]
func (h *VerificationHandler) Submit(c *gin.Context) {
	var req VerificationSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))
	v := &domain.AccountVerification{
		FullName:    &req.FullName,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		WebsiteURL:  req.WebsiteURL,
		Intro:       req.Intro,
	}
	if err := h.verificationUC.SubmitDetails(c.Request.Context(), userID, v); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Verification submitted", v)
}

func (h *VerificationHandler) OwnStatus(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	v, err := h.verificationUC.GetStatus(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", v)
}

// List godoc
// @Summary      Verification review queue
// @Tags         verification
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        role    query     string  false  "Filter by role"
// @Success      200     {object}  response.Response
// @Router       /api/review/verifications [get]
func (h *VerificationHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	filter := domain.VerificationFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.verificationUC.ListVerifications(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", items, response.Meta{Page: page, Limit: limit, Total: total})
}

// Review godoc
// @Summary      Approve or reject a verification
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      ReviewRequest  true  "Decision JSON"
// @Success      200   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/review/verifications/{id}/review [post]
func (h *VerificationHandler) Review(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid verification id"))
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	reviewerID := c.GetString(string(domain.KeyUserID))
	if err := h.verificationUC.Review(c.Request.Context(), reviewerID, id, req.Approve, req.Notes); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Verification reviewed", nil)
}
