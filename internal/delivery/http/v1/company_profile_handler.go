package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

type CompanyProfileHandler struct {
	companyUC domain.CompanyProfileUsecase
}

func NewCompanyProfileHandler(protected *gin.RouterGroup, company *gin.RouterGroup, companyUC domain.CompanyProfileUsecase) {
	handler := &CompanyProfileHandler{companyUC: companyUC}

	// Directory browsing is public; the decision engine lets these two
	// through without a session.
	protected.GET("/companies", handler.List)
	protected.GET("/companies/:id", handler.Get)

	profile := company.Group("/profile")
	{
		profile.POST("", handler.Create)
		profile.PUT("/:id", handler.Update)
	}
}

type CompanyProfileRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=120,valid_name"`
	Website   *string `json:"website" binding:"omitempty,url"`
	About     *string `json:"about"`
	LogoURL   *string `json:"logo_url"`
	CreditFee int     `json:"credit_fee" binding:"omitempty,gte=0"`
}

func (r *CompanyProfileRequest) toDomain() *domain.CompanyProfile {
	return &domain.CompanyProfile{
		Name:      r.Name,
		Website:   r.Website,
		About:     r.About,
		LogoURL:   r.LogoURL,
		CreditFee: r.CreditFee,
	}
}

// Create godoc
// @Summary      Create the caller's company profile
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      CompanyProfileRequest  true  "Profile JSON"
// @Success      201   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/company/profile [post]
func (h *CompanyProfileHandler) Create(c *gin.Context) {
	var req CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	profile := req.toDomain()
	if err := h.companyUC.CreateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company profile created", profile)
}

func (h *CompanyProfileHandler) Update(c *gin.Context) {
	var req CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	profile := req.toDomain()
	profile.ID = c.Param("id")
	if err := h.companyUC.UpdateProfile(c.Request.Context(), profile); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile updated", profile)
}

func (h *CompanyProfileHandler) Get(c *gin.Context) {
	profile, err := h.companyUC.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", profile)
}

func (h *CompanyProfileHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	profiles, total, err := h.companyUC.ListProfiles(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", profiles, response.Meta{Page: page, Limit: limit, Total: total})
}
