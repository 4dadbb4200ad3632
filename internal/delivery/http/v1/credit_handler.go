package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
)

type CreditHandler struct {
	creditUC domain.CreditUsecase
}

// NewCreditHandler mounts the self-service wallet under the TAS group and
// the reconciliation view under the finance group.
func NewCreditHandler(tas *gin.RouterGroup, finance *gin.RouterGroup, creditUC domain.CreditUsecase) {
	handler := &CreditHandler{creditUC: creditUC}

	wallet := tas.Group("/credits")
	{
		wallet.GET("", handler.OwnBalance)
		wallet.POST("/topup", handler.TopUp)
		wallet.GET("/ledger", handler.OwnLedger)
	}

	finCredits := finance.Group("/credits")
	{
		finCredits.GET("/:userID", handler.Balance)
		finCredits.GET("/:userID/ledger", handler.Ledger)
	}
}

type TopUpRequest struct {
	Credits int `json:"credits" binding:"required,min=1,max=1000"`
}

func (h *CreditHandler) OwnBalance(c *gin.Context) {
	h.balance(c, c.GetString(string(domain.KeyUserID)))
}

func (h *CreditHandler) Balance(c *gin.Context) {
	h.balance(c, c.Param("userID"))
}

func (h *CreditHandler) balance(c *gin.Context, userID string) {
	bal, err := h.creditUC.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", bal)
}

// TopUp godoc
// @Summary      Buy submission credits
// @Description  Charges the payment gateway and credits the caller's balance
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        body  body      TopUpRequest  true  "Top-up JSON"
// @Success      200   {object}  response.Response
// @Failure      402   {object}  response.Response
// @Router       /api/tas/credits/topup [post]
func (h *CreditHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))
	bal, err := h.creditUC.TopUp(c.Request.Context(), userID, req.Credits)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Credits added", bal)
}

func (h *CreditHandler) OwnLedger(c *gin.Context) {
	h.ledger(c, c.GetString(string(domain.KeyUserID)))
}

func (h *CreditHandler) Ledger(c *gin.Context) {
	h.ledger(c, c.Param("userID"))
}

func (h *CreditHandler) ledger(c *gin.Context, userID string) {
	page, limit := pagination(c)
	entries, total, err := h.creditUC.ListLedger(c.Request.Context(), userID, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Paginated(c, http.StatusOK, "OK", entries, response.Meta{Page: page, Limit: limit, Total: total})
}
