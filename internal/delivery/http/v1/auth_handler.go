package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/middleware"
	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
	"github.com/thinksaga/recruitkart-sub003/pkg/token"
	"github.com/thinksaga/recruitkart-sub003/pkg/validation"
)

// bindError maps request binding failures to a 400 with a readable
// message per failed field.
func bindError(err error) *apperror.AppError {
	return apperror.BadRequest(validation.Message(err))
}

type AuthHandler struct {
	authUC domain.AuthUsecase
	codec  *token.Codec
}

func NewAuthHandler(auth *gin.RouterGroup, authUC domain.AuthUsecase, codec *token.Codec) {
	handler := &AuthHandler{authUC: authUC, codec: codec}

	auth.POST("/signup", handler.Signup)
	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout)
	auth.GET("/me", handler.Me)
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// sessionUser is the identity payload returned by login and /me.
type sessionUser struct {
	ID                 string                    `json:"id"`
	Email              string                    `json:"email"`
	Role               domain.Role               `json:"role"`
	OrgID              *string                   `json:"org_id,omitempty"`
	VerificationStatus domain.VerificationStatus `json:"verification_status"`
}

func toSessionUser(u *domain.User) sessionUser {
	return sessionUser{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		OrgID:              u.OrgID,
		VerificationStatus: u.VerificationStatus,
	}
}

// Signup godoc
// @Summary      Register a new account
// @Description  Self-service signup for TAS, candidate and company admin roles
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignupRequest  true  "Signup JSON"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.Error(apperror.BadRequest("Unknown role"))
		return
	}

	user, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created", toSessionUser(user))
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Login JSON"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Failure      423   {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	user, result, lockedUntil, err := h.authUC.CheckCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	switch result {
	case domain.CredentialLocked:
		msg := "Account temporarily locked due to repeated failed logins"
		if lockedUntil != nil {
			msg = "Account locked until " + lockedUntil.UTC().Format(time.RFC3339)
		}
		c.Error(apperror.Locked(msg))
		return
	case domain.CredentialInvalid:
		c.Error(apperror.Unauthorized("Invalid email or password"))
		return
	}

	signed, err := h.codec.Issue(token.Claims{
		UserID: user.ID,
		Role:   user.Role,
		OrgID:  user.OrgID,
		Status: user.VerificationStatus,
	})
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	middleware.SetSessionCookie(c, signed)
	response.Success(c, http.StatusOK, "Logged in", toSessionUser(user))
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the session cookie and revokes outstanding tokens
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Best effort: the cookie is cleared even when there was no session.
	if userID := c.GetString(string(domain.KeyUserID)); userID != "" {
		if err := h.authUC.Logout(c.Request.Context(), userID); err != nil {
			c.Error(err)
			return
		}
	}
	middleware.ClearSessionCookie(c)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	if userID == "" {
		c.Error(apperror.Unauthorized("Not logged in"))
		return
	}
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", toSessionUser(user))
}
