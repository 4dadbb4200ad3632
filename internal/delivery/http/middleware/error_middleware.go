package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinksaga/recruitkart-sub003/internal/delivery/http/response"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
	"github.com/thinksaga/recruitkart-sub003/pkg/logger"
)

// ErrorHandler maps errors attached to the gin context to the standard
// envelope. Internal errors are logged server-side and surfaced as a
// generic message, never as raw error detail.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unhandled error",
					"path", c.Request.URL.Path,
					"error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
