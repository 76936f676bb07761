package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/logger"
	"github.com/austcse/carnival-backend/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the context. Handlers
// report failures with c.Error and return; nothing is written for them.
//
// Response bodies:
//
//	validation with fields  400 {success:false, errors:[{field,message}]}
//	rate limit              429 {success:false, message, retryAfter} + Retry-After
//	anything else           {success:false, message}
//
// Internal causes are logged and never returned to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			renderAppError(c, appErr)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ContactResponse{
				Success: false,
				Message: "Invalid request body",
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, types.ContactResponse{
			Success: false,
			Message: "Internal Server Error",
		})
	}
}

func renderAppError(c *gin.Context, appErr *errors.AppError) {
	status := appErr.GetHTTPStatus()

	switch appErr.Type {
	case errors.ValidationError, errors.RateLimitError:
		logger.LogHTTPRejection(c, appErr, status, fmt.Sprintf("%s rejection", appErr.Type))
	default:
		logged := error(appErr)
		if appErr.Raw != nil {
			logged = appErr.Raw
		}
		logger.LogHTTPError(c, logged, status, fmt.Sprintf("%s error", appErr.Type))
	}

	resp := types.ContactResponse{Success: false, Message: appErr.Message}

	switch appErr.Type {
	case errors.ValidationError:
		if len(appErr.Fields) > 0 {
			resp.Message = ""
			resp.Errors = appErr.Fields
		} else if appErr.Detail != "" {
			resp.Message = appErr.Message + ": " + appErr.Detail
		}
	case errors.RateLimitError:
		resp.RetryAfter = appErr.RetryAfter
		c.Header("Retry-After", strconv.Itoa(appErr.RetryAfter))
		c.Header("X-RateLimit-Remaining", "0")
	}

	c.JSON(status, resp)
}
