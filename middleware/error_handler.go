package middleware

import (
	"fmt"

	"github.com/campusconnect/campus-backend/errors"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error. Raw
// backend errors are logged and never written to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		if appErr, ok := errors.As(err); ok {
			status := appErr.GetHTTPStatus()
			logger.LogHTTPError(c, err, status, fmt.Sprintf("%s error", appErr.Type))

			resp := ErrorResponse{Type: string(appErr.Type), Code: appErr.Code, Message: appErr.Message}
			switch appErr.Type {
			case errors.ValidationError, errors.NotFoundError, errors.ConflictError, errors.RateLimitError:
				resp.Details = appErr.Detail
			default:
				if gin.IsDebugging() {
					resp.Details = appErr.Detail
				}
			}
			c.JSON(status, resp)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")
			c.JSON(400, ErrorResponse{
				Type:    string(errors.ValidationError),
				Message: "Invalid request body",
				Details: err.Error(),
			})
			return
		}

		logger.LogHTTPError(c, err, 500, "Unexpected server error")
		resp := ErrorResponse{Type: string(errors.ServerError), Message: "Internal Server Error"}
		if gin.IsDebugging() {
			resp.Details = err.Error()
		}
		c.JSON(500, resp)
	}
}
