package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// CountResponse is the unread-count shape.
type CountResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithMessage sends a success response carrying a message and optional data
func RespondWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithCount sends the count envelope
func RespondWithCount(c *gin.Context, count int64) {
	c.JSON(http.StatusOK, CountResponse{Success: true, Count: count})
}

// RespondWithError maps err onto the error envelope. Anything that is not an
// AppError is reported as a 500 without leaking its text.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.HTTPStatus()
		message = appErr.Message
	}

	// Recorded for the error middleware, which logs it with the request id.
	_ = c.Error(err)

	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// RespondWithStatus sends an error envelope with an explicit status
func RespondWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Message: message,
	})
}
