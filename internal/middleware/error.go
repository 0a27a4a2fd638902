package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medibook-api/pkg/errors"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

// ErrorHandler logs the errors handlers attached to the context and renders the
// last one when the handler wrote no response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			status := http.StatusInternalServerError
			if appErr, ok := errors.As(e.Err); ok {
				status = appErr.HTTPStatus()
			}

			event := log.Warn()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Err(e.Err).
				Int("status", status).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("request error")
		}

		if !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	}
}
