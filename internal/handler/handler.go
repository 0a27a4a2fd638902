// Package handler holds the helpers shared by the resource handlers.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
	"github.com/jwalitptl/medibook-api/pkg/validator"
)

// BindJSON decodes and validates the body into obj, answering 400 on failure.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, validator.Message(err))
		return false
	}
	return true
}

// ParamID parses the :id path parameter, answering 400 when it is not a uuid.
func ParamID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithStatus(c, http.StatusBadRequest, "invalid "+resource+" id")
		return uuid.Nil, false
	}
	return id, true
}

// Actor returns the authenticated caller, answering 401 when there is none.
func Actor(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		httputil.RespondWithStatus(c, http.StatusUnauthorized, "No token provided.")
	}
	return actor, ok
}
