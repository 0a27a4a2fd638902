package user

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/service/user"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

type Handler struct {
	svc *user.Service
}

func NewHandler(svc *user.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	users := r.Group("/users", authMW.Authenticate(), middleware.RequireRole(model.RoleAdmin))
	{
		users.GET("", h.List)
		users.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	users, err := h.svc.List(c.Request.Context(), actor, model.UserFilter{Role: model.Role(c.Query("role"))})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "user")
	if !ok {
		return
	}
	var req model.UpdateUserStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, err := h.svc.SetActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	message := "User deactivated."
	if u.IsActive {
		message = "User activated."
	}
	httputil.RespondWithMessage(c, message, u)
}
