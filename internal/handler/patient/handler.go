package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/service/patient"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

type Handler struct {
	svc *patient.Service
}

func NewHandler(svc *patient.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	patients := r.Group("/patients", authMW.Authenticate())
	{
		patients.GET("", middleware.RequireRole(model.RoleAdmin), h.List)
		patients.GET("/my-profile", middleware.RequireRole(model.RolePatient), h.MyProfile)
		patients.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RolePatient), h.Get)
		patients.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RolePatient), h.Update)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) MyProfile(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	profile, err := h.svc.GetMyProfile(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "patient")
	if !ok {
		return
	}
	profile, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "patient")
	if !ok {
		return
	}
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Profile updated.", profile)
}
