package doctor

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/service/doctor"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

type Handler struct {
	svc *doctor.Service
}

func NewHandler(svc *doctor.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.List)
		doctors.GET("/my-profile", authMW.Authenticate(), middleware.RequireRole(model.RoleDoctor), h.MyProfile)
		doctors.GET("/:id", h.Get)

		owner := doctors.Group("/:id", authMW.Authenticate(), middleware.RequireRole(model.RoleDoctor))
		owner.PUT("/availability", h.UpdateAvailability)
		owner.PUT("/profile", h.UpdateProfile)

		// Role checks for status changes live in the transition guard, after status validation.
		doctors.PUT("/:id/status", authMW.Authenticate(), h.UpdateStatus)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := model.DoctorFilter{
		Specialty: c.Query("specialty"),
		Status:    model.DoctorStatus(c.Query("status")),
	}
	list, err := h.svc.List(c.Request.Context(), filter)
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
	id, ok := handler.ParamID(c, "doctor")
	if !ok {
		return
	}
	profile, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "doctor")
	if !ok {
		return
	}
	var req model.UpdateAvailabilityRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.svc.UpdateAvailability(c.Request.Context(), actor, id, req.Availability)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Availability updated.", profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "doctor")
	if !ok {
		return
	}
	var req model.UpdateDoctorProfileRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), actor, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Profile updated.", profile)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "doctor")
	if !ok {
		return
	}
	var req model.UpdateDoctorStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	profile, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Doctor status updated to "+string(profile.Status)+".", profile)
}
