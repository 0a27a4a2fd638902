package appointment

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/service/appointment"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments", authMW.Authenticate())
	{
		appointments.POST("", middleware.RequireRole(model.RolePatient), h.Create)
		appointments.GET("", h.List)
		appointments.GET("/:id", h.Get)
		appointments.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	apt, err := h.svc.Book(c.Request.Context(), actor, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, "Appointment booked.", apt)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), actor, model.AppointmentStatus(c.Query("status")))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) Get(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "appointment")
	if !ok {
		return
	}
	view, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "appointment")
	if !ok {
		return
	}
	var req model.UpdateAppointmentStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	apt, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Appointment "+string(apt.Status)+".", apt)
}
