package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/model"
	"github.com/jwalitptl/medibook-api/internal/service/auth"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

// authResponse keeps token and user at the top level, where the SPA reads them.
type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.GET("/me", authMW.Authenticate(), h.Me)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	message := "Account created successfully."
	if resp.User.Role == model.RoleDoctor {
		message = "Account created. Pending admin approval before you can accept appointments."
	}
	c.JSON(http.StatusCreated, authResponse{Success: true, Message: message, Token: resp.Token, User: resp.User})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Success: true, Token: resp.Token, User: resp.User})
}

func (h *Handler) Me(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	user, err := h.svc.Me(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, user)
}
