package notification

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/service/notification"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

const defaultHeartbeat = 25 * time.Second

type Handler struct {
	svc       notification.Service
	heartbeat time.Duration
}

func NewHandler(svc notification.Service) *Handler {
	return &Handler{svc: svc, heartbeat: defaultHeartbeat}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	r.GET("/notifications/stream", authMW.AuthenticateStream(), h.Stream)

	notifications := r.Group("/notifications", authMW.Authenticate())
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/mark-all-read", h.MarkAllRead)
		notifications.PUT("/:id/read", h.MarkRead)
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

func (h *Handler) UnreadCount(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	count, err := h.svc.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCount(c, count)
}

func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	id, ok := handler.ParamID(c, "notification")
	if !ok {
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}
	if err := h.svc.MarkAllRead(c.Request.Context(), actor); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "All notifications marked as read.", nil)
}

// Stream relays the caller's new notifications as server-sent events until
// the client disconnects.
func (h *Handler) Stream(c *gin.Context) {
	actor, ok := handler.Actor(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, err := h.svc.Subscribe(ctx, actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", actor.UserID.String())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(msg))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
