package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/medibook-api/internal/handler/health"
	"github.com/jwalitptl/medibook-api/internal/handler/prometheus"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/pkg/httputil"
)

// Handler is a resource handler mounted under /api.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type Config struct {
	ClientOrigins []string
	Development   bool
	RateLimit     RateLimitConfig
	MaxBodySize   int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	health   *health.Handler
	prom     *prometheus.Handler
	handlers []Handler
	config   Config
}

func NewRouter(auth *middleware.AuthMiddleware, healthH *health.Handler, prom *prometheus.Handler, config Config, handlers ...Handler) *Router {
	if !config.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		auth:     auth,
		health:   healthH,
		prom:     prom,
		handlers: handlers,
		config:   config,
	}

	r.engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
	)
	if prom != nil {
		r.engine.Use(prom.Middleware())
	}
	r.engine.Use(
		middleware.CORS(config.ClientOrigins...),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.Development)),
		middleware.SizeLimit(config.MaxBodySize),
	)

	return r
}

func (r *Router) Setup() *Router {
	api := r.engine.Group("/api")
	api.Use(middleware.NoStore())
	if r.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(r.config.RateLimit.Requests, r.config.RateLimit.Window)
		api.Use(limiter.RateLimit())
	}

	if r.health != nil {
		r.health.RegisterRoutes(api)
	}
	for _, h := range r.handlers {
		h.RegisterRoutes(api, r.auth)
	}

	if r.prom != nil {
		r.engine.GET("/metrics", r.prom.Handler())
	}

	r.engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithStatus(c, http.StatusNotFound, "Route not found.")
	})
	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
