// Package app wires stores, services and handlers into the HTTP router.
package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medibook-api/internal/config"
	"github.com/jwalitptl/medibook-api/internal/email"
	appointmentHandler "github.com/jwalitptl/medibook-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/medibook-api/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/medibook-api/internal/handler/doctor"
	"github.com/jwalitptl/medibook-api/internal/handler/health"
	notificationHandler "github.com/jwalitptl/medibook-api/internal/handler/notification"
	patientHandler "github.com/jwalitptl/medibook-api/internal/handler/patient"
	prescriptionHandler "github.com/jwalitptl/medibook-api/internal/handler/prescription"
	promHandler "github.com/jwalitptl/medibook-api/internal/handler/prometheus"
	userHandler "github.com/jwalitptl/medibook-api/internal/handler/user"
	"github.com/jwalitptl/medibook-api/internal/middleware"
	"github.com/jwalitptl/medibook-api/internal/repository"
	"github.com/jwalitptl/medibook-api/internal/router"
	appointmentService "github.com/jwalitptl/medibook-api/internal/service/appointment"
	authService "github.com/jwalitptl/medibook-api/internal/service/auth"
	doctorService "github.com/jwalitptl/medibook-api/internal/service/doctor"
	notificationService "github.com/jwalitptl/medibook-api/internal/service/notification"
	patientService "github.com/jwalitptl/medibook-api/internal/service/patient"
	prescriptionService "github.com/jwalitptl/medibook-api/internal/service/prescription"
	userService "github.com/jwalitptl/medibook-api/internal/service/user"
	"github.com/jwalitptl/medibook-api/pkg/auth"
	"github.com/jwalitptl/medibook-api/pkg/messaging"
	"github.com/jwalitptl/medibook-api/pkg/metrics"
	"github.com/jwalitptl/medibook-api/pkg/security"
	"github.com/jwalitptl/medibook-api/pkg/validator"
)

const metricsNamespace = "medibook"

type Deps struct {
	Config   *config.Config
	Store    *repository.Store
	Broker   messaging.Broker
	Mailer   email.Mailer
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

type App struct {
	router *router.Router
	Auth   *authService.Service
}

// NewAuthService builds the registration and login service. doctorList may be
// nil when no doctor listing is served, as in the CLI.
func NewAuthService(cfg *config.Config, store *repository.Store, doctorList authService.DoctorListCache, logger zerolog.Logger) *authService.Service {
	return authService.NewService(
		store.Users, store.Doctors, store.Patients,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		newJWTService(cfg),
		doctorList,
		authService.Config{AllowAdminRegistration: cfg.Auth.AllowAdminRegistration},
		logger,
	)
}

func newJWTService(cfg *config.Config) auth.JWTService {
	return auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
}

func New(d Deps) (*App, error) {
	if err := validator.RegisterWithGin(); err != nil {
		return nil, err
	}

	cfg, store, logger := d.Config, d.Store, d.Logger
	registry := d.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.NewMetrics(metricsNamespace, registry)

	notifier := notificationService.NewService(notificationService.Deps{
		Users:         store.Users,
		Notifications: store.Notifications,
		Preferences:   notificationService.ProfilePreferences(store.Doctors, store.Patients),
		Mailer:        d.Mailer,
		Renderer:      email.NewRenderer(cfg.Server.ClientOrigin),
		Broker:        d.Broker,
		Metrics:       m,
		Logger:        logger,
	})

	doctorSvc := doctorService.NewService(store.Doctors, store.Users, notifier, cfg.Cache.DoctorListTTL, logger)
	authSvc := NewAuthService(cfg, store, doctorSvc, logger)
	patientSvc := patientService.NewService(store.Patients, store.Users, logger)
	userSvc := userService.NewService(store.Users, logger)
	appointmentSvc := appointmentService.NewService(store.Appointments, store.Users, store.Doctors, notifier, logger)
	prescriptionSvc := prescriptionService.NewService(store.Prescriptions, store.Users, store.Doctors, notifier, logger)

	authMW := middleware.NewAuthMiddleware(newJWTService(cfg))

	r := router.NewRouter(
		authMW,
		health.NewHandler(health.Pinger(store.Ping)),
		promHandler.New(m, registry),
		router.Config{
			ClientOrigins: []string{cfg.Server.ClientOrigin},
			Development:   cfg.App.IsDevelopment(),
			RateLimit: router.RateLimitConfig{
				Enabled:  cfg.RateLimit.Enabled,
				Requests: cfg.RateLimit.Requests,
				Window:   cfg.RateLimit.Window,
			},
		},
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		notificationHandler.NewHandler(notifier),
		userHandler.NewHandler(userSvc),
	)

	return &App{router: r.Setup(), Auth: authSvc}, nil
}

func (a *App) Handler() http.Handler {
	return a.router.Engine()
}
