package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/onboarding-system/docs"
	"github.com/99minutos/onboarding-system/internal/api/handler"
	"github.com/99minutos/onboarding-system/internal/api/middleware"
	"github.com/99minutos/onboarding-system/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	AuthService    ports.AuthService
	ProfileService ports.ProfileService
	Tokens         ports.TokenVerifier
	Log            zerolog.Logger

	// DBState reports the connection provider's state for /health.
	DBState func() string
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger

	Deployment   string
	ExposeErrors bool
	CORSOrigins  []string

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.ExposeErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "onboarding_http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler(deps.ProfileService)
	healthHandler := handler.NewHealthHandler(deps.Deployment, deps.DBState, deps.Readiness)

	// --- Public routes ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Protected routes ---
	profile := e.Group("/api/profile", middleware.Auth(deps.Tokens))
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)
	profile.GET("/tasks", profileHandler.ListTasks)
	profile.PUT("/tasks/:taskId", profileHandler.UpdateTask)

	return e
}
