package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sirpyerre/leaderboard-api/docs"
	"github.com/sirpyerre/leaderboard-api/internal/api/handler"
	"github.com/sirpyerre/leaderboard-api/internal/api/middleware"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Leaderboard ports.LeaderboardService
	Claims      ports.ClaimService
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger

	AllowOrigins []string

	// Registerer and Gatherer back the HTTP metrics and GET /metrics.
	// They default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.AllowOrigins) == 0 {
		d.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			"Idempotency-Key",
		},
		ExposeHeaders: []string{echo.HeaderXRequestID, "Idempotent-Replay"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "leaderboard",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Leaderboard ---
	userHandler := handler.NewUserHandler(d.Leaderboard)
	claimHandler := handler.NewClaimHandler(d.Claims)

	e.GET("/users", userHandler.List)
	e.POST("/users", userHandler.Create)
	e.POST("/claim", claimHandler.Claim)
	e.GET("/history", claimHandler.History)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
