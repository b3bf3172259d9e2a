package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness handles GET /health.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Pinger is satisfied by the dependencies checked on readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// MongoPinger checks the document store.
func MongoPinger(db *mongo.Database) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		return db.Client().Ping(ctx, nil)
	})
}

// RedisPinger checks the replay store.
func RedisPinger(rdb *redis.Client) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// Checks every registered dependency before declaring the service ready.
type HealthDependenciesHandler struct {
	deps map[string]Pinger
}

// NewHealthDependenciesHandler checks the given dependencies by name. Nil
// pingers are skipped, so optional dependencies can be passed unconditionally.
func NewHealthDependenciesHandler(deps map[string]Pinger) *HealthDependenciesHandler {
	checked := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			checked[name] = p
		}
	}
	return &HealthDependenciesHandler{deps: checked}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true

	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
