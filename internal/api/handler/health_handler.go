package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const serviceName = "Onboarding System API"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the liveness, readiness and root endpoints.
type HealthHandler struct {
	deployment   string
	dbState      func() string
	dependencies map[string]Pinger
	now          func() time.Time
}

// NewHealthHandler builds the handler. dbState reports the connection
// provider's state; dependencies are pinged by Readiness.
func NewHealthHandler(deployment string, dbState func() string, dependencies map[string]Pinger) *HealthHandler {
	if dbState == nil {
		dbState = func() string { return "unknown" }
	}
	return &HealthHandler{
		deployment:   deployment,
		dbState:      dbState,
		dependencies: dependencies,
		now:          time.Now,
	}
}

type livenessResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	Service    string `json:"service"`
	Deployment string `json:"deployment"`
	Database   string `json:"database"`
}

// Liveness handles GET /health. It always answers 200 while the process is
// up and reports the database state without blocking on it.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:     "OK",
		Timestamp:  h.now().UTC().Format(time.RFC3339Nano),
		Service:    serviceName,
		Deployment: h.deployment,
		Database:   h.dbState(),
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready and pings every configured dependency.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.dependencies))
	healthy := true
	for name, p := range h.dependencies {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}

type rootResponse struct {
	Message    string            `json:"message"`
	Endpoints  map[string]string `json:"endpoints"`
	DeployedOn string            `json:"deployed_on"`
	Status     string            `json:"status"`
}

// Root handles GET / with a short description of the API.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Message: serviceName + " is running on " + h.deployment,
		Endpoints: map[string]string{
			"register":    "POST /api/auth/register",
			"login":       "POST /api/auth/login",
			"profile":     "GET /api/profile",
			"tasks":       "GET /api/profile/tasks",
			"update_task": "PUT /api/profile/tasks/:taskId",
			"health":      "GET /health",
		},
		DeployedOn: h.deployment,
		Status:     "Active",
	})
}
