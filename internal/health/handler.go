package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	componentHealthy   = "healthy"
	componentUnhealthy = "unhealthy"
)

const checkTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a ping function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Component is a named dependency reported on /health.
type Component struct {
	Name    string
	Checker Checker
}

// Handler handles health check operations.
type Handler struct {
	components []Component
}

func NewHandler(components ...Component) *Handler {
	return &Handler{components: components}
}

// Response is the response for health check endpoint.
type Response struct {
	Status int
	Body   struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
}

// Check pings every component. Any failure degrades the service and answers 503.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{Status: http.StatusOK}
	resp.Body.Status = StatusOK
	resp.Body.Components = make(map[string]string, len(h.components))

	for _, c := range h.components {
		if err := ping(ctx, c.Checker); err != nil {
			resp.Body.Components[c.Name] = componentUnhealthy
			resp.Body.Status = StatusDegraded
			resp.Status = http.StatusServiceUnavailable

			continue
		}

		resp.Body.Components[c.Name] = componentHealthy
	}

	return resp, nil
}

func ping(ctx context.Context, c Checker) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	return c.Ping(ctx)
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Report store and cache reachability",
		Tags:        []string{"Health"},
		Responses: map[string]*huma.Response{
			"503": {Description: "A dependency is unreachable"},
		},
	}, h.Check)
}
