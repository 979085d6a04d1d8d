// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pvasilev/stockroom-be/internal/adapters/db"
	"github.com/pvasilev/stockroom-be/internal/pkg/config"
)

// HealthHandler reports liveness and readiness of the service and its
// backing stores.
type HealthHandler struct {
	db        *db.Database
	redis     *redis.Client
	asynq     *asynq.Inspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	database *db.Database,
	redisClient *redis.Client,
	asynqInspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		asynq:     asynqInspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

type componentHealth struct {
	Status  string                 `json:"status"`
	Error   string                 `json:"error,omitempty"`
	Latency string                 `json:"latency,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type healthReport struct {
	Status      string                     `json:"status"`
	Version     string                     `json:"version"`
	Environment string                     `json:"environment"`
	Uptime      string                     `json:"uptime"`
	CheckedAt   time.Time                  `json:"checked_at"`
	Components  map[string]componentHealth `json:"components"`
	Runtime     runtimeStats               `json:"runtime"`
}

type runtimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	AllocMB    uint64 `json:"alloc_mb"`
}

// Health handles GET /health. Any unhealthy component degrades the overall
// status and flips the response to 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := healthReport{
		Status:      "healthy",
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		CheckedAt:   time.Now(),
		Components:  make(map[string]componentHealth),
		Runtime:     collectRuntimeStats(),
	}

	checks := map[string]func(context.Context) componentHealth{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
	}
	if h.asynq != nil {
		checks["queue"] = h.checkQueue
	}

	for name, check := range checks {
		component := check(ctx)
		report.Components[name] = component
		if component.Status != "healthy" {
			report.Status = "degraded"
		}
	}

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	h.writeReport(ctx, w, status, report)
}

// Readiness handles GET /ready. Unlike Health it only answers the question
// "can this instance take traffic", with no diagnostics attached.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := map[string]string{"database": "ready", "redis": "ready"}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		components["database"] = "not ready"
		ready = false
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		components["redis"] = "not ready"
		ready = false
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	h.writeReport(ctx, w, status, map[string]interface{}{
		"ready":      ready,
		"components": components,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) componentHealth {
	start := time.Now()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed",
			slog.String("error", err.Error()))
		return componentHealth{Status: "unhealthy", Error: err.Error()}
	}

	details := make(map[string]interface{})
	for k, v := range h.db.Health(ctx) {
		details[k] = v
	}

	return componentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: details,
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) componentHealth {
	start := time.Now()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed",
			slog.String("error", err.Error()))
		return componentHealth{Status: "unhealthy", Error: err.Error()}
	}

	stats := h.redis.PoolStats()
	return componentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: map[string]interface{}{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
		},
	}
}

func (h *HealthHandler) checkQueue(ctx context.Context) componentHealth {
	start := time.Now()

	queues, err := h.asynq.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "queue health check failed",
			slog.String("error", err.Error()))
		return componentHealth{Status: "unhealthy", Error: err.Error()}
	}

	details := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		info, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		details[queue] = map[string]int{
			"size":    info.Size,
			"active":  info.Active,
			"pending": info.Pending,
			"retry":   info.Retry,
		}
	}

	return componentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
		Details: details,
	}
}

func (h *HealthHandler) writeReport(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}

func collectRuntimeStats() runtimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return runtimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		AllocMB:    mem.Alloc / 1024 / 1024,
	}
}
