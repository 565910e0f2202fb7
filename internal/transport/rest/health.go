package rest

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

type HealthHandler struct {
	*transport.BaseHandler
	db Pinger
}

func NewHealthHandler(db Pinger, base *transport.BaseHandler) *HealthHandler {
	return &HealthHandler{BaseHandler: base, db: db}
}

// Ping handles GET /ping: the process is up.
func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health handles GET /health: the database answers within the timeout.
// The driver error is logged, not returned.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "health check: database ping failed", "error", err)
		entry.Status = HealthUnhealthy
		entry.Message = "database unreachable"
	}

	statusCode := http.StatusOK
	if entry.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, HealthResponse{
		Status:     entry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"database": entry},
	})
}
