package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is one dependency reported by /health.
type Pinger func(ctx context.Context) error

type Handler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHandler() *Handler { return &Handler{checks: map[string]Pinger{}, timeout: 2 * time.Second} }

// WithCheck registers a named dependency, e.g. "mysql" or "redis".
func (h *Handler) WithCheck(name string, p Pinger) *Handler {
	h.checks[name] = p
	return h
}

// Health answers 200 when every registered dependency pings, 503 otherwise.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(names))
	for _, n := range names {
		if err := h.checks[n](ctx); err != nil {
			deps[n] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[n] = "ok"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	return c.JSON(code, body)
}
