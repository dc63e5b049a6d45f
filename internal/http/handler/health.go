package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is the probe the health endpoint runs against the store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is allowed")
		return
	}

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    map[string]string{"api": "healthy", "store": "healthy"},
	}

	if err := h.checker.HealthCheck(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["store"] = "unhealthy"
		WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
