package handlers

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/config"
)

// HealthHandler serves liveness checks.
type HealthHandler struct {
	logger *common.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "papertrade",
		"version": config.GetVersion(),
	})
}
