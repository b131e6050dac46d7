package handlers

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/trading"
)

// PortfolioHandler serves the authenticated user's current positions.
type PortfolioHandler struct {
	logger   *common.Logger
	verifier interfaces.IdentityVerifier
	service  *trading.Service
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(logger *common.Logger, verifier interfaces.IdentityVerifier, service *trading.Service) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, verifier: verifier, service: service}
}

// ServeHTTP handles GET /api/portfolio.
func (h *PortfolioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID, ok := Authenticate(w, r, h.verifier, h.logger)
	if !ok {
		return
	}

	positions, err := h.service.GetPortfolio(r.Context(), userID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Str("user", userID).Str("error", err.Error()).Msg("portfolio lookup failed")
		}
		WriteError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	WriteJSON(w, http.StatusOK, positions)
}
