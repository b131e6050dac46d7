package handlers

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/trading"
)

// TransactionsHandler serves the authenticated user's trade history.
type TransactionsHandler struct {
	logger   *common.Logger
	verifier interfaces.IdentityVerifier
	service  *trading.Service
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(logger *common.Logger, verifier interfaces.IdentityVerifier, service *trading.Service) *TransactionsHandler {
	return &TransactionsHandler{logger: logger, verifier: verifier, service: service}
}

// ServeHTTP handles GET /api/transactions.
func (h *TransactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID, ok := Authenticate(w, r, h.verifier, h.logger)
	if !ok {
		return
	}

	history, err := h.service.GetTransactions(r.Context(), userID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Str("user", userID).Str("error", err.Error()).Msg("transaction lookup failed")
		}
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	WriteJSON(w, http.StatusOK, history)
}
