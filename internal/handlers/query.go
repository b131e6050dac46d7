package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/trading"
)

// QueryHandler serves public quote lookups.
type QueryHandler struct {
	logger  *common.Logger
	service *trading.Service
}

// NewQueryHandler creates a new quote query handler.
func NewQueryHandler(logger *common.Logger, service *trading.Service) *QueryHandler {
	return &QueryHandler{logger: logger, service: service}
}

// ServeHTTP handles GET /api/query?ticker=SYM.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	quote, err := h.service.GetQuote(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, trading.ErrTickerNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Incomplete or no data found for ticker: %s", ticker))
			return
		}
		if h.logger != nil {
			h.logger.Error().Str("ticker", ticker).Str("error", err.Error()).Msg("quote lookup failed")
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching data for %s", ticker))
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}
