package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/models"
	"github.com/papertrade/papertrade/internal/trading"
)

// TradeHandler executes simulated buy/sell trades.
type TradeHandler struct {
	logger   *common.Logger
	verifier interfaces.IdentityVerifier
	service  *trading.Service
}

// NewTradeHandler creates a new trade handler.
func NewTradeHandler(logger *common.Logger, verifier interfaces.IdentityVerifier, service *trading.Service) *TradeHandler {
	return &TradeHandler{logger: logger, verifier: verifier, service: service}
}

// ServeHTTP handles POST /api/trade.
func (h *TradeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	userID, ok := Authenticate(w, r, h.verifier, h.logger)
	if !ok {
		return
	}

	var req models.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request data")
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))

	if req.Ticker == "" || req.Quantity <= 0 || !req.Action.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	result, err := h.service.ExecuteTrade(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, trading.ErrPortfolioNotFound):
			// No portfolio document yet: success-shaped empty response,
			// no mutation. Kept for compatibility with existing clients.
			WriteJSON(w, http.StatusOK, []interface{}{})
		case errors.Is(err, trading.ErrInsufficientHoldings):
			WriteError(w, http.StatusBadRequest, "Insufficient stocks to sell")
		case errors.Is(err, trading.ErrTickerNotFound):
			WriteError(w, http.StatusNotFound, fmt.Sprintf("No data found for ticker: %s", req.Ticker))
		default:
			if h.logger != nil {
				h.logger.Error().
					Str("user", userID).
					Str("ticker", req.Ticker).
					Str("error", err.Error()).
					Msg("trade failed")
			}
			WriteError(w, http.StatusInternalServerError, "Trade failed")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": result.Message})
}
