package trading

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/models"
)

// TradeResult describes an executed trade.
type TradeResult struct {
	Ticker   string
	Quantity int64
	Action   models.TradeAction
	Price    float64
	Message  string
}

// Service composes the quote gateway and portfolio store.
type Service struct {
	quotes interfaces.QuoteGateway
	store  interfaces.PortfolioStore
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new trading service.
func NewService(quotes interfaces.QuoteGateway, store interfaces.PortfolioStore, logger *common.Logger) *Service {
	return &Service{
		quotes: quotes,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GetQuote fetches a fresh quote for a ticker.
func (s *Service) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	return s.quotes.GetQuote(ctx, ticker)
}

// ExecuteTrade performs a buy or sell against the user's portfolio and
// appends one transaction record on success.
//
// When no portfolio document exists the trade is not applied and
// ErrPortfolioNotFound is returned; the HTTP layer converts that to a
// success-shaped empty response for compatibility with existing clients.
func (s *Service) ExecuteTrade(ctx context.Context, userID string, req models.TradeRequest) (*TradeResult, error) {
	quote, err := s.quotes.GetQuote(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user", userID).
		Str("ticker", req.Ticker).
		Str("action", string(req.Action)).
		Int("quantity", int(req.Quantity)).
		Str("price", common.FormatPrice(quote.Price)).
		Msg("executing trade")

	if _, err := s.store.GetHoldings(ctx, userID); err != nil {
		return nil, err
	}

	switch req.Action {
	case models.ActionBuy:
		if err := s.store.ApplyBuy(ctx, userID, req.Ticker, req.Quantity); err != nil {
			return nil, err
		}
	case models.ActionSell:
		if err := s.store.ApplySell(ctx, userID, req.Ticker, req.Quantity); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported action: %s", req.Action)
	}

	rec := models.Transaction{
		Ticker:    req.Ticker,
		Quantity:  req.Quantity,
		Action:    req.Action,
		Price:     quote.Price,
		Timestamp: s.now().Unix(),
	}
	if err := s.store.AppendTransaction(ctx, userID, rec); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("ticker", req.Ticker).
		Str("action", string(req.Action)).
		Int("quantity", int(req.Quantity)).
		Str("price", common.FormatPrice(quote.Price)).
		Msg("trade executed")

	return &TradeResult{
		Ticker:   req.Ticker,
		Quantity: req.Quantity,
		Action:   req.Action,
		Price:    quote.Price,
		Message: fmt.Sprintf("Successfully %s %d shares of %s at %s per share",
			req.Action.Past(), req.Quantity, req.Ticker, common.FormatPrice(quote.Price)),
	}, nil
}

// GetPortfolio returns the user's positions priced at current quotes,
// sorted by ticker. A missing portfolio document yields an empty slice.
// Tickers the provider no longer resolves are priced at zero.
func (s *Service) GetPortfolio(ctx context.Context, userID string) ([]models.Position, error) {
	holdings, err := s.store.GetHoldings(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPortfolioNotFound) {
			return []models.Position{}, nil
		}
		return nil, err
	}

	tickers := make([]string, 0, len(holdings))
	for ticker := range holdings {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	positions := make([]models.Position, 0, len(tickers))
	for _, ticker := range tickers {
		quantity := holdings[ticker]

		var price float64
		quote, err := s.quotes.GetQuote(ctx, ticker)
		switch {
		case err == nil:
			price = quote.Price
		case errors.Is(err, ErrTickerNotFound):
			price = 0
		default:
			return nil, err
		}

		positions = append(positions, models.Position{
			Ticker:       ticker,
			Quantity:     quantity,
			CurrentPrice: price,
			TotalValue:   float64(quantity) * price,
		})
	}
	return positions, nil
}

// GetTransactions returns the user's trade history in append order.
func (s *Service) GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.store.GetTransactions(ctx, userID)
}
