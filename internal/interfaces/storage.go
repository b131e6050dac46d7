package interfaces

import (
	"context"

	"github.com/papertrade/papertrade/internal/models"
)

// PortfolioStore wraps the document store holding per-user portfolios and
// transaction logs. Implementations can be swapped (BadgerDB now, managed
// document DB later).
type PortfolioStore interface {
	// GetHoldings returns the ticker -> share count mapping for a user.
	// Returns trading.ErrPortfolioNotFound when no portfolio document
	// exists; a read never creates one.
	GetHoldings(ctx context.Context, userID string) (map[string]int64, error)

	// ApplyBuy increments the share count for a ticker, creating the
	// field if absent. No-op when no portfolio document exists.
	ApplyBuy(ctx context.Context, userID, ticker string, qty int64) error

	// ApplySell decrements the share count for a ticker, removing the
	// field entirely when the result is exactly zero. Returns
	// trading.ErrInsufficientHoldings when qty exceeds the held count.
	ApplySell(ctx context.Context, userID, ticker string, qty int64) error

	// AppendTransaction appends a record to the user's transaction log,
	// creating the log document if absent. Append order is preserved.
	AppendTransaction(ctx context.Context, userID string, rec models.Transaction) error

	// GetTransactions returns the user's transaction history in append
	// order, or an empty slice when no log exists.
	GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// Close releases the underlying store.
	Close() error
}
