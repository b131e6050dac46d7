// Package interfaces defines service contracts for papertrade.
package interfaces

import (
	"context"

	"github.com/papertrade/papertrade/internal/models"
)

// IdentityVerifier exchanges an opaque bearer token for a stable user
// identifier via the external identity service.
type IdentityVerifier interface {
	// VerifyToken returns the user id for a valid token. Any malformed,
	// expired, or unverifiable token yields an error.
	VerifyToken(ctx context.Context, token string) (string, error)
}

// QuoteGateway wraps the external market data provider. Exactly one
// outbound lookup per call; no retries.
type QuoteGateway interface {
	// GetQuote retrieves symbol, display name, and current price for a
	// ticker. Unresolvable tickers and responses missing any required
	// field yield an error.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}
