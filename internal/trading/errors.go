// Package trading composes the quote gateway and portfolio store into the
// trade execution, portfolio, and history operations.
package trading

import "errors"

// Failure kinds surfaced to the HTTP layer. Handlers map these to status
// codes in one place; anything unrecognized is an upstream failure.
var (
	// ErrInvalidToken indicates the bearer token could not be verified.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTickerNotFound indicates the market data provider has no usable
	// data for the requested ticker.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrPortfolioNotFound indicates no portfolio document exists for the
	// user. Reads never create one.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrInsufficientHoldings indicates a sell for more shares than held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")
)
