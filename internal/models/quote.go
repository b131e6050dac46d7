// Package models defines the core domain types for papertrade.
package models

// Quote is a point-in-time snapshot for a ticker, fetched fresh on every
// request and never persisted.
type Quote struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}
