package models

// Transaction is one immutable entry in a user's append-only trade history.
type Transaction struct {
	Ticker    string      `json:"ticker"`
	Quantity  int64       `json:"quantity"`
	Action    TradeAction `json:"action"`
	Price     float64     `json:"price"`
	Timestamp int64       `json:"timestamp"`
}
