package models

// Position is one portfolio line item priced at the current market quote.
type Position struct {
	Ticker       string  `json:"ticker"`
	Quantity     int64   `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	TotalValue   float64 `json:"total_value"`
}

// TradeAction is the direction of a trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// Valid reports whether the action is one of the supported trade directions.
func (a TradeAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Past returns the past-tense form used in trade confirmation messages.
func (a TradeAction) Past() string {
	if a == ActionSell {
		return "sold"
	}
	return "bought"
}

// TradeRequest is the JSON body of POST /api/trade.
type TradeRequest struct {
	Ticker   string      `json:"ticker"`
	Quantity int64       `json:"quantity"`
	Action   TradeAction `json:"action"`
}
