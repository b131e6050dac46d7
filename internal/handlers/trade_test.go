package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/papertrade/papertrade/internal/models"
)

func newTradeRequest(body string) *http.Request {
	req := httptest.NewRequest("POST", "/api/trade", strings.NewReader(body))
	req.Header.Set("Authorization", "good")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func tradeFixture() (*fakeVerifier, *fakeGateway, *fakeStore, *TradeHandler) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	gateway := &fakeGateway{quotes: map[string]*models.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: 150.5},
	}}
	store := &fakeStore{holdings: map[string]int64{"AAPL": 5}}
	handler := NewTradeHandler(nil, verifier, newTestService(gateway, store))
	return verifier, gateway, store, handler
}

func TestTradeHandler_Buy(t *testing.T) {
	_, _, store, handler := tradeFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"AAPL","quantity":3,"action":"buy"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := "Successfully bought 3 shares of AAPL at $150.50 per share"
	if body["message"] != want {
		t.Errorf("expected message %q, got %q", want, body["message"])
	}
	if store.holdings["AAPL"] != 8 {
		t.Errorf("expected 8 shares after buy, got %d", store.holdings["AAPL"])
	}
	if len(store.history) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(store.history))
	}
}

func TestTradeHandler_Sell(t *testing.T) {
	_, _, store, handler := tradeFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"AAPL","quantity":5,"action":"sell"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := "Successfully sold 5 shares of AAPL at $150.50 per share"
	if body["message"] != want {
		t.Errorf("expected message %q, got %q", want, body["message"])
	}
	if _, ok := store.holdings["AAPL"]; ok {
		t.Error("expected AAPL removed after selling all shares")
	}
}

func TestTradeHandler_LowercaseTickerUppercased(t *testing.T) {
	_, _, store, handler := tradeFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"aapl","quantity":1,"action":"buy"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if store.holdings["AAPL"] != 6 {
		t.Errorf("expected the trade applied to AAPL, holdings: %v", store.holdings)
	}
}

func TestTradeHandler_NoToken(t *testing.T) {
	verifier, _, store, handler := tradeFixture()

	req := httptest.NewRequest("POST", "/api/trade", strings.NewReader(`{"ticker":"AAPL","quantity":1,"action":"buy"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if verifier.calls != 0 {
		t.Errorf("expected no verifier calls, got %d", verifier.calls)
	}
	if store.mutationCalls != 0 {
		t.Errorf("expected no store mutations, got %d", store.mutationCalls)
	}
}

func TestTradeHandler_InvalidToken(t *testing.T) {
	_, _, store, handler := tradeFixture()

	req := newTradeRequest(`{"ticker":"AAPL","quantity":1,"action":"buy"}`)
	req.Header.Set("Authorization", "bad")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if store.mutationCalls != 0 {
		t.Errorf("expected no store mutations, got %d", store.mutationCalls)
	}
}

func TestTradeHandler_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{not json`},
		{"missing ticker", `{"quantity":1,"action":"buy"}`},
		{"zero quantity", `{"ticker":"AAPL","quantity":0,"action":"buy"}`},
		{"negative quantity", `{"ticker":"AAPL","quantity":-3,"action":"buy"}`},
		{"unknown action", `{"ticker":"AAPL","quantity":1,"action":"hold"}`},
		{"missing action", `{"ticker":"AAPL","quantity":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, store, handler := tradeFixture()

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newTradeRequest(tt.body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["error"] != "Invalid request data" {
				t.Errorf("expected 'Invalid request data', got %q", body["error"])
			}
			if store.mutationCalls != 0 {
				t.Errorf("expected no store mutations, got %d", store.mutationCalls)
			}
		})
	}
}

func TestTradeHandler_MissingPortfolio(t *testing.T) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	gateway := &fakeGateway{quotes: map[string]*models.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: 150.5},
	}}
	store := &fakeStore{holdings: nil}
	handler := NewTradeHandler(nil, verifier, newTestService(gateway, store))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"AAPL","quantity":1,"action":"buy"}`))

	// No portfolio document: a 200 with an empty array, and no trade applied
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array body, got %q", got)
	}
	if len(store.history) != 0 {
		t.Error("expected no transaction recorded")
	}
}

func TestTradeHandler_InsufficientHoldings(t *testing.T) {
	_, _, store, handler := tradeFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"AAPL","quantity":50,"action":"sell"}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Insufficient stocks to sell" {
		t.Errorf("expected 'Insufficient stocks to sell', got %q", body["error"])
	}
	if store.holdings["AAPL"] != 5 {
		t.Errorf("expected holdings untouched, got %d", store.holdings["AAPL"])
	}
}

func TestTradeHandler_UnknownTicker(t *testing.T) {
	_, _, _, handler := tradeFixture()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newTradeRequest(`{"ticker":"NOPE","quantity":1,"action":"buy"}`))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "No data found for ticker: NOPE" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestTradeHandler_RejectsGET(t *testing.T) {
	_, _, _, handler := tradeFixture()

	req := httptest.NewRequest("GET", "/api/trade", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
