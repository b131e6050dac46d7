package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/papertrade/papertrade/internal/models"
)

func TestPortfolioHandler_ReturnsPositions(t *testing.T) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	gateway := &fakeGateway{quotes: map[string]*models.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: 150},
		"NVDA": {Symbol: "NVDA", Name: "NVIDIA Corp", Price: 900},
	}}
	store := &fakeStore{holdings: map[string]int64{"NVDA": 1, "AAPL": 2}}
	handler := NewPortfolioHandler(nil, verifier, newTestService(gateway, store))

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	req.Header.Set("Authorization", "good")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var positions []models.Position
	if err := json.Unmarshal(w.Body.Bytes(), &positions); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	// Sorted by ticker
	if positions[0].Ticker != "AAPL" || positions[1].Ticker != "NVDA" {
		t.Errorf("expected AAPL then NVDA, got %s then %s", positions[0].Ticker, positions[1].Ticker)
	}
	if positions[0].TotalValue != 300 {
		t.Errorf("expected AAPL total value 300, got %v", positions[0].TotalValue)
	}
}

func TestPortfolioHandler_MissingPortfolio(t *testing.T) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	store := &fakeStore{holdings: nil}
	handler := NewPortfolioHandler(nil, verifier, newTestService(&fakeGateway{}, store))

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	req.Header.Set("Authorization", "good")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty array body, got %q", got)
	}
}

func TestPortfolioHandler_NoToken(t *testing.T) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	handler := NewPortfolioHandler(nil, verifier, newTestService(&fakeGateway{}, &fakeStore{}))

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestPortfolioHandler_StoreFailure(t *testing.T) {
	verifier := &fakeVerifier{token: "good", userID: "user-1"}
	// Any non-portfolio error from the store surfaces as a 500
	store := &fakeStore{failWith: errors.New("database unavailable")}
	handler := NewPortfolioHandler(nil, verifier, newTestService(&fakeGateway{}, store))

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	req.Header.Set("Authorization", "good")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Failed to load portfolio" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}
