package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/models"
	"github.com/papertrade/papertrade/internal/trading"
)

// fakeVerifier resolves a single known token and counts calls.
type fakeVerifier struct {
	token  string
	userID string
	calls  int
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	f.calls++
	if token == f.token {
		return f.userID, nil
	}
	return "", trading.ErrInvalidToken
}

// fakeGateway serves quotes from a fixed map.
type fakeGateway struct {
	quotes map[string]*models.Quote
	err    error
}

func (f *fakeGateway) GetQuote(_ context.Context, ticker string) (*models.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", trading.ErrTickerNotFound, ticker)
	}
	return q, nil
}

// fakeStore is an in-memory portfolio store. A nil holdings map means the
// portfolio document does not exist. Counts mutating calls so tests can
// assert the store was never touched.
type fakeStore struct {
	holdings      map[string]int64
	history       []models.Transaction
	mutationCalls int
	failWith      error
}

func (f *fakeStore) GetHoldings(_ context.Context, _ string) (map[string]int64, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.holdings == nil {
		return nil, trading.ErrPortfolioNotFound
	}
	out := make(map[string]int64, len(f.holdings))
	for k, v := range f.holdings {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) ApplyBuy(_ context.Context, _ string, ticker string, qty int64) error {
	f.mutationCalls++
	if f.holdings == nil {
		return nil
	}
	f.holdings[ticker] += qty
	return nil
}

func (f *fakeStore) ApplySell(_ context.Context, _ string, ticker string, qty int64) error {
	f.mutationCalls++
	if f.holdings == nil {
		return trading.ErrPortfolioNotFound
	}
	if qty > f.holdings[ticker] {
		return trading.ErrInsufficientHoldings
	}
	f.holdings[ticker] -= qty
	if f.holdings[ticker] == 0 {
		delete(f.holdings, ticker)
	}
	return nil
}

func (f *fakeStore) AppendTransaction(_ context.Context, _ string, rec models.Transaction) error {
	f.mutationCalls++
	f.history = append(f.history, rec)
	return nil
}

func (f *fakeStore) GetTransactions(_ context.Context, _ string) ([]models.Transaction, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.history == nil {
		return []models.Transaction{}, nil
	}
	return f.history, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestService(gateway *fakeGateway, store *fakeStore) *trading.Service {
	return trading.NewService(gateway, store, common.NewSilentLogger())
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
	if body["service"] != "papertrade" {
		t.Errorf("expected service papertrade, got %s", body["service"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler(nil)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if _, ok := body["version"]; !ok {
		t.Error("expected version field in response")
	}
	if _, ok := body["build"]; !ok {
		t.Error("expected build field in response")
	}
	if _, ok := body["git_commit"]; !ok {
		t.Error("expected git_commit field in response")
	}
}

func TestRequireMethod_Matches(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	ok := RequireMethod(w, req, "GET")
	if !ok {
		t.Error("expected RequireMethod to return true for matching method")
	}
}

func TestRequireMethod_Mismatch(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)
	w := httptest.NewRecorder()

	ok := RequireMethod(w, req, "GET")
	if ok {
		t.Error("expected RequireMethod to return false for mismatching method")
	}
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	data := map[string]string{"key": "value"}
	if err := WriteJSON(w, http.StatusCreated, data); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["key"] != "value" {
		t.Errorf("expected key=value, got %s", body["key"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteError(w, http.StatusBadRequest, "something broke"); err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["status"] != "error" {
		t.Errorf("expected status error, got %s", body["status"])
	}
	if body["error"] != "something broke" {
		t.Errorf("expected error message, got %s", body["error"])
	}
}
