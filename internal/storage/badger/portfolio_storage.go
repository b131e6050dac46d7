package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/models"
	"github.com/papertrade/papertrade/internal/trading"
)

// PortfolioDoc is the per-user portfolio document: a mapping from ticker
// to share count. Counts are always > 0; a ticker at zero is removed.
type PortfolioDoc struct {
	UserID   string `badgerhold:"key"`
	Holdings map[string]int64
}

// TransactionLog is the per-user append-only trade history document.
type TransactionLog struct {
	UserID  string `badgerhold:"key"`
	History []models.Transaction
}

// PortfolioStorage implements interfaces.PortfolioStore using BadgerDB.
type PortfolioStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewPortfolioStorage creates a new portfolio storage backed by BadgerDB.
func NewPortfolioStorage(db *BadgerDB, logger *common.Logger) *PortfolioStorage {
	return &PortfolioStorage{
		db:     db,
		logger: logger,
	}
}

// GetHoldings retrieves the ticker -> share count mapping for a user.
// A read never creates the document.
func (s *PortfolioStorage) GetHoldings(_ context.Context, userID string) (map[string]int64, error) {
	var doc PortfolioDoc
	err := s.db.Store().Get(userID, &doc)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, trading.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio for %s: %w", userID, err)
	}

	holdings := make(map[string]int64, len(doc.Holdings))
	for ticker, count := range doc.Holdings {
		holdings[ticker] = count
	}
	return holdings, nil
}

// ApplyBuy increments the share count for a ticker, creating the field if
// absent. When no portfolio document exists the buy is a no-op; callers
// decide how to surface that.
func (s *PortfolioStorage) ApplyBuy(_ context.Context, userID, ticker string, qty int64) error {
	err := s.db.Store().UpdateMatching(&PortfolioDoc{},
		badgerhold.Where(badgerhold.Key).Eq(userID),
		func(record interface{}) error {
			doc, ok := record.(*PortfolioDoc)
			if !ok {
				return fmt.Errorf("unexpected record type %T", record)
			}
			if doc.Holdings == nil {
				doc.Holdings = make(map[string]int64)
			}
			doc.Holdings[ticker] += qty
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to apply buy for %s: %w", userID, err)
	}
	return nil
}

// ApplySell decrements the share count for a ticker. The check and the
// decrement run inside a single store transaction. A count reaching
// exactly zero removes the ticker field entirely.
func (s *PortfolioStorage) ApplySell(_ context.Context, userID, ticker string, qty int64) error {
	matched := false
	err := s.db.Store().UpdateMatching(&PortfolioDoc{},
		badgerhold.Where(badgerhold.Key).Eq(userID),
		func(record interface{}) error {
			doc, ok := record.(*PortfolioDoc)
			if !ok {
				return fmt.Errorf("unexpected record type %T", record)
			}
			matched = true

			current := doc.Holdings[ticker]
			if qty > current {
				return trading.ErrInsufficientHoldings
			}
			remaining := current - qty
			if remaining == 0 {
				delete(doc.Holdings, ticker)
			} else {
				doc.Holdings[ticker] = remaining
			}
			return nil
		})
	if err != nil {
		if errors.Is(err, trading.ErrInsufficientHoldings) {
			return trading.ErrInsufficientHoldings
		}
		return fmt.Errorf("failed to apply sell for %s: %w", userID, err)
	}
	if !matched {
		return trading.ErrPortfolioNotFound
	}
	return nil
}

// AppendTransaction appends a record to the user's transaction log,
// creating the log document if absent. Records are never reordered.
func (s *PortfolioStorage) AppendTransaction(_ context.Context, userID string, rec models.Transaction) error {
	matched := false
	err := s.db.Store().UpdateMatching(&TransactionLog{},
		badgerhold.Where(badgerhold.Key).Eq(userID),
		func(record interface{}) error {
			log, ok := record.(*TransactionLog)
			if !ok {
				return fmt.Errorf("unexpected record type %T", record)
			}
			matched = true
			log.History = append(log.History, rec)
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to append transaction for %s: %w", userID, err)
	}
	if matched {
		return nil
	}

	log := TransactionLog{
		UserID:  userID,
		History: []models.Transaction{rec},
	}
	if err := s.db.Store().Insert(userID, &log); err != nil {
		return fmt.Errorf("failed to create transaction log for %s: %w", userID, err)
	}
	return nil
}

// GetTransactions returns the user's history in append order, or an empty
// slice when no log document exists.
func (s *PortfolioStorage) GetTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	var log TransactionLog
	err := s.db.Store().Get(userID, &log)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return []models.Transaction{}, nil
		}
		return nil, fmt.Errorf("failed to get transactions for %s: %w", userID, err)
	}
	return log.History, nil
}

// CreatePortfolio creates an empty portfolio document for a user if one
// does not already exist. Used by dev-mode seeding.
func (s *PortfolioStorage) CreatePortfolio(_ context.Context, userID string) error {
	doc := PortfolioDoc{
		UserID:   userID,
		Holdings: make(map[string]int64),
	}
	err := s.db.Store().Insert(userID, &doc)
	if err != nil && err != badgerhold.ErrKeyExists {
		return fmt.Errorf("failed to create portfolio for %s: %w", userID, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *PortfolioStorage) Close() error {
	return s.db.Close()
}
