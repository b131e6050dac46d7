// Package seed bootstraps portfolio documents for local development.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/papertrade/papertrade/internal/common"
	badgerstore "github.com/papertrade/papertrade/internal/storage/badger"
)

const (
	portfoliosFileName = "import/portfolios.json"
	defaultDevUserID   = "dev-user"
)

// portfoliosFile is the JSON structure for the portfolios seed file.
type portfoliosFile struct {
	Users []string `json:"users"`
}

// DevPortfolios creates empty portfolio documents for dev users so that
// trades work out of the box on a fresh database. User IDs come from
// import/portfolios.json when present, otherwise a single default dev
// user is seeded. Non-fatal: failures are logged and skipped.
func DevPortfolios(store *badgerstore.PortfolioStorage, logger *common.Logger) {
	users := []string{defaultDevUserID}

	if path := findPortfoliosFile(); path != "" {
		loaded, err := loadPortfoliosFile(path)
		if err != nil {
			logger.Error().Str("error", err.Error()).Str("path", path).Msg("seed: failed to load portfolios file")
		} else if len(loaded) > 0 {
			users = loaded
		}
	}

	ctx := context.Background()
	for _, userID := range users {
		if err := store.CreatePortfolio(ctx, userID); err != nil {
			logger.Warn().Str("user", userID).Str("error", err.Error()).Msg("seed: failed to create dev portfolio")
			continue
		}
		logger.Info().Str("user", userID).Msg("seed: dev portfolio ready")
	}
}

// findPortfoliosFile searches for import/portfolios.json relative to the
// executable directory first, then falls back to the current working directory.
func findPortfoliosFile() string {
	// Try binary-relative path first
	if exe, err := os.Executable(); err == nil {
		binDir := filepath.Dir(exe)
		p := filepath.Join(binDir, portfoliosFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Fall back to CWD
	if _, err := os.Stat(portfoliosFileName); err == nil {
		return portfoliosFileName
	}

	return ""
}

// loadPortfoliosFile reads and parses the portfolios JSON file.
func loadPortfoliosFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var f portfoliosFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return f.Users, nil
}
