// Package app wires application components and dependencies.
package app

import (
	"strings"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/config"
	"github.com/papertrade/papertrade/internal/handlers"
	"github.com/papertrade/papertrade/internal/identity"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/mcp"
	"github.com/papertrade/papertrade/internal/quotes"
	"github.com/papertrade/papertrade/internal/seed"
	badgerstore "github.com/papertrade/papertrade/internal/storage/badger"
	"github.com/papertrade/papertrade/internal/trading"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Identity interfaces.IdentityVerifier
	Quotes   interfaces.QuoteGateway
	Store    *badgerstore.PortfolioStorage
	Service  *trading.Service

	// HTTP handlers
	QueryHandler        *handlers.QueryHandler
	TradeHandler        *handlers.TradeHandler
	PortfolioHandler    *handlers.PortfolioHandler
	TransactionsHandler *handlers.TransactionsHandler
	HealthHandler       *handlers.HealthHandler
	VersionHandler      *handlers.VersionHandler
	MCPHandler          *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	// Validate environment setting
	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("RUNNING IN DEV MODE — dev portfolios seeded, do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	db, err := badgerstore.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}
	a.Store = badgerstore.NewPortfolioStorage(db, logger)

	a.Identity = identity.NewClient(cfg.Clients.Identity)
	a.Quotes = quotes.NewClient(cfg.Clients.Quotes)
	a.Service = trading.NewService(a.Quotes, a.Store, logger)

	a.initHandlers()

	if cfg.IsDevMode() {
		go seed.DevPortfolios(a.Store, logger)
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.QueryHandler = handlers.NewQueryHandler(a.Logger, a.Service)
	a.TradeHandler = handlers.NewTradeHandler(a.Logger, a.Identity, a.Service)
	a.PortfolioHandler = handlers.NewPortfolioHandler(a.Logger, a.Identity, a.Service)
	a.TransactionsHandler = handlers.NewTransactionsHandler(a.Logger, a.Identity, a.Service)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Identity, a.Service, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
