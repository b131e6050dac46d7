package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/papertrade/papertrade/internal/models"
	"github.com/papertrade/papertrade/internal/trading"
)

// RegisterTools registers the trading tools on the MCP server and returns
// the number registered.
func RegisterTools(s *server.MCPServer, service *trading.Service) int {
	s.AddTool(
		mcp.NewTool("get_quote",
			mcp.WithDescription("Get the current price, symbol, and name for a stock ticker"),
			mcp.WithString("ticker", mcp.Required(), mcp.Description("Stock ticker symbol, e.g. AAPL")),
		),
		getQuoteHandler(service),
	)

	s.AddTool(
		mcp.NewTool("get_portfolio",
			mcp.WithDescription("List the authenticated user's holdings priced at current quotes"),
		),
		getPortfolioHandler(service),
	)

	s.AddTool(
		mcp.NewTool("get_transactions",
			mcp.WithDescription("List the authenticated user's trade history in execution order"),
		),
		getTransactionsHandler(service),
	)

	s.AddTool(
		mcp.NewTool("execute_trade",
			mcp.WithDescription("Execute a simulated buy or sell at the current market price"),
			mcp.WithString("ticker", mcp.Required(), mcp.Description("Stock ticker symbol, e.g. AAPL")),
			mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Number of shares, a positive integer")),
			mcp.WithString("action", mcp.Required(), mcp.Description("Trade direction: buy or sell")),
		),
		executeTradeHandler(service),
	)

	return 4
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into an MCP text result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(data))}}
}

func getQuoteHandler(service *trading.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := strings.ToUpper(strings.TrimSpace(r.GetString("ticker", "")))
		if ticker == "" {
			return errorResult("Error: ticker parameter is required"), nil
		}

		quote, err := service.GetQuote(ctx, ticker)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(quote), nil
	}
}

func getPortfolioHandler(service *trading.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uc, ok := GetUserContext(ctx)
		if !ok {
			return errorResult("Error: no user context"), nil
		}

		positions, err := service.GetPortfolio(ctx, uc.UserID)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(positions), nil
	}
}

func getTransactionsHandler(service *trading.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uc, ok := GetUserContext(ctx)
		if !ok {
			return errorResult("Error: no user context"), nil
		}

		history, err := service.GetTransactions(ctx, uc.UserID)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(history), nil
	}
}

func executeTradeHandler(service *trading.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uc, ok := GetUserContext(ctx)
		if !ok {
			return errorResult("Error: no user context"), nil
		}

		req := models.TradeRequest{
			Ticker: strings.ToUpper(strings.TrimSpace(r.GetString("ticker", ""))),
			Action: models.TradeAction(strings.ToLower(r.GetString("action", ""))),
		}
		if args := r.GetArguments(); args != nil {
			if q, ok := args["quantity"].(float64); ok {
				req.Quantity = int64(q)
			}
		}

		if req.Ticker == "" || req.Quantity <= 0 || !req.Action.Valid() {
			return errorResult("Error: ticker, a positive quantity, and action (buy or sell) are required"), nil
		}

		result, err := service.ExecuteTrade(ctx, uc.UserID, req)
		if err != nil {
			switch {
			case errors.Is(err, trading.ErrPortfolioNotFound):
				return errorResult("Error: no portfolio exists for this user"), nil
			case errors.Is(err, trading.ErrInsufficientHoldings):
				return errorResult("Error: insufficient stocks to sell"), nil
			case errors.Is(err, trading.ErrTickerNotFound):
				return errorResult(fmt.Sprintf("Error: no data found for ticker: %s", req.Ticker)), nil
			default:
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
		}
		return jsonResult(map[string]string{"message": result.Message}), nil
	}
}
