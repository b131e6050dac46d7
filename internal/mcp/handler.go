// Package mcp exposes the trading operations as MCP tools over HTTP.
package mcp

import (
	"encoding/json"
	"net/http"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/papertrade/papertrade/internal/common"
	"github.com/papertrade/papertrade/internal/config"
	"github.com/papertrade/papertrade/internal/interfaces"
	"github.com/papertrade/papertrade/internal/trading"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	verifier   interfaces.IdentityVerifier
}

// NewHandler creates a new MCP handler with the trading tools registered.
func NewHandler(verifier interfaces.IdentityVerifier, service *trading.Service, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"papertrade",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, service)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Int("tools", toolCount).Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		verifier:   verifier,
	}
}

// ServeHTTP verifies the Bearer token, attaches the user context, and
// delegates to the mcp-go StreamableHTTPServer. Requests without a
// verifiable token receive 401 without reaching any tool.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		h.writeUnauthorized(w, "Authentication required to access MCP endpoint")
		return
	}

	userID, err := h.verifier.VerifyToken(r.Context(), token)
	if err != nil {
		h.writeUnauthorized(w, "Invalid token")
		return
	}

	ctx := WithUserContext(r.Context(), UserContext{UserID: userID})
	h.streamable.ServeHTTP(w, r.WithContext(ctx))
}

func (h *Handler) writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthorized",
		"error_description": description,
	})
}

// bearerToken extracts the token from the Authorization header,
// accepting both raw tokens and the "Bearer " prefix.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(header)
}
