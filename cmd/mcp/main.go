package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/setup"
	setuplogger "github.com/povarna/generative-ai-agents/clinical-validator/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	_ = godotenv.Load()

	// Load Config
	cfg := setup.LoadConfig()

	// Setup logging; stdout belongs to the MCP transport
	logger := setuplogger.Console(cfg.LogLevel)
	log.Logger = logger

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "clinical-validator",
			Version: "1.0.0",
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_clinical_action",
		Description: "Validate a student's clinical action against contraindications, required history and required exam items",
	}, mcpadapter.NewValidateActionHandler(deps.Validator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_case_action",
		Description: "Validate a student's clinical action against a case from the catalog (" + strings.Join(deps.Catalog.IDs(), ", ") + ")",
	}, mcpadapter.NewValidateCaseHandler(deps.Validator, deps.Catalog))
	return server
}
