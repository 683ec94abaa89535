// Orgnummer MCP Server - A Model Context Protocol server for Swedish
// organization numbers. Parses, validates, formats and classifies
// organisationsnummer and derives VAT numbers.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/config"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/infra"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/sweden"
	"github.com/olgasafonova/orgnummer-mcp-server/metrics"
	"github.com/olgasafonova/orgnummer-mcp-server/tools"
	"github.com/olgasafonova/orgnummer-mcp-server/tracing"
)

// recoverPanic wraps a function with panic recovery and logs instead of crashing
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

const (
	ServerName    = "orgnummer-mcp-server"
	ServerVersion = "1.0.0"
)

const instructions = `Orgnummer MCP Server parses and validates Swedish organization numbers (organisationsnummer).

Available tools:
- sweden_parse_org_number: Formats, entity type and VAT number for one number
- sweden_validate_org_number: Valid or not, with a reason
- sweden_batch_validate_org_numbers: Validate up to 100 numbers
- sweden_format_org_number: Long (NNNNNN-NNNN) or short (10 digit) form
- sweden_org_vat_number: VAT number (SE + 10 digits + 01)
- sweden_org_status: Service status

Sole traders are registered under the owner's personnummer; such numbers are reported with is_personnummer=true and type "Enskild firma".`

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracingConfig := tracing.DefaultConfig()
	tracingConfig.ServiceVersion = ServerVersion
	shutdownTracing, err := tracing.Setup(ctx, tracingConfig)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	cache := infra.NewCache[orgnr.Summary](cfg.Cache.MaxEntries, infra.WithEvictionHook(metrics.RecordEvictions))
	defer cache.Close()

	client := sweden.NewClient(
		sweden.WithCache(cache),
		sweden.WithCacheTTL(cfg.Cache.TTL.Duration),
		sweden.WithLogger(logger),
	)
	defer client.Close()

	server := newMCPServer(client, logger)

	logger.Info("Starting Orgnummer MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"transport", cfg.Transport,
		"tracing", tracingConfig.Enabled,
	)

	if cfg.Transport == config.TransportHTTP {
		return serveHTTP(ctx, cfg, server, client, logger)
	}

	// Run server on stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func newMCPServer(client *sweden.Client, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: instructions,
	})

	tools.NewHandlerRegistry(client, logger).RegisterAll(server)
	return server
}
