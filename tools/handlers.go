package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/sweden"
	"github.com/olgasafonova/orgnummer-mcp-server/metrics"
	"github.com/olgasafonova/orgnummer-mcp-server/tracing"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	swedenClient *sweden.Client
	logger       *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(swedenClient *sweden.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		swedenClient: swedenClient,
		logger:       logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "ParseOrgNumber":
		register(h, server, tool, spec, h.swedenClient.ParseOrgNumberMCP)
	case "ValidateOrgNumber":
		register(h, server, tool, spec, h.swedenClient.ValidateOrgNumberMCP)
	case "BatchValidate":
		register(h, server, tool, spec, h.swedenClient.BatchValidateMCP)
	case "FormatOrgNumber":
		register(h, server, tool, spec, h.swedenClient.FormatOrgNumberMCP)
	case "VATNumber":
		register(h, server, tool, spec, h.swedenClient.VATNumberMCP)
	case "CheckStatus":
		register(h, server, tool, spec, h.swedenClient.CheckStatusMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
		return false
	}
	return true
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, wrap(h, spec, method))
}

// wrap builds the tool handler. Split from register so tests can call the
// handler without an MCP session.
func wrap[Args, Result any](
	h *HandlerRegistry,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) mcp.ToolHandlerFor[Args, Result] {
	return func(ctx context.Context, req *mcp.CallToolRequest, args Args) (_ *mcp.CallToolResult, result Result, err error) {
		defer h.recoverPanic(spec.Name, &err)

		// Start trace span
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Category)
		span.SetAttributes(attribute.Bool("mcp.tool.readonly", spec.ReadOnly))

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err = method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			var zero Result
			return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return nil, result, nil
	}
}

// recoverPanic recovers from panics in tool handlers and turns them into an
// error for the caller.
func (h *HandlerRegistry) recoverPanic(toolName string, errp *error) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
		if errp != nil {
			*errp = fmt.Errorf("%s failed: internal error", toolName)
		}
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case sweden.ParseOrgNumberArgs:
		attrs = append(attrs, "org_number", a.OrgNumber)
	case sweden.ValidateOrgNumberArgs:
		attrs = append(attrs, "org_number", a.OrgNumber)
	case sweden.FormatOrgNumberArgs:
		attrs = append(attrs, "org_number", a.OrgNumber)
	case sweden.VATNumberArgs:
		attrs = append(attrs, "org_number", a.OrgNumber)
	case sweden.BatchValidateArgs:
		attrs = append(attrs, "batch_size", len(a.OrgNumbers))
	case sweden.CheckStatusArgs:
		// No args to log
	}

	// Add extractable fields from result
	switch r := result.(type) {
	case sweden.ParseOrgNumberResult:
		if r.Number != nil {
			attrs = append(attrs, "type", r.Number.Type, "is_personnummer", r.Number.IsPersonnummer)
		}
	case sweden.ValidateOrgNumberResult:
		attrs = append(attrs, "valid", r.Valid)
	case sweden.BatchValidateResult:
		attrs = append(attrs, "count", r.Count, "valid_count", r.ValidCount)
	case sweden.CheckStatusResult:
		attrs = append(attrs, "cache_entries", r.CacheEntries)
	}

	h.logger.Info("Tool executed", attrs...)
}
