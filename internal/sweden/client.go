// Package sweden exposes Swedish organization number parsing as MCP tools.
// The Client memoizes parse results and records tracing spans and metrics for
// every lookup.
package sweden

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/olgasafonova/orgnummer-mcp-server/internal/errors"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/infra"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"
	"github.com/olgasafonova/orgnummer-mcp-server/metrics"
	"github.com/olgasafonova/orgnummer-mcp-server/tracing"
)

const (
	defaultCacheTTL     = 15 * time.Minute
	defaultCacheEntries = 500

	// MaxBatchSize caps the numbers accepted by one batch call.
	MaxBatchSize = 100
)

// Client parses and describes Swedish organization numbers.
type Client struct {
	parser    *orgnr.Parser
	cache     *infra.Cache[orgnr.Summary]
	ownsCache bool
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithParser replaces the organization number parser.
func WithParser(p *orgnr.Parser) ClientOption {
	return func(c *Client) {
		c.parser = p
	}
}

// WithCache sets a shared cache. The caller keeps ownership and must close it.
func WithCache(cache *infra.Cache[orgnr.Summary]) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheTTL sets how long parse results are memoized.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Sweden client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		cacheTTL: defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.parser == nil {
		c.parser = orgnr.NewParser()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.cache == nil {
		c.cache = infra.NewCache[orgnr.Summary](defaultCacheEntries, infra.WithEvictionHook(metrics.RecordEvictions))
		c.ownsCache = true
	}

	return c
}

// Close releases the cache if the client created it.
func (c *Client) Close() {
	if c.ownsCache {
		c.cache.Close()
	}
}

// CacheSize returns the number of memoized results.
func (c *Client) CacheSize() int64 {
	return c.cache.Size()
}

// NormalizeOrgNumber trims surrounding whitespace. Separators are left to the
// parser, since "+" carries meaning for personal identity numbers.
func NormalizeOrgNumber(orgNumber string) string {
	return strings.TrimSpace(orgNumber)
}

// Describe parses orgNumber and returns its summary. Invalid input returns an
// error matching orgnr.ErrInvalidInput. Only valid organization numbers are
// cached: a personnummer-backed summary depends on today's date (century of
// 10-digit input, "+" at age 100) and is parsed afresh each time.
func (c *Client) Describe(ctx context.Context, orgNumber string) (orgnr.Summary, error) {
	key := NormalizeOrgNumber(orgNumber)
	if key == "" {
		return orgnr.Summary{Input: orgNumber}, apperrors.NewValidationError("org_number", "", "organization number is required")
	}

	_, span := tracing.StartSpan(ctx, "sweden.describe")
	defer span.End()

	if cached, ok := c.cache.Get(key); ok {
		metrics.RecordCacheAccess(true)
		recordOutcome(cached)
		tracing.AddOrgNumberAttributes(span, cached.Type, cached.IsPersonnummer)
		cached.Input = orgNumber
		return cached, nil
	}
	metrics.RecordCacheAccess(false)

	summary, err := c.parser.Describe(key)
	recordOutcome(summary)
	tracing.AddOrgNumberAttributes(span, summary.Type, summary.IsPersonnummer)
	if err != nil {
		tracing.RecordError(span, err)
		c.logger.Debug("Rejected organization number", "input", orgNumber)
		return orgnr.Summary{Input: orgNumber}, err
	}

	if !summary.IsPersonnummer {
		c.cache.Set(key, summary, c.cacheTTL)
		metrics.SetCacheSize(c.cache.Size())
	}

	summary.Input = orgNumber
	return summary, nil
}

func recordOutcome(s orgnr.Summary) {
	switch {
	case !s.Valid:
		metrics.RecordParse(metrics.OutcomeInvalid)
	case s.IsPersonnummer:
		metrics.RecordParse(metrics.OutcomePersonnummer)
	default:
		metrics.RecordParse(metrics.OutcomeOrganisation)
	}
}
