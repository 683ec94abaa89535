package sweden

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/olgasafonova/orgnummer-mcp-server/metrics"
)

// MCP Tool wrapper methods
// These methods wrap the client methods with Args/Result types for MCP integration.

// batchConcurrency bounds the goroutines one batch call fans out to.
const batchConcurrency = 8

// ParseOrgNumberMCP is the MCP wrapper for Describe.
func (c *Client) ParseOrgNumberMCP(ctx context.Context, args ParseOrgNumberArgs) (ParseOrgNumberResult, error) {
	summary, err := c.Describe(ctx, args.OrgNumber)
	if err != nil {
		return ParseOrgNumberResult{}, err
	}
	return ParseOrgNumberResult{Number: &summary}, nil
}

// ValidateOrgNumberMCP reports whether the input is valid. Invalid input is a
// result, not an error.
func (c *Client) ValidateOrgNumberMCP(ctx context.Context, args ValidateOrgNumberArgs) (ValidateOrgNumberResult, error) {
	return c.validate(ctx, args.OrgNumber), nil
}

func (c *Client) validate(ctx context.Context, orgNumber string) ValidateOrgNumberResult {
	summary, err := c.Describe(ctx, orgNumber)
	if err != nil {
		return ValidateOrgNumberResult{Input: orgNumber, Message: err.Error()}
	}
	return ValidateOrgNumberResult{
		Input:          orgNumber,
		Valid:          true,
		Type:           summary.Type,
		IsPersonnummer: summary.IsPersonnummer,
	}
}

// FormatOrgNumberMCP is the MCP wrapper for formatting.
func (c *Client) FormatOrgNumberMCP(ctx context.Context, args FormatOrgNumberArgs) (FormatOrgNumberResult, error) {
	summary, err := c.Describe(ctx, args.OrgNumber)
	if err != nil {
		return FormatOrgNumberResult{}, err
	}

	result := FormatOrgNumberResult{
		Formatted:   summary.LongFormat,
		LongFormat:  summary.LongFormat,
		ShortFormat: summary.ShortFormat,
	}
	if args.WithSeparator != nil && !*args.WithSeparator {
		result.Formatted = summary.ShortFormat
	}
	return result, nil
}

// VATNumberMCP is the MCP wrapper for VAT number derivation.
func (c *Client) VATNumberMCP(ctx context.Context, args VATNumberArgs) (VATNumberResult, error) {
	summary, err := c.Describe(ctx, args.OrgNumber)
	if err != nil {
		return VATNumberResult{}, err
	}
	return VATNumberResult{
		OrganizationNumber: summary.LongFormat,
		VATNumber:          summary.VATNumber,
	}, nil
}

// BatchValidateMCP validates up to MaxBatchSize numbers concurrently.
func (c *Client) BatchValidateMCP(ctx context.Context, args BatchValidateArgs) (BatchValidateResult, error) {
	if len(args.OrgNumbers) == 0 {
		return BatchValidateResult{}, errors.New("at least one organization number is required")
	}
	if len(args.OrgNumbers) > MaxBatchSize {
		return BatchValidateResult{}, fmt.Errorf("too many organization numbers: %d (max %d)", len(args.OrgNumbers), MaxBatchSize)
	}
	metrics.BatchSize.Observe(float64(len(args.OrgNumbers)))

	results := make([]ValidateOrgNumberResult, len(args.OrgNumbers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, number := range args.OrgNumbers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.validate(gctx, number)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchValidateResult{}, err
	}

	result := BatchValidateResult{Results: results, Count: len(results)}
	for _, r := range results {
		if r.Valid {
			result.ValidCount++
		}
	}
	return result, nil
}

// CheckStatusMCP is the MCP wrapper for checking service status.
func (c *Client) CheckStatusMCP(ctx context.Context, args CheckStatusArgs) (CheckStatusResult, error) {
	return CheckStatusResult{
		Available:    true,
		CacheEntries: c.CacheSize(),
	}, nil
}
