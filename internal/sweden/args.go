package sweden

import "github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"

// ParseOrgNumberArgs contains parameters for parsing an organization number.
type ParseOrgNumberArgs struct {
	OrgNumber string `json:"org_number" jsonschema:"required" jsonschema_description:"Swedish organization number (NNNNNN-NNNN, 10 digits, or 16-prefixed 12 digits) or personal identity number of a sole trader"`
}

// ParseOrgNumberResult is the MCP response for parsing an organization number.
type ParseOrgNumberResult struct {
	Number *orgnr.Summary `json:"number,omitempty"`
}

// ValidateOrgNumberArgs contains parameters for validating an organization number.
type ValidateOrgNumberArgs struct {
	OrgNumber string `json:"org_number" jsonschema:"required" jsonschema_description:"Swedish organization number or personal identity number"`
}

// ValidateOrgNumberResult is the MCP response for validating an organization number.
type ValidateOrgNumberResult struct {
	Input          string `json:"input"`
	Valid          bool   `json:"valid"`
	Message        string `json:"message,omitempty"` // Why the input was rejected
	Type           string `json:"type,omitempty"`
	IsPersonnummer bool   `json:"is_personnummer"`
}

// FormatOrgNumberArgs contains parameters for formatting an organization number.
type FormatOrgNumberArgs struct {
	OrgNumber     string `json:"org_number" jsonschema:"required" jsonschema_description:"Swedish organization number or personal identity number"`
	WithSeparator *bool  `json:"with_separator,omitempty" jsonschema_description:"Include the separator (default true)"`
}

// FormatOrgNumberResult is the MCP response for formatting an organization number.
type FormatOrgNumberResult struct {
	Formatted   string `json:"formatted"`
	LongFormat  string `json:"long_format"`
	ShortFormat string `json:"short_format"`
}

// VATNumberArgs contains parameters for deriving a VAT number.
type VATNumberArgs struct {
	OrgNumber string `json:"org_number" jsonschema:"required" jsonschema_description:"Swedish organization number or personal identity number"`
}

// VATNumberResult is the MCP response for deriving a VAT number.
type VATNumberResult struct {
	OrganizationNumber string `json:"organization_number"` // Long form
	VATNumber          string `json:"vat_number"`          // SE + 10 digits + 01
}

// BatchValidateArgs contains parameters for validating many numbers at once.
type BatchValidateArgs struct {
	OrgNumbers []string `json:"org_numbers" jsonschema:"required" jsonschema_description:"Organization numbers to validate (max 100)"`
}

// BatchValidateResult is the MCP response for batch validation.
type BatchValidateResult struct {
	Results    []ValidateOrgNumberResult `json:"results"` // Same order as the input
	Count      int                       `json:"count"`
	ValidCount int                       `json:"valid_count"`
}

// CheckStatusArgs contains parameters for checking service status.
type CheckStatusArgs struct {
	// No parameters needed
}

// CheckStatusResult is the MCP response for status check.
type CheckStatusResult struct {
	Available    bool  `json:"available"`
	CacheEntries int64 `json:"cache_entries"`
}
