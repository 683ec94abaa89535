package tools

// AllTools contains all tool specifications for the organization number MCP server.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// PARSE TOOLS
	// ==========================================================================
	{
		Name:     "sweden_parse_org_number",
		Method:   "ParseOrgNumber",
		Title:    "Parse Swedish Organization Number",
		Category: "parse",
		Description: `Parse a Swedish organization number (organisationsnummer) and describe it.

USE WHEN: User asks "what kind of company is 556016-0680", "is this an aktiebolag", "parse this org number".

NOT FOR: Checking many numbers at once (use sweden_batch_validate_org_numbers).

PARAMETERS:
- org_number: NNNNNN-NNNN, 10 digits, 16-prefixed 12 digits, or a sole trader's personnummer (required)

RETURNS: Long and short formats, entity type (e.g. Aktiebolag), VAT number and whether the number is a personnummer. Fails on invalid input.`,
		ReadOnly:   true,
		Idempotent: true,
	},

	// ==========================================================================
	// VALIDATE TOOLS
	// ==========================================================================
	{
		Name:     "sweden_validate_org_number",
		Method:   "ValidateOrgNumber",
		Title:    "Validate Swedish Organization Number",
		Category: "validate",
		Description: `Check whether a Swedish organization number is valid (structure and Luhn check digit).

USE WHEN: User asks "is 556016-0681 valid", "check this org number".

NOT FOR: Getting formats or VAT numbers (use sweden_parse_org_number).

PARAMETERS:
- org_number: Number to check (required)

RETURNS: valid flag, entity type when valid, and a message when invalid. Never fails on bad input.`,
		ReadOnly:   true,
		Idempotent: true,
	},
	{
		Name:     "sweden_batch_validate_org_numbers",
		Method:   "BatchValidate",
		Title:    "Batch Validate Organization Numbers",
		Category: "validate",
		Description: `Validate up to 100 Swedish organization numbers in one call.

USE WHEN: User provides a list or spreadsheet column of org numbers to check.

PARAMETERS:
- org_numbers: Array of numbers (required, max 100)

RETURNS: One validation result per input in the same order, plus total and valid counts.`,
		ReadOnly:   true,
		Idempotent: true,
	},

	// ==========================================================================
	// FORMAT TOOLS
	// ==========================================================================
	{
		Name:     "sweden_format_org_number",
		Method:   "FormatOrgNumber",
		Title:    "Format Organization Number",
		Category: "format",
		Description: `Normalize a Swedish organization number to its canonical written form.

USE WHEN: User asks "format 5560160680 with a dash", "strip the dash from this org number".

PARAMETERS:
- org_number: Number to format (required)
- with_separator: Include the separator (default true)

RETURNS: The requested form plus both long (NNNNNN-NNNN) and short (10 digits) forms.`,
		ReadOnly:   true,
		Idempotent: true,
	},
	{
		Name:     "sweden_org_vat_number",
		Method:   "VATNumber",
		Title:    "Swedish VAT Number",
		Category: "format",
		Description: `Derive the Swedish VAT registration number (momsregistreringsnummer) from an organization number.

USE WHEN: User asks "what is the VAT number for 556016-0680", "momsnummer for this company".

PARAMETERS:
- org_number: Organization number (required)

RETURNS: VAT number in the form SE + 10 digits + 01.`,
		ReadOnly:   true,
		Idempotent: true,
	},

	// ==========================================================================
	// STATUS TOOLS
	// ==========================================================================
	{
		Name:     "sweden_org_status",
		Method:   "CheckStatus",
		Title:    "Service Status",
		Category: "status",
		Description: `Report service status.

USE WHEN: Diagnosing the server.

RETURNS: Availability and number of cached parse results.`,
		ReadOnly:   true,
		Idempotent: true,
	},
}
