package orgnr

// Summary is a flat, JSON-friendly view of a parse result. Invalid input
// yields a Summary with only Input set.
type Summary struct {
	Input          string `json:"input"`
	Valid          bool   `json:"valid"`
	LongFormat     string `json:"long_format,omitempty"`
	ShortFormat    string `json:"short_format,omitempty"`
	Type           string `json:"type,omitempty"`
	VATNumber      string `json:"vat_number,omitempty"`
	IsPersonnummer bool   `json:"is_personnummer"`
}

// Summary describes o as parsed from input.
func (o OrganizationNumber) Summary(input string) Summary {
	f := o.Format()
	return Summary{
		Input:          input,
		Valid:          o.Valid(),
		LongFormat:     f.Long,
		ShortFormat:    f.Short,
		Type:           o.Type(),
		VATNumber:      o.VATNumber(),
		IsPersonnummer: o.IsPersonnummer(),
	}
}

// Describe parses input and summarizes the result. The error is the one
// Parse returns.
func (p *Parser) Describe(input string) (Summary, error) {
	o, err := p.Parse(input)
	if err != nil {
		return Summary{Input: input}, err
	}
	return o.Summary(input), nil
}

// Describe uses the default Parser.
func Describe(input string) (Summary, error) {
	return defaultParser.Describe(input)
}
