// Package testvectors checks the organization number parser against shared
// test vectors in the organisationsnummer/meta list.json format.
package testvectors

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"
)

//go:embed testdata/list.json
var embeddedList []byte

// Vector is one entry of a list.json file. Only Input and Valid are
// meaningful for invalid entries.
type Vector struct {
	Input       string `json:"input"`
	LongFormat  string `json:"long_format"`
	ShortFormat string `json:"short_format"`
	Type        string `json:"type"`
	VATNumber   string `json:"vat_number"`
	Valid       bool   `json:"valid"`
}

// Mismatch is a field where the parser disagrees with a vector.
type Mismatch struct {
	Input string `json:"input"`
	Field string `json:"field"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%q: %s = %q, want %q", m.Input, m.Field, m.Got, m.Want)
}

// Report summarizes a run.
type Report struct {
	Total      int        `json:"total"`
	Failed     int        `json:"failed"` // vectors with at least one mismatch
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// OK reports whether every vector matched.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Decode reads a JSON array of vectors.
func Decode(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	if err := json.NewDecoder(r).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decode test vectors: %w", err)
	}
	return vectors, nil
}

// Load reads vectors from a file.
func Load(path string) ([]Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Embedded returns the vectors shipped with the package.
func Embedded() []Vector {
	vectors, err := Decode(bytes.NewReader(embeddedList))
	if err != nil {
		panic(err)
	}
	return vectors
}

// Run checks every vector against p.
func Run(p *orgnr.Parser, vectors []Vector) Report {
	report := Report{Total: len(vectors)}
	for _, v := range vectors {
		if mismatches := Check(p, v); len(mismatches) > 0 {
			report.Failed++
			report.Mismatches = append(report.Mismatches, mismatches...)
		}
	}
	return report
}

// Check compares one vector with the parser's output.
func Check(p *orgnr.Parser, v Vector) []Mismatch {
	summary, err := p.Describe(v.Input)
	if !v.Valid {
		if err == nil {
			return []Mismatch{{Input: v.Input, Field: "valid", Want: "false", Got: "true"}}
		}
		return nil
	}
	if err != nil {
		return []Mismatch{{Input: v.Input, Field: "valid", Want: "true", Got: "false"}}
	}

	var out []Mismatch
	compare := func(field, want, got string) {
		if want != got {
			out = append(out, Mismatch{Input: v.Input, Field: field, Want: want, Got: got})
		}
	}
	compare("long_format", v.LongFormat, summary.LongFormat)
	compare("short_format", v.ShortFormat, summary.ShortFormat)
	compare("type", v.Type, summary.Type)
	compare("vat_number", v.VATNumber, summary.VATNumber)

	// Sole traders must also be recognized from their long form.
	if v.Type == orgnr.KindSoleTrader.Label() {
		o, err := p.Parse(v.LongFormat)
		switch {
		case err != nil:
			out = append(out, Mismatch{Input: v.LongFormat, Field: "valid", Want: "true", Got: "false"})
		case !o.IsPersonnummer():
			out = append(out, Mismatch{Input: v.LongFormat, Field: "is_personnummer", Want: "true", Got: "false"})
		}
	}
	return out
}
