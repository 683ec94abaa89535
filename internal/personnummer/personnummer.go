// Package personnummer adapts github.com/personnummer/go to the shape the
// organization number parser consumes, including coordination numbers
// ("samordningsnummer").
package personnummer

import (
	"errors"
	"strings"

	pnr "github.com/personnummer/go/v3"

	apperrors "github.com/olgasafonova/orgnummer-mcp-server/internal/errors"
)

// ErrInvalid is returned for any input that is not a valid personal identity number.
var ErrInvalid = errors.New("invalid personal identity number")

var separators = strings.NewReplacer("-", "", "+", "")

// Personnummer is a validated personal identity number.
type Personnummer struct {
	p      *pnr.Personnummer
	digits string // YYYYMMDDNNNN
}

// Formatted holds the long and short renderings of a personal identity number.
type Formatted struct {
	Long  string // YYYYMMDD-NNNN
	Short string // YYYYMMDDNNNN
}

// Parse validates s and returns the personal identity number it encodes.
// Ten-digit input gets its century from the current year; a "+" separator
// marks a person aged 100 or more.
func Parse(s string) (*Personnummer, error) {
	p, err := pnr.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, apperrors.Invalid(ErrInvalid, "personnummer", s, err.Error())
	}
	digits := separators.Replace(p.Format(true))
	if len(digits) != 12 {
		return nil, apperrors.Invalid(ErrInvalid, "personnummer", s, "unexpected long format "+digits)
	}
	return &Personnummer{p: p, digits: digits}, nil
}

// Valid reports whether s is a valid personal identity number.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format returns the long and short renderings.
func (p *Personnummer) Format() Formatted {
	return Formatted{
		Long:  p.digits[:8] + "-" + p.digits[8:],
		Short: p.digits,
	}
}

// String returns the conventional 10-digit form, using "+" for people aged 100 or more.
func (p *Personnummer) String() string {
	return p.p.Format()
}

// Age returns the age in whole years today.
func (p *Personnummer) Age() int {
	return p.p.GetAge()
}

// Valid always returns true: a Personnummer only exists once validated.
func (p *Personnummer) Valid() bool {
	return true
}

// IsCoordinationNumber reports whether the day of birth carries the +60 offset.
func (p *Personnummer) IsCoordinationNumber() bool {
	return p.p.IsCoordinationNumber()
}

// IsMale reports whether the third serial digit is odd.
func (p *Personnummer) IsMale() bool {
	return p.p.IsMale()
}

// IsFemale reports whether the third serial digit is even.
func (p *Personnummer) IsFemale() bool {
	return p.p.IsFemale()
}
