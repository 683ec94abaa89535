// Package orgnr parses, validates and classifies Swedish organization numbers
// ("organisationsnummer").
//
// A sole proprietorship is registered under its owner's personal identity
// number, so Parse first tries the input as a personnummer and only then
// applies the organization number rules:
//
//   - optional century prefix, which must be 16
//   - digits 3-4 at least 20, digits 1-2 at least 10
//   - a valid Luhn check digit
//
// An OrganizationNumber only exists in a valid state. Values are immutable and
// safe for concurrent use.
package orgnr

import (
	"errors"
	"strings"

	apperrors "github.com/olgasafonova/orgnummer-mcp-server/internal/errors"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/luhn"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/personnummer"
)

// ErrInvalidInput is the single error kind returned by Parse.
var ErrInvalidInput = errors.New("invalid organization number")

// VAT registration numbers are the organization number wrapped in a country
// prefix and a fixed suffix.
const (
	vatPrefix = "SE"
	vatSuffix = "01"
)

// PersonalNumber is the personal identity number behind a sole proprietorship.
// *personnummer.Personnummer implements it.
type PersonalNumber interface {
	// Format returns Long as YYYYMMDD-NNNN and Short as YYYYMMDDNNNN.
	Format() personnummer.Formatted
	Age() int
	Valid() bool
}

// PersonalNumberParser parses a personal identity number.
type PersonalNumberParser func(string) (PersonalNumber, error)

// ParsePersonnummer is the default PersonalNumberParser.
func ParsePersonnummer(s string) (PersonalNumber, error) {
	p, err := personnummer.Parse(s)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// repr is either plainNumber or personBacked.
type repr interface {
	canonical() string
	formatted() Formatted
	kind() EntityKind
}

// plainNumber holds the validated 10 digits.
type plainNumber struct {
	digits      string
	parsePerson PersonalNumberParser
}

func (n plainNumber) canonical() string { return n.digits }

func (n plainNumber) formatted() Formatted {
	return Formatted{
		Long:  n.digits[:6] + "-" + n.digits[6:],
		Short: n.digits,
	}
}

func (n plainNumber) kind() EntityKind {
	return EntityKind(n.digits[0] - '0')
}

// personBacked wraps a sole proprietorship's personal identity number.
type personBacked struct {
	person PersonalNumber
}

// canonical drops the century digits and the separator from the long form.
func (p personBacked) canonical() string {
	return strings.ReplaceAll(p.person.Format().Long[2:13], "-", "")
}

func (p personBacked) formatted() Formatted {
	f := p.person.Format()
	long := f.Long[2:]
	if p.person.Age() >= 100 {
		long = strings.Replace(long, "-", "+", 1)
	}
	return Formatted{
		Long:  long,
		Short: f.Short[2:],
	}
}

func (p personBacked) kind() EntityKind { return KindSoleTrader }

// zeroNumber stands in for the repr of an OrganizationNumber{}.
type zeroNumber struct{}

func (zeroNumber) canonical() string { return "" }
func (zeroNumber) formatted() Formatted { return Formatted{} }
func (zeroNumber) kind() EntityKind { return KindUnused }

// OrganizationNumber is a validated Swedish organization number.
// Obtain one from Parse. The zero value, which Parse returns alongside an
// error, is not a number: Valid reports false, the formats and VATNumber are
// empty and Type is UnknownType.
type OrganizationNumber struct {
	r repr
}

func (o OrganizationNumber) rep() repr {
	if o.r == nil {
		return zeroNumber{}
	}
	return o.r
}

// Parser parses organization numbers with a configurable personnummer collaborator.
type Parser struct {
	parsePerson PersonalNumberParser
}

// Option configures a Parser.
type Option func(*Parser)

// WithPersonalNumberParser replaces the personal identity number parser.
func WithPersonalNumberParser(fn PersonalNumberParser) Option {
	return func(p *Parser) {
		p.parsePerson = fn
	}
}

// NewParser creates a Parser backed by the personnummer package unless
// overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{parsePerson: ParsePersonnummer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses input with the default Parser.
func Parse(input string) (OrganizationNumber, error) {
	return defaultParser.Parse(input)
}

// MustParse is like Parse but panics on invalid input. Intended for fixtures.
func MustParse(input string) OrganizationNumber {
	o, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return o
}

// Valid reports whether input parses as an organization number.
func Valid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// Parse returns the organization number encoded in input. Every failure
// matches ErrInvalidInput.
func (p *Parser) Parse(input string) (OrganizationNumber, error) {
	cleaned := strings.TrimSpace(input)

	if person, err := p.parsePerson(cleaned); err == nil {
		return OrganizationNumber{r: personBacked{person: person}}, nil
	}

	digits, ok := matchStructure(cleaned)
	if !ok || !luhn.Valid(digits) {
		return OrganizationNumber{}, apperrors.Invalid(ErrInvalidInput, "org_number", input,
			"not a valid Swedish organization number")
	}

	return OrganizationNumber{r: plainNumber{digits: digits, parsePerson: p.parsePerson}}, nil
}

// Valid returns true for every value Parse yields; the method mirrors
// PersonalNumber.Valid. Only the zero value reports false.
func (o OrganizationNumber) Valid() bool {
	return o.r != nil
}

// IsPersonnummer reports whether the number is a sole proprietor's personal
// identity number.
func (o OrganizationNumber) IsPersonnummer() bool {
	_, ok := o.r.(personBacked)
	return ok
}

// Personnummer returns the personal identity number behind the organization
// number. It fails when the digits do not validate as one.
func (o OrganizationNumber) Personnummer() (PersonalNumber, error) {
	switch r := o.r.(type) {
	case personBacked:
		return r.person, nil
	case plainNumber:
		return r.parsePerson(r.digits)
	default:
		return nil, ErrInvalidInput
	}
}

// Digits returns the canonical 10-digit form without separator or prefix.
func (o OrganizationNumber) Digits() string {
	return o.rep().canonical()
}

// Kind returns the entity group. Sole proprietorships are KindSoleTrader.
func (o OrganizationNumber) Kind() EntityKind {
	return o.rep().kind()
}

// Type returns the Swedish label of the entity group.
func (o OrganizationNumber) Type() string {
	return o.Kind().Label()
}

// VATNumber returns the Swedish VAT registration number, SE + 10 digits + 01.
func (o OrganizationNumber) VATNumber() string {
	if o.r == nil {
		return ""
	}
	return vatPrefix + o.r.canonical() + vatSuffix
}

// Equal reports whether both values denote the same number.
func (o OrganizationNumber) Equal(other OrganizationNumber) bool {
	return o.IsPersonnummer() == other.IsPersonnummer() && o.Digits() == other.Digits()
}
