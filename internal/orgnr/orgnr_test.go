package orgnr

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/olgasafonova/orgnummer-mcp-server/internal/errors"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/personnummer"
)

// validNumbers are Luhn-valid organization numbers, one per entity group where
// one exists.
var validNumbers = []string{
	"1020304059", // Dödsbon
	"2021005489", // Stat, landsting, kommun eller församling
	"2120000142",
	"3020304055", // foreign company
	"4020304053", // unused group
	"5560160680", // Aktiebolag
	"5561034249",
	"5592440001",
	"5520012344",
	"6020304058", // Enkelt bolag
	"7164110616", // Ekonomisk förening
	"8020010453", // Ideella förening
	"8176000456",
	"9696637843", // Handelsbolag
}

type fakePerson struct {
	long  string
	short string
	age   int
}

func (f fakePerson) Format() personnummer.Formatted {
	return personnummer.Formatted{Long: f.long, Short: f.short}
}

func (f fakePerson) Age() int    { return f.age }
func (f fakePerson) Valid() bool { return true }

func fakeParser(known map[string]fakePerson) PersonalNumberParser {
	return func(s string) (PersonalNumber, error) {
		if p, ok := known[s]; ok {
			return p, nil
		}
		return nil, personnummer.ErrInvalid
	}
}

func TestParse_Scenarios(t *testing.T) {
	t.Run("aktiebolag with dash", func(t *testing.T) {
		o, err := Parse("556016-0680")
		require.NoError(t, err)
		assert.True(t, o.Valid())
		assert.False(t, o.IsPersonnummer())
		assert.Equal(t, "Aktiebolag", o.Type())
		assert.Equal(t, KindAktiebolag, o.Kind())
		assert.Equal(t, "SE556016068001", o.VATNumber())
	})

	t.Run("aktiebolag without dash", func(t *testing.T) {
		o, err := Parse("5561034249")
		require.NoError(t, err)
		assert.Equal(t, Formatted{Long: "556103-4249", Short: "5561034249"}, o.Format())
		assert.Equal(t, "556103-4249", o.FormatString(true))
		assert.Equal(t, "5561034249", o.FormatString(false))
		assert.Equal(t, "556103-4249", o.String())
	})

	t.Run("bad checksum", func(t *testing.T) {
		_, err := Parse("556016-0681")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("personnummer", func(t *testing.T) {
		o, err := Parse("121212121212")
		require.NoError(t, err)
		assert.True(t, o.Valid())
		assert.True(t, o.IsPersonnummer())
		assert.Equal(t, "Enskild firma", o.Type())
		assert.Equal(t, "SE121212121201", o.VATNumber())
		assert.Equal(t, "1212121212", o.Format().Short)
		assert.Equal(t, "121212+1212", o.Format().Long)
	})

	t.Run("recent aktiebolag", func(t *testing.T) {
		o, err := Parse("559244-0001")
		require.NoError(t, err)
		assert.Equal(t, "Aktiebolag", o.Type())
	})
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"letters", "abcdefghij"},
		{"too short", "556016068"},
		{"too long", "55601606800"},
		{"separator in wrong place", "5560-160680"},
		{"double separator", "556016--0680"},
		{"inner space", "556016 0680"},
		{"bad checksum", "5560160681"},
		{"prefix other than 16", "155560160680"},
		{"prefix 19", "195560160680"},
		{"group B below 20", "5519012347"},
		{"group B month-like", "5513001239"},
		{"group A leading zero", "0920012341"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, OrganizationNumber{}, o)
			assert.False(t, Valid(tt.input))
		})
	}
}

func TestParse_ErrorIsUniform(t *testing.T) {
	inputs := []string{"155560160680", "5560160681", "0920012341", "5519012347", "nope"}

	var messages []string
	for _, in := range inputs {
		_, err := Parse(in)
		require.Error(t, err)

		var ve *apperrors.ValidationError
		require.True(t, errors.As(err, &ve))
		messages = append(messages, ve.Message)
	}
	for _, m := range messages[1:] {
		assert.Equal(t, messages[0], m)
	}
}

func TestParse_ShortFormRoundTrips(t *testing.T) {
	for _, n := range validNumbers {
		t.Run(n, func(t *testing.T) {
			o, err := Parse(n)
			require.NoError(t, err)
			assert.Equal(t, n, o.Format().Short)
			assert.Equal(t, n, o.Digits())
			assert.Equal(t, n[:6]+"-"+n[6:], o.Format().Long)
		})
	}
}

func TestParse_DashEquivalence(t *testing.T) {
	for _, n := range validNumbers {
		t.Run(n, func(t *testing.T) {
			plain, err := Parse(n)
			require.NoError(t, err)

			dashed, err := Parse(n[:6] + "-" + n[6:])
			require.NoError(t, err)

			plus, err := Parse(n[:6] + "+" + n[6:])
			require.NoError(t, err)

			assert.True(t, plain.Equal(dashed))
			assert.True(t, plain.Equal(plus))
			assert.Equal(t, plain.Format(), dashed.Format())
			assert.Equal(t, plain.Format(), plus.Format())
		})
	}
}

func TestParse_PrefixRule(t *testing.T) {
	for _, n := range validNumbers {
		t.Run(n, func(t *testing.T) {
			base, err := Parse(n)
			require.NoError(t, err)

			prefixed, err := Parse("16" + n)
			require.NoError(t, err)
			assert.True(t, base.Equal(prefixed))
			assert.Equal(t, n, prefixed.Format().Short)

			dashedPrefixed, err := Parse("16" + n[:6] + "-" + n[6:])
			require.NoError(t, err)
			assert.True(t, base.Equal(dashedPrefixed))

			for _, prefix := range []string{"15", "17", "19", "20", "00", "61"} {
				_, err := Parse(prefix + n)
				assert.ErrorIs(t, err, ErrInvalidInput, "prefix %s", prefix)
			}
		})
	}

	_, err := Parse("165560160681")
	assert.ErrorIs(t, err, ErrInvalidInput, "prefix 16 does not rescue a bad checksum")
}

func TestParse_SingleDigitChangeRejected(t *testing.T) {
	for _, n := range validNumbers {
		for i := 0; i < len(n); i++ {
			b := []byte(n)
			b[i] = '0' + (b[i]-'0'+1)%10
			changed := string(b)
			_, err := Parse(changed)
			assert.Error(t, err, "%s (position %d of %s)", changed, i, n)
		}
	}
}

func TestParse_TrimsSpace(t *testing.T) {
	o, err := Parse("  556016-0680\n")
	require.NoError(t, err)
	assert.Equal(t, "5560160680", o.Digits())
}

func TestVATNumber_Pattern(t *testing.T) {
	pattern := regexp.MustCompile(`^SE\d{10}01$`)

	inputs := append([]string{"121212121212", "19900101-0017"}, validNumbers...)
	for _, in := range inputs {
		o, err := Parse(in)
		require.NoError(t, err, in)
		assert.Regexp(t, pattern, o.VATNumber())
	}
}

func TestType_AllGroups(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1020304059", "Dödsbon"},
		{"2021005489", "Stat, landsting, kommun eller församling"},
		{"3020304055", "Utländska företag som bedriver näringsverksamhet eller äger fastigheter i Sverige"},
		{"4020304053", "Okänt"},
		{"5560160680", "Aktiebolag"},
		{"6020304058", "Enkelt bolag"},
		{"7164110616", "Ekonomisk förening eller bostadsrättsförening"},
		{"8020010453", "Ideella förening och stiftelse"},
		{"9696637843", "Handelsbolag, kommanditbolag och enkelt bolag"},
		{"19900101-0017", "Enskild firma"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.input).Type())
		})
	}
}

func TestEntityKind_Label(t *testing.T) {
	assert.Equal(t, "Enskild firma", KindSoleTrader.Label())
	assert.Equal(t, UnknownType, KindUnused.Label())
	assert.Equal(t, UnknownType, EntityKind(-1).Label())
	assert.Equal(t, UnknownType, EntityKind(10).Label())
	assert.Equal(t, "Aktiebolag", KindAktiebolag.String())
}

func TestPersonnummerPrecedence(t *testing.T) {
	o, err := Parse("19900101-0017")
	require.NoError(t, err)

	assert.True(t, o.IsPersonnummer())
	assert.Equal(t, KindSoleTrader, o.Kind())
	assert.Equal(t, "Enskild firma", o.Type())
	assert.Equal(t, Formatted{Long: "900101-0017", Short: "9001010017"}, o.Format())
	assert.Equal(t, "SE900101001701", o.VATNumber())

	p, err := o.Personnummer()
	require.NoError(t, err)
	assert.Equal(t, "19900101-0017", p.Format().Long)
	assert.True(t, p.Valid())
}

func TestPersonnummer_PlainNumberFails(t *testing.T) {
	o := MustParse("556016-0680")

	p, err := o.Personnummer()
	assert.Nil(t, p)
	assert.ErrorIs(t, err, personnummer.ErrInvalid)
}

func TestParser_CollaboratorFirst(t *testing.T) {
	// A collaborator that claims an otherwise valid organization number.
	parser := NewParser(WithPersonalNumberParser(fakeParser(map[string]fakePerson{
		"5560160680": {long: "20556016-0680", short: "205560160680", age: 30},
	})))

	o, err := parser.Parse("5560160680")
	require.NoError(t, err)
	assert.True(t, o.IsPersonnummer())
	assert.Equal(t, "Enskild firma", o.Type())
	assert.Equal(t, "SE556016068001", o.VATNumber())

	other, err := parser.Parse("5561034249")
	require.NoError(t, err)
	assert.False(t, other.IsPersonnummer())
}

func TestFormat_CenturyMarker(t *testing.T) {
	parser := NewParser(WithPersonalNumberParser(fakeParser(map[string]fakePerson{
		"old":   {long: "19110101-1235", short: "191101011235", age: 115},
		"young": {long: "20110101-1235", short: "201101011235", age: 15},
		"edge":  {long: "19261018-1234", short: "192610181234", age: 100},
	})))

	tests := []struct {
		input     string
		wantLong  string
		wantShort string
		wantVAT   string
	}{
		{"old", "110101+1235", "1101011235", "SE110101123501"},
		{"young", "110101-1235", "1101011235", "SE110101123501"},
		{"edge", "261018+1234", "2610181234", "SE261018123401"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			o, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLong, o.Format().Long)
			assert.Equal(t, tt.wantShort, o.Format().Short)
			assert.Equal(t, tt.wantVAT, o.VATNumber())
			assert.Len(t, o.Digits(), 10)
		})
	}
}

func TestPersonnummer_PlainUsesParserCollaborator(t *testing.T) {
	parser := NewParser(WithPersonalNumberParser(func(s string) (PersonalNumber, error) {
		return nil, errors.New("collaborator offline")
	}))

	o, err := parser.Parse("556016-0680")
	require.NoError(t, err)

	_, err = o.Personnummer()
	assert.EqualError(t, err, "collaborator offline")
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("556016-0681") })
	assert.NotPanics(t, func() { MustParse("556016-0680") })
}

func TestGroupValue_NonDigitPanics(t *testing.T) {
	assert.Equal(t, 16, groupValue("16"))
	assert.Panics(t, func() { groupValue("1a") })
}

func TestMatchStructure(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"556016-0680", "5560160680", true},
		{"556016+0680", "5560160680", true},
		{"16556016-0680", "5560160680", true},
		{"5560160681", "5560160681", true}, // checksum is not the matcher's job
		{"15556016-0680", "", false},
		{"551901-2347", "", false},
		{"092001-2341", "", false},
		{"556016-068", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := matchStructure(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZeroValue(t *testing.T) {
	var zero OrganizationNumber

	assert.NotPanics(t, func() {
		assert.False(t, zero.Valid())
		assert.False(t, zero.IsPersonnummer())
		assert.Equal(t, "", zero.Digits())
		assert.Equal(t, UnknownType, zero.Type())
		assert.Equal(t, "", zero.VATNumber())
		assert.Equal(t, Formatted{}, zero.Format())
		assert.Equal(t, "", zero.FormatString(false))
		assert.Equal(t, "", zero.String())
		assert.False(t, zero.Summary("x").Valid)
	})

	o, err := Parse("556016-0681")
	require.Error(t, err)
	assert.Equal(t, zero, o)
	assert.Equal(t, UnknownType, o.Type())
}
