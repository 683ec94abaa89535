package orgnr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Valid(t *testing.T) {
	s, err := Describe("556016-0680")
	require.NoError(t, err)

	assert.Equal(t, Summary{
		Input:       "556016-0680",
		Valid:       true,
		LongFormat:  "556016-0680",
		ShortFormat: "5560160680",
		Type:        "Aktiebolag",
		VATNumber:   "SE556016068001",
	}, s)
}

func TestDescribe_Invalid(t *testing.T) {
	s, err := Describe("556016-0681")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, Summary{Input: "556016-0681"}, s)
}

func TestDescribe_Personnummer(t *testing.T) {
	s, err := Describe("121212121212")
	require.NoError(t, err)
	assert.True(t, s.IsPersonnummer)
	assert.Equal(t, "Enskild firma", s.Type)
	assert.Equal(t, "SE121212121201", s.VATNumber)
	assert.Equal(t, "1212121212", s.ShortFormat)
}

func TestSummary_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(MustParse("5561034249").Summary("5561034249"))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"input", "valid", "long_format", "short_format", "type", "vat_number", "is_personnummer"} {
		assert.Contains(t, fields, key)
	}
}
