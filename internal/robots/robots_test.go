package robots

import (
	"testing"

	"fjacquet/credit-summary/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTaxID(t *testing.T) {
	tests := map[string]string{
		"11.222.333/0001-44": "11222333000144",
		"11222333000144":     "11222333000144",
		" 123.456.789-09 ":   "12345678909",
		"abc":                "",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTaxID(in), in)
	}
}

func TestDefaultSet(t *testing.T) {
	s := DefaultSet()
	assert.Len(t, s, 15)
	for _, id := range s.IDs() {
		assert.Len(t, id, 14, "CNPJ ids have 14 digits")
	}
	assert.True(t, s.Contains("03007331000141"))
	assert.True(t, s.Contains("03.007.331/0001-41"))

	// Copies are independent.
	delete(s, "03007331000141")
	assert.True(t, DefaultSet().Contains("03007331000141"))
}

func TestNewSet_IgnoresEmpty(t *testing.T) {
	s := NewSet("", "--", "11.222.333/0001-44", "11222333000144")
	assert.Equal(t, []string{"11222333000144"}, s.IDs())
	assert.False(t, s.Contains(""))
}

func TestClassify(t *testing.T) {
	records := []models.Record{
		{Issuer: "Acme", TaxID: "11.222.333/0001-44"},
		{Issuer: "Beta", TaxID: "55.666.777/0001-88"},
		{Issuer: "Acme again", TaxID: "11222333000144", IsRobot: false},
	}

	out := Classify(records, NewSet("11222333000144"))

	require.Len(t, out, 3)
	assert.True(t, out[0].IsRobot)
	assert.False(t, out[1].IsRobot)
	assert.True(t, out[2].IsRobot)
	assert.False(t, records[0].IsRobot, "input must not be modified")
}

func TestClassify_EmptySet(t *testing.T) {
	out := Classify([]models.Record{{TaxID: "1"}}, nil)
	assert.False(t, out[0].IsRobot)
}
