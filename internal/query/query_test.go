package query

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"fjacquet/credit-summary/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(issuer, taxID string, credit int64, count int) models.SummaryRow {
	return models.SummaryRow{
		GroupKey:    models.GroupKey{Issuer: issuer, TaxID: taxID, CreditStatus: "Apropriado"},
		CreditTotal: decimal.NewFromInt(credit),
		Count:       count,
	}
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{Summary: []models.SummaryRow{
		row("Acme Ltda", "11.222.333/0001-44", 1200, 2),
		row("Beta Comercio", "55.666.777/0001-88", 800, 3),
		row("Gamma 11222 SA", "99.888.777/0001-66", 300, 1),
	}}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	result := NewEngine(0).Search(sampleSnapshot(), "", 1)

	assert.Equal(t, ModeAll, result.Mode)
	assert.Len(t, result.Matches, 3)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, 1, result.TotalPages)
	assert.True(t, result.TotalCredit.Equal(decimal.NewFromInt(2300)))
	assert.Equal(t, 6, result.TotalCount)
}

func TestSearch_TaxIDMode(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"digits only", "11222333000144", []string{"Acme Ltda"}},
		{"punctuated", "11.222.333/0001-44", []string{"Acme Ltda"}},
		{"several ids", "11222333000144, 55.666.777/0001-88", []string{"Acme Ltda", "Beta Comercio"}},
		{"prefix is not enough", "11222", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewEngine(DefaultPageSize).Search(sampleSnapshot(), tt.query, 1)
			assert.Equal(t, ModeTaxID, result.Mode)

			var got []string
			for _, r := range result.Matches {
				got = append(got, r.Issuer)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_SubstringMode(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"issuer case-insensitive", "ACME", []string{"Acme Ltda"}},
		{"or semantics", "acme, beta", []string{"Acme Ltda", "Beta Comercio"}},
		{"raw tax id substring", "acme, 0001-88", []string{"Acme Ltda", "Beta Comercio"}},
		{"mixed term", "gamma 11222", []string{"Gamma 11222 SA"}},
		{"no match", "delta", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewEngine(DefaultPageSize).Search(sampleSnapshot(), tt.query, 1)
			assert.Equal(t, ModeSubstring, result.Mode)

			var got []string
			for _, r := range result.Matches {
				got = append(got, r.Issuer)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_BlankTermsDropped(t *testing.T) {
	result := NewEngine(DefaultPageSize).Search(sampleSnapshot(), " , ,", 1)
	assert.Equal(t, ModeAll, result.Mode)
	assert.Len(t, result.Matches, 3)
}

func TestSearch_Pagination(t *testing.T) {
	snap := &models.Snapshot{}
	for i := 0; i < 120; i++ {
		snap.Summary = append(snap.Summary, row(fmt.Sprintf("Issuer %03d", i), fmt.Sprintf("%d", i), 1, 1))
	}
	engine := NewEngine(DefaultPageSize)

	first := engine.Search(snap, "", 1)
	assert.Equal(t, 3, first.TotalPages)
	require.Len(t, first.Rows, 50)
	assert.Equal(t, "Issuer 000", first.Rows[0].Issuer)

	last := engine.Search(snap, "", 3)
	require.Len(t, last.Rows, 20)
	assert.Equal(t, "Issuer 100", last.Rows[0].Issuer)

	beyond := engine.Search(snap, "", 4)
	assert.NotNil(t, beyond.Rows)
	assert.Empty(t, beyond.Rows)
	assert.Equal(t, 120, beyond.TotalCount)
	assert.Equal(t, 4, beyond.Page)

	clamped := engine.Search(snap, "", -3)
	assert.Equal(t, 1, clamped.Page)
	assert.Len(t, clamped.Rows, 50)
}

func TestSearch_HugePageIsEmpty(t *testing.T) {
	snap := &models.Snapshot{Summary: []models.SummaryRow{row("Acme Ltda", "11222333000144", 10, 1)}}
	engine := NewEngine(DefaultPageSize)

	for _, page := range []int{math.MaxInt, ParsePage("368934881474191033"), math.MaxInt / DefaultPageSize} {
		t.Run(fmt.Sprint(page), func(t *testing.T) {
			var result Result
			require.NotPanics(t, func() { result = engine.Search(snap, "", page) })
			assert.NotNil(t, result.Rows)
			assert.Empty(t, result.Rows)
			assert.Equal(t, 1, result.TotalPages)
			assert.Equal(t, 1, result.TotalCount)
		})
	}
}

func TestSearch_NilSnapshot(t *testing.T) {
	result := NewEngine(DefaultPageSize).Search(nil, "acme", 1)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 1, result.TotalPages)
	assert.True(t, result.TotalCredit.IsZero())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{" 2 ", 2},
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-5", 1},
		{"1.5", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.in), "ParsePage(%q)", tt.in)
	}
}

func TestLookup(t *testing.T) {
	engine := NewEngine(DefaultPageSize)

	result, err := engine.Lookup(sampleSnapshot(), []string{"11.222.333/0001-44", "", "99888777000166", "00000000000000"})
	require.NoError(t, err)

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Acme Ltda", result.Rows[0].Issuer)
	assert.Equal(t, "Gamma 11222 SA", result.Rows[1].Issuer)
	assert.True(t, result.TotalCredit.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, []string{"00000000000000", "11222333000144", "99888777000166"}, result.TaxIDs)
}

func TestLookup_NoTaxIDs(t *testing.T) {
	_, err := NewEngine(DefaultPageSize).Lookup(sampleSnapshot(), []string{" ", "--"})
	assert.True(t, errors.Is(err, ErrNoTaxIDs))
}

func TestLookup_NilSnapshot(t *testing.T) {
	result, err := NewEngine(DefaultPageSize).Lookup(nil, []string{"1"})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}
