package models

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewMonthKey(t *testing.T) {
	k := NewMonthKey(2024, 3)
	assert.Equal(t, "Março 2024", k.Label)
	assert.True(t, k.IsValid())
	assert.False(t, InvalidMonthKey().IsValid())
	assert.Equal(t, InvalidDateLabel, InvalidMonthKey().Label)
}

func TestMonthKey_LessIsChronological(t *testing.T) {
	keys := []MonthKey{
		InvalidMonthKey(),
		NewMonthKey(2024, 4),
		NewMonthKey(2023, 12),
		NewMonthKey(2024, 3),
		NewMonthKey(2024, 1),
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = k.Label
	}
	// Lexical order would put "Abril" before "Dezembro" and "Março".
	assert.Equal(t, []string{
		"Dezembro 2023", "Janeiro 2024", "Março 2024", "Abril 2024", InvalidDateLabel,
	}, labels)
}

func TestMonthlyTotals_Accessors(t *testing.T) {
	m := MonthlyTotals{
		{Key: NewMonthKey(2024, 3), Value: decimal.NewFromInt(10)},
		{Key: NewMonthKey(2024, 4), Value: decimal.RequireFromString("2.5")},
	}

	v, ok := m.Get("Abril 2024")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("2.5")))

	_, ok = m.Get("Maio 2024")
	assert.False(t, ok)

	assert.Equal(t, []string{"Março 2024", "Abril 2024"}, m.Labels())
	assert.True(t, m.Sum().Equal(decimal.RequireFromString("12.5")))
}

func TestSnapshot_CreditTotal(t *testing.T) {
	var nilSnap *Snapshot
	assert.True(t, nilSnap.CreditTotal().IsZero())

	s := &Snapshot{Summary: []SummaryRow{
		{CreditTotal: decimal.NewFromInt(3)},
		{CreditTotal: decimal.NewFromInt(4)},
	}}
	assert.True(t, s.CreditTotal().Equal(decimal.NewFromInt(7)))
}
