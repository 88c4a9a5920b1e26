package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidDateLabel is the bucket label for issue dates that cannot be read.
const InvalidDateLabel = "Data inválida"

// MonthNames maps the two-digit month code of a DD/MM/YYYY date to its
// Portuguese name.
var MonthNames = map[string]string{
	"01": "Janeiro", "02": "Fevereiro", "03": "Março",
	"04": "Abril", "05": "Maio", "06": "Junho",
	"07": "Julho", "08": "Agosto", "09": "Setembro",
	"10": "Outubro", "11": "Novembro", "12": "Dezembro",
}

// MonthKey is a month bucket identity. The zero Year/Month pair marks the
// invalid-date sentinel.
type MonthKey struct {
	Label string
	Year  int
	Month int
}

// NewMonthKey builds the key for a valid year and month (1-12).
func NewMonthKey(year, month int) MonthKey {
	name := MonthNames[fmt.Sprintf("%02d", month)]
	return MonthKey{
		Label: fmt.Sprintf("%s %d", name, year),
		Year:  year,
		Month: month,
	}
}

// InvalidMonthKey returns the sentinel bucket key.
func InvalidMonthKey() MonthKey {
	return MonthKey{Label: InvalidDateLabel}
}

// IsValid reports whether k names a real month.
func (k MonthKey) IsValid() bool {
	return k.Month >= 1 && k.Month <= 12
}

// Less orders keys chronologically; the invalid sentinel sorts last.
func (k MonthKey) Less(other MonthKey) bool {
	if k.IsValid() != other.IsValid() {
		return k.IsValid()
	}
	if k.sortKey() != other.sortKey() {
		return k.sortKey() < other.sortKey()
	}
	return k.Label < other.Label
}

func (k MonthKey) sortKey() int {
	return k.Year*12 + (k.Month - 1)
}

// MonthTotal is one month bucket.
type MonthTotal struct {
	Key   MonthKey
	Value decimal.Decimal
}

// MonthlyTotals is a chronologically ordered series of month buckets.
type MonthlyTotals []MonthTotal

// Get returns the value stored under label.
func (m MonthlyTotals) Get(label string) (decimal.Decimal, bool) {
	for _, t := range m {
		if t.Key.Label == label {
			return t.Value, true
		}
	}
	return decimal.Zero, false
}

// Labels returns the bucket labels in order.
func (m MonthlyTotals) Labels() []string {
	labels := make([]string, len(m))
	for i, t := range m {
		labels[i] = t.Key.Label
	}
	return labels
}

// Sum adds every bucket value.
func (m MonthlyTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range m {
		sum = sum.Add(t.Value)
	}
	return sum
}
