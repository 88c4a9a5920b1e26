// Package dateutils turns issue dates of the fiscal-credit exports into month buckets.
package dateutils

import (
	"strconv"
	"strings"

	"fjacquet/credit-summary/internal/models"
)

// MonthKeyFromDate maps a DD/MM/YYYY date to its Portuguese month bucket
// ("15/03/2024" -> "Março 2024"). Any other shape, an unknown month code or a
// non-numeric year yields the invalid-date sentinel instead of an error.
// A trailing time of day ("15/03/2024 10:31:00") is ignored.
func MonthKeyFromDate(dateStr string) models.MonthKey {
	dateStr = strings.TrimSpace(dateStr)
	if i := strings.IndexAny(dateStr, " T"); i >= 0 {
		dateStr = dateStr[:i]
	}

	parts := strings.Split(dateStr, "/")
	if len(parts) != 3 {
		return models.InvalidMonthKey()
	}
	day, month, year := parts[0], parts[1], parts[2]

	if !isDigits(day) || len(day) > 2 {
		return models.InvalidMonthKey()
	}
	if _, ok := models.MonthNames[month]; !ok {
		return models.InvalidMonthKey()
	}
	if !isDigits(year) {
		return models.InvalidMonthKey()
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return models.InvalidMonthKey()
	}
	m, _ := strconv.Atoi(month)

	return models.NewMonthKey(y, m)
}


func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
