// Package robots flags records whose issuer is on the robotic-issuer watch-list.
package robots

import (
	"sort"
	"strings"

	"fjacquet/credit-summary/internal/models"
)

// defaultIDs is the watch-list used when no external source is configured.
var defaultIDs = []string{
	"03.007.331/0001-41",
	"04.274.988/0001-38",
	"05.570.714/0001-59",
	"07.526.557/0001-00",
	"08.811.643/0001-27",
	"09.346.601/0001-25",
	"10.573.521/0001-91",
	"13.481.309/0001-92",
	"17.155.730/0001-64",
	"18.236.120/0001-58",
	"20.558.115/0001-21",
	"22.896.431/0001-10",
	"26.314.062/0001-61",
	"31.872.495/0001-72",
	"33.041.260/0652-90",
}

// Set is a lookup set of digits-only tax ids.
type Set map[string]struct{}

// NewSet builds a Set from ids in any punctuation. Ids with no digits are ignored.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if n := NormalizeTaxID(id); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// DefaultSet returns a fresh copy of the built-in watch-list.
func DefaultSet() Set {
	return NewSet(defaultIDs...)
}

// NormalizeTaxID keeps only the digits of id: "11.222.333/0001-44" -> "11222333000144".
func NormalizeTaxID(id string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, id)
}

// Contains reports whether taxID, in any punctuation, is on the list.
func (s Set) Contains(taxID string) bool {
	_, ok := s[NormalizeTaxID(taxID)]
	return ok
}

// IDs returns the normalized ids in ascending order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Classify returns a copy of records with IsRobot set from set. The input is
// left untouched.
func Classify(records []models.Record, set Set) []models.Record {
	out := make([]models.Record, len(records))
	for i, rec := range records {
		rec.IsRobot = set.Contains(rec.TaxID)
		out[i] = rec
	}
	return out
}
