// Package query filters and paginates the summary of a snapshot.
package query

import (
	"errors"
	"strconv"
	"strings"

	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/robots"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is the number of summary rows per page.
const DefaultPageSize = 50

// ErrNoTaxIDs is returned by Lookup when no usable tax id was given.
var ErrNoTaxIDs = errors.New("no tax id was informed")

// Mode tells how a query was interpreted.
type Mode string

const (
	// ModeAll lists every summary row.
	ModeAll Mode = "all"
	// ModeTaxID matches normalized tax ids exactly.
	ModeTaxID Mode = "tax_id"
	// ModeSubstring matches issuer names or raw tax ids by substring.
	ModeSubstring Mode = "substring"
)

// Result is one search over a snapshot. Totals cover every match, Rows only
// the requested page.
type Result struct {
	Query       string              `json:"query"`
	Mode        Mode                `json:"mode"`
	Matches     []models.SummaryRow `json:"-"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
	TotalCount  int                 `json:"total_count"`
	Rows        []models.SummaryRow `json:"rows"`
	Page        int                 `json:"page"`
	TotalPages  int                 `json:"total_pages"`
}

// LookupResult is the answer to a batch tax-id lookup.
type LookupResult struct {
	TaxIDs      []string            `json:"tax_ids"`
	Rows        []models.SummaryRow `json:"rows"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
	TotalCount  int                 `json:"total_count"`
}

// Engine runs searches with a fixed page size.
type Engine struct {
	PageSize int
}

// NewEngine returns an Engine with the given page size; values below 1 fall
// back to DefaultPageSize.
func NewEngine(pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Engine{PageSize: pageSize}
}

func (e *Engine) pageSize() int {
	if e == nil || e.PageSize < 1 {
		return DefaultPageSize
	}
	return e.PageSize
}

// ParsePage reads a 1-based page number. Anything malformed or below 1 yields 1.
func ParsePage(s string) int {
	page, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Search filters the snapshot summary with q and slices out page. A nil
// snapshot behaves like an empty one.
func (e *Engine) Search(snap *models.Snapshot, q string, page int) Result {
	if page < 1 {
		page = 1
	}

	var rows []models.SummaryRow
	if snap != nil {
		rows = snap.Summary
	}

	terms := splitTerms(q)
	mode := classify(terms)

	var matches []models.SummaryRow
	switch mode {
	case ModeAll:
		matches = rows
	case ModeTaxID:
		wanted := robots.NewSet(terms...)
		for _, row := range rows {
			if wanted.Contains(row.TaxID) {
				matches = append(matches, row)
			}
		}
	case ModeSubstring:
		for _, row := range rows {
			if matchesAny(row, terms) {
				matches = append(matches, row)
			}
		}
	}
	if matches == nil {
		matches = []models.SummaryRow{}
	}

	credit, count := totals(matches)
	size := e.pageSize()

	return Result{
		Query:       q,
		Mode:        mode,
		Matches:     matches,
		TotalCredit: credit,
		TotalCount:  count,
		Rows:        paginate(matches, page, size),
		Page:        page,
		TotalPages:  totalPages(len(matches), size),
	}
}

// Lookup selects the summary rows whose normalized tax id is in taxIDs.
func (e *Engine) Lookup(snap *models.Snapshot, taxIDs []string) (LookupResult, error) {
	wanted := robots.NewSet(taxIDs...)
	if len(wanted) == 0 {
		return LookupResult{}, ErrNoTaxIDs
	}

	matches := []models.SummaryRow{}
	if snap != nil {
		for _, row := range snap.Summary {
			if wanted.Contains(row.TaxID) {
				matches = append(matches, row)
			}
		}
	}

	credit, count := totals(matches)
	return LookupResult{
		TaxIDs:      wanted.IDs(),
		Rows:        matches,
		TotalCredit: credit,
		TotalCount:  count,
	}, nil
}

// splitTerms lower-cases q, splits it on commas and drops blank terms.
func splitTerms(q string) []string {
	var terms []string
	for _, part := range strings.Split(strings.ToLower(q), ",") {
		if term := strings.TrimSpace(part); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

func classify(terms []string) Mode {
	if len(terms) == 0 {
		return ModeAll
	}
	for _, term := range terms {
		if !isTaxIDTerm(term) {
			return ModeSubstring
		}
	}
	return ModeTaxID
}

// isTaxIDTerm reports whether term holds at least one digit and otherwise
// only tax-id punctuation.
func isTaxIDTerm(term string) bool {
	digits := 0
	for _, r := range term {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.', r == '/', r == '-', r == ' ':
		default:
			return false
		}
	}
	return digits > 0
}

func matchesAny(row models.SummaryRow, terms []string) bool {
	issuer := strings.ToLower(row.Issuer)
	taxID := strings.ToLower(row.TaxID)
	for _, term := range terms {
		if strings.Contains(issuer, term) || strings.Contains(taxID, term) {
			return true
		}
	}
	return false
}

func totals(rows []models.SummaryRow) (decimal.Decimal, int) {
	credit := decimal.Zero
	count := 0
	for _, row := range rows {
		credit = credit.Add(row.CreditTotal)
		count += row.Count
	}
	return credit, count
}

func totalPages(n, size int) int {
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// paginate compares page numbers before multiplying so huge pages cannot
// overflow the offset.
func paginate(rows []models.SummaryRow, page, size int) []models.SummaryRow {
	if page < 1 || len(rows) == 0 || page-1 >= (len(rows)+size-1)/size {
		return []models.SummaryRow{}
	}
	start := (page - 1) * size
	end := min(start+size, len(rows))
	return rows[start:end]
}
