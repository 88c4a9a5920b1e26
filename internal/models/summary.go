package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRow aggregates every record sharing a GroupKey.
type SummaryRow struct {
	GroupKey
	InvoiceTotal  decimal.Decimal `json:"invoice_total"`
	CreditTotal   decimal.Decimal `json:"credit_total"`
	Count         int             `json:"count"`
	AverageCredit decimal.Decimal `json:"average_credit"`
	Rank          int             `json:"rank"`
}

// RankingEntry is the top-N projection of a SummaryRow.
type RankingEntry struct {
	Issuer        string          `json:"issuer"`
	TaxID         string          `json:"tax_id"`
	CreditTotal   decimal.Decimal `json:"credit_total"`
	AverageCredit decimal.Decimal `json:"average_credit"`
	Rank          int             `json:"rank"`
	CreditStatus  string          `json:"credit_status"`
	IsRobot       bool            `json:"is_robot"`
}

// Ranking projects row to a RankingEntry.
func (r SummaryRow) Ranking() RankingEntry {
	return RankingEntry{
		Issuer:        r.Issuer,
		TaxID:         r.TaxID,
		CreditTotal:   r.CreditTotal,
		AverageCredit: r.AverageCredit,
		Rank:          r.Rank,
		CreditStatus:  r.CreditStatus,
		IsRobot:       r.IsRobot,
	}
}

// Snapshot is one complete aggregation result. It is built wholesale and
// must not be modified once handed to the result store.
type Snapshot struct {
	ID           string
	Generation   uint64
	CreatedAt    time.Time
	Summary      []SummaryRow
	Ranking      []RankingEntry
	Monthly      MonthlyTotals
	MonthlyRobot MonthlyTotals
	RecordCount  int
	SourceFiles  []string
}

// CreditTotal sums the credit of every summary row.
func (s *Snapshot) CreditTotal() decimal.Decimal {
	sum := decimal.Zero
	if s == nil {
		return sum
	}
	for _, row := range s.Summary {
		sum = sum.Add(row.CreditTotal)
	}
	return sum
}
