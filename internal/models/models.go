// Package models contains the typed records and aggregates shared by the
// ingestion pipeline, the result store and the query layer.
package models

import "github.com/shopspring/decimal"

// RawFile is one uploaded file as received. It is owned by the ingestion
// request and dropped once parsed.
type RawFile struct {
	Name    string
	Content []byte
}

// Record is one typed transaction row.
type Record struct {
	Issuer       string
	TaxID        string
	CreditStatus string
	InvoiceValue decimal.Decimal
	CreditValue  decimal.Decimal
	IssueDate    string
	Month        MonthKey
	SequenceID   string
	IsRobot      bool

	// SourceFile and Row locate the record in its upload (Row is 1-based).
	SourceFile string
	Row        int
}

// GroupKey identifies one SummaryRow.
type GroupKey struct {
	Issuer       string `json:"issuer"`
	TaxID        string `json:"tax_id"`
	CreditStatus string `json:"credit_status"`
	IsRobot      bool   `json:"is_robot"`
}

// Key returns the grouping key of the record.
func (r Record) Key() GroupKey {
	return GroupKey{
		Issuer:       r.Issuer,
		TaxID:        r.TaxID,
		CreditStatus: r.CreditStatus,
		IsRobot:      r.IsRobot,
	}
}
