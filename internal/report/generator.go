// Package report renders snapshots, searches and tax-id lookups as text,
// JSON or CSV.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/credit-summary/internal/currencyutils"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/query"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ReportGenerator renders query results.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

type monthJSON struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Robot decimal.Decimal `json:"robot"`
}

type summaryJSON struct {
	SnapshotID  string                `json:"snapshot_id"`
	Generation  uint64                `json:"generation"`
	CreatedAt   time.Time             `json:"created_at"`
	RecordCount int                   `json:"record_count"`
	SourceFiles []string              `json:"source_files"`
	CreditTotal decimal.Decimal       `json:"credit_total"`
	Ranking     []models.RankingEntry `json:"ranking"`
	Monthly     []monthJSON           `json:"monthly"`
	Search      query.Result          `json:"search"`
}

// summaryCSVRow is one exported summary line. Amounts are written with two
// decimals and a dot separator.
type summaryCSVRow struct {
	Rank          int    `csv:"rank"`
	Issuer        string `csv:"issuer"`
	TaxID         string `csv:"tax_id"`
	CreditStatus  string `csv:"credit_status"`
	IsRobot       bool   `csv:"is_robot"`
	InvoiceTotal  string `csv:"invoice_total"`
	CreditTotal   string `csv:"credit_total"`
	Count         int    `csv:"count"`
	AverageCredit string `csv:"average_credit"`
}

// GenerateSummary renders the snapshot overview together with one search
// result page.
func (g *ReportGenerator) GenerateSummary(snap *models.Snapshot, search query.Result, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return g.summaryText(snap, search)
	case FormatJSON:
		return g.marshalJSON(summaryReport(snap, search))
	case FormatCSV:
		return g.marshalCSV(search.Rows)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateLookup renders a batch tax-id lookup.
func (g *ReportGenerator) GenerateLookup(result query.LookupResult, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return g.lookupText(result)
	case FormatJSON:
		return g.marshalJSON(result)
	case FormatCSV:
		return g.marshalCSV(result.Rows)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func summaryReport(snap *models.Snapshot, search query.Result) summaryJSON {
	out := summaryJSON{
		Ranking:     []models.RankingEntry{},
		Monthly:     []monthJSON{},
		SourceFiles: []string{},
		CreditTotal: snap.CreditTotal(),
		Search:      search,
	}
	if snap == nil {
		return out
	}

	out.SnapshotID = snap.ID
	out.Generation = snap.Generation
	out.CreatedAt = snap.CreatedAt
	out.RecordCount = snap.RecordCount
	if snap.SourceFiles != nil {
		out.SourceFiles = snap.SourceFiles
	}
	if snap.Ranking != nil {
		out.Ranking = snap.Ranking
	}
	for _, m := range snap.Monthly {
		robot, _ := snap.MonthlyRobot.Get(m.Key.Label)
		out.Monthly = append(out.Monthly, monthJSON{Label: m.Key.Label, Total: m.Value, Robot: robot})
	}
	return out
}

func (g *ReportGenerator) marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(data, '\n'), nil
}

func (g *ReportGenerator) marshalCSV(rows []models.SummaryRow) ([]byte, error) {
	out := make([]summaryCSVRow, len(rows))
	for i, r := range rows {
		out[i] = summaryCSVRow{
			Rank:          r.Rank,
			Issuer:        r.Issuer,
			TaxID:         r.TaxID,
			CreditStatus:  r.CreditStatus,
			IsRobot:       r.IsRobot,
			InvoiceTotal:  r.InvoiceTotal.StringFixed(2),
			CreditTotal:   r.CreditTotal.StringFixed(2),
			Count:         r.Count,
			AverageCredit: r.AverageCredit.StringFixed(2),
		}
	}

	data, err := gocsv.MarshalBytes(&out)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return data, nil
}

func (g *ReportGenerator) summaryText(snap *models.Snapshot, search query.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if snap != nil {
		fmt.Fprintf(w, "Snapshot %s (generation %d): %d records from %d files, total credit R$ %s\n\n",
			snap.ID, snap.Generation, snap.RecordCount, len(snap.SourceFiles), currencyutils.FormatBRL(snap.CreditTotal()))

		fmt.Fprintln(w, "RANKING")
		fmt.Fprintln(w, "#\tIssuer\tTax ID\tStatus\tRobot\tCredit\tAverage")
		for _, r := range snap.Ranking {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Rank, r.Issuer, r.TaxID, r.CreditStatus, yesNo(r.IsRobot),
				currencyutils.FormatBRL(r.CreditTotal), currencyutils.FormatBRL(r.AverageCredit))
		}

		fmt.Fprintln(w, "\nMONTHLY CREDIT")
		fmt.Fprintln(w, "Month\tTotal\tRobot")
		for _, m := range snap.Monthly {
			robot, _ := snap.MonthlyRobot.Get(m.Key.Label)
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Key.Label, currencyutils.FormatBRL(m.Value), currencyutils.FormatBRL(robot))
		}
		fmt.Fprintln(w)
	}

	title := "SUMMARY"
	if search.Query != "" {
		title = fmt.Sprintf("SEARCH %q (%s)", search.Query, search.Mode)
	}
	fmt.Fprintf(w, "%s: %d groups, %d invoices, credit R$ %s, page %d of %d\n",
		title, len(search.Matches), search.TotalCount, currencyutils.FormatBRL(search.TotalCredit),
		search.Page, search.TotalPages)
	writeRows(w, search.Rows)

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) lookupText(result query.LookupResult) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "LOOKUP of %d tax ids: %d groups, %d invoices, credit R$ %s\n",
		len(result.TaxIDs), len(result.Rows), result.TotalCount, currencyutils.FormatBRL(result.TotalCredit))
	writeRows(w, result.Rows)

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(w *tabwriter.Writer, rows []models.SummaryRow) {
	fmt.Fprintln(w, "#\tIssuer\tTax ID\tStatus\tRobot\tInvoices\tCredit\tCount\tAverage")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.Rank, r.Issuer, r.TaxID, r.CreditStatus, yesNo(r.IsRobot),
			currencyutils.FormatBRL(r.InvoiceTotal), currencyutils.FormatBRL(r.CreditTotal),
			r.Count, currencyutils.FormatBRL(r.AverageCredit))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
