// Package aggregate computes monthly totals, per-issuer summaries and the
// top-N ranking from classified records.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/parsererror"

	"github.com/shopspring/decimal"
)

// RankingSize is the number of summary rows projected into the ranking.
const RankingSize = 10

// Result holds one aggregation run.
type Result struct {
	Summary      []models.SummaryRow
	Ranking      []models.RankingEntry
	Monthly      models.MonthlyTotals
	MonthlyRobot models.MonthlyTotals
	RecordCount  int
}

// Snapshot packages the result for the result store. Identity fields are
// left for the store to assign.
func (r *Result) Snapshot(sourceFiles []string) *models.Snapshot {
	files := make([]string, len(sourceFiles))
	copy(files, sourceFiles)
	return &models.Snapshot{
		CreatedAt:    time.Now(),
		Summary:      r.Summary,
		Ranking:      r.Ranking,
		Monthly:      r.Monthly,
		MonthlyRobot: r.MonthlyRobot,
		RecordCount:  r.RecordCount,
		SourceFiles:  files,
	}
}

// Engine runs aggregations. It is stateless apart from its logger.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates an Engine. A nil logger falls back to the default logger.
func NewEngine(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{logger: logger}
}

// Run aggregates records. Records must come out of the parser: a missing
// month label is reported as a *parsererror.InternalAggregationError.
func (e *Engine) Run(records []models.Record) (*Result, error) {
	monthly, robot, err := monthlyTotals(records)
	if err != nil {
		return nil, &parsererror.InternalAggregationError{Stage: "monthly totals", Err: err}
	}

	summary, err := summarize(records)
	if err != nil {
		return nil, &parsererror.InternalAggregationError{Stage: "summary", Err: err}
	}

	n := len(summary)
	if n > RankingSize {
		n = RankingSize
	}
	ranking := make([]models.RankingEntry, n)
	for i := 0; i < n; i++ {
		ranking[i] = summary[i].Ranking()
	}

	e.logger.Info("Aggregated records",
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldGroups, len(summary)),
		logging.F(logging.FieldMonths, len(monthly)))

	return &Result{
		Summary:      summary,
		Ranking:      ranking,
		Monthly:      monthly,
		MonthlyRobot: robot,
		RecordCount:  len(records),
	}, nil
}

// monthlyTotals sums credit per month bucket for every record and for robotic
// records only. Both series share the same chronological key set.
func monthlyTotals(records []models.Record) (models.MonthlyTotals, models.MonthlyTotals, error) {
	type bucket struct {
		key   models.MonthKey
		all   decimal.Decimal
		robot decimal.Decimal
	}

	buckets := make(map[string]*bucket)
	for _, rec := range records {
		if rec.Month.Label == "" {
			return nil, nil, fmt.Errorf("record %s:%d has no month label", rec.SourceFile, rec.Row)
		}
		b, ok := buckets[rec.Month.Label]
		if !ok {
			b = &bucket{key: rec.Month, all: decimal.Zero, robot: decimal.Zero}
			buckets[rec.Month.Label] = b
		}
		b.all = b.all.Add(rec.CreditValue)
		if rec.IsRobot {
			b.robot = b.robot.Add(rec.CreditValue)
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].key.Less(ordered[j].key)
	})

	all := make(models.MonthlyTotals, len(ordered))
	robot := make(models.MonthlyTotals, len(ordered))
	for i, b := range ordered {
		all[i] = models.MonthTotal{Key: b.key, Value: b.all}
		robot[i] = models.MonthTotal{Key: b.key, Value: b.robot}
	}
	return all, robot, nil
}

// summarize groups records by issuer, tax id, status and robot flag, then
// ranks the groups by credit total. Groups start in first-seen order and the
// sort is stable, so equal totals keep that order.
func summarize(records []models.Record) ([]models.SummaryRow, error) {
	index := make(map[models.GroupKey]int)
	var rows []models.SummaryRow

	for _, rec := range records {
		key := rec.Key()
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.SummaryRow{
				GroupKey:     key,
				InvoiceTotal: decimal.Zero,
				CreditTotal:  decimal.Zero,
			})
		}
		rows[i].InvoiceTotal = rows[i].InvoiceTotal.Add(rec.InvoiceValue)
		rows[i].CreditTotal = rows[i].CreditTotal.Add(rec.CreditValue)
		rows[i].Count++
	}

	for i := range rows {
		if rows[i].Count == 0 {
			return nil, errors.New("group without records")
		}
		rows[i].AverageCredit = rows[i].CreditTotal.Div(decimal.NewFromInt(int64(rows[i].Count)))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreditTotal.GreaterThan(rows[j].CreditTotal)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	if rows == nil {
		rows = []models.SummaryRow{}
	}
	return rows, nil
}
