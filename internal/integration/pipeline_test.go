package integration

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"fjacquet/credit-summary/internal/aggregate"
	"fjacquet/credit-summary/internal/creditparser"
	"fjacquet/credit-summary/internal/ingest"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/query"
	"fjacquet/credit-summary/internal/resultstore"
	"fjacquet/credit-summary/internal/robots"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuers = []struct{ name, taxID string }{
	{"Acme Ltda", "11.222.333/0001-44"},
	{"Beta Comercio", "55.666.777/0001-88"},
	{"Gamma SA", "99.888.777/0001-66"},
	{"Robo Emissor", "03.007.331/0001-41"},
}

var dates = []string{"15/01/2024", "03/02/2024", "28/02/2024", "10/12/2023", "", "31-12-2023", "07/13/2024"}

// randomBatch builds n export files with random rows. Amounts are whole
// cents so that the expected totals can be summed exactly.
func randomBatch(r *rand.Rand, fileCount int) ([]models.RawFile, decimal.Decimal) {
	total := decimal.Zero
	files := make([]models.RawFile, fileCount)
	for f := 0; f < fileCount; f++ {
		var rows [][]string
		n := 5 + r.Intn(30)
		for i := 0; i < n; i++ {
			iss := issuers[r.Intn(len(issuers))]
			cents := int64(r.Intn(10_000_000))
			credit := decimal.New(cents, -2)
			total = total.Add(credit)
			rows = append(rows, creditparser.StandardRow(
				fmt.Sprintf("%d", i+1),
				iss.name,
				iss.taxID,
				dates[r.Intn(len(dates))],
				"10.000,00",
				formatBR(credit),
				[]string{"Ativo", "Cancelado"}[r.Intn(2)],
			))
		}
		files[f] = models.RawFile{
			Name:    fmt.Sprintf("export-%02d.txt", f),
			Content: creditparser.EncodeExport(creditparser.StandardHeader, rows),
		}
	}
	return files, total
}

// formatBR writes d the way the tax portal does: "1.234,56".
func formatBR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	var out []byte
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, byte(c))
	}
	return string(out) + "," + frac
}

func newPipeline(workers int) (*ingest.Pipeline, *resultstore.Store) {
	logger := logging.NewDiscardLogger()
	store := resultstore.New(logger)
	p := ingest.NewPipeline(creditparser.NewParser(logger), aggregate.NewEngine(logger), store, robots.DefaultSet(), workers, logger)
	return p, store
}

func TestPipeline_SumInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 10; round++ {
		files, total := randomBatch(r, 1+r.Intn(6))
		p, _ := newPipeline(3)

		out, err := p.Ingest(context.Background(), files)
		require.NoError(t, err)
		snap := out.Snapshot

		assert.True(t, snap.Monthly.Sum().Equal(total), "monthly sum, round %d", round)
		assert.True(t, snap.CreditTotal().Equal(total), "summary sum, round %d", round)

		require.Equal(t, snap.Monthly.Labels(), snap.MonthlyRobot.Labels())
		for i, m := range snap.Monthly {
			assert.True(t, snap.MonthlyRobot[i].Value.LessThanOrEqual(m.Value))
			if i > 0 {
				assert.True(t, snap.Monthly[i-1].Key.Less(m.Key))
			}
		}

		wantRanking := len(snap.Summary)
		if wantRanking > aggregate.RankingSize {
			wantRanking = aggregate.RankingSize
		}
		require.Len(t, snap.Ranking, wantRanking)
		for i, e := range snap.Ranking {
			assert.Equal(t, i+1, e.Rank)
			if i > 0 {
				assert.True(t, snap.Ranking[i-1].CreditTotal.GreaterThanOrEqual(e.CreditTotal))
			}
		}

		count := 0
		for _, row := range snap.Summary {
			count += row.Count
		}
		assert.Equal(t, snap.RecordCount, count)
	}
}

func TestPipeline_WorkerCountDoesNotChangeResult(t *testing.T) {
	files, _ := randomBatch(rand.New(rand.NewSource(7)), 8)

	serial, _ := newPipeline(1)
	parallel, _ := newPipeline(8)

	a, err := serial.Ingest(context.Background(), files)
	require.NoError(t, err)
	b, err := parallel.Ingest(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot.Summary, b.Snapshot.Summary)
	assert.Equal(t, a.Snapshot.Monthly, b.Snapshot.Monthly)
	assert.Equal(t, a.Snapshot.MonthlyRobot, b.Snapshot.MonthlyRobot)
}

func TestPipeline_DedupIdempotence(t *testing.T) {
	files, _ := randomBatch(rand.New(rand.NewSource(3)), 3)

	once, _ := newPipeline(2)
	single, err := once.Ingest(context.Background(), files)
	require.NoError(t, err)

	var doubled []models.RawFile
	for i, f := range files {
		doubled = append(doubled, f, models.RawFile{Name: fmt.Sprintf("copy-%d.txt", i), Content: f.Content})
	}
	twice, _ := newPipeline(2)
	again, err := twice.Ingest(context.Background(), doubled)
	require.NoError(t, err)

	assert.Equal(t, single.Snapshot.Summary, again.Snapshot.Summary)
	assert.Len(t, again.Duplicates, len(files))
}

func TestPipeline_QueryPagination(t *testing.T) {
	files, _ := randomBatch(rand.New(rand.NewSource(11)), 2)
	p, store := newPipeline(2)
	_, err := p.Ingest(context.Background(), files)
	require.NoError(t, err)

	snap := store.Current()
	engine := query.NewEngine(2)
	first := engine.Search(snap, "", 1)

	wantPages := (len(snap.Summary) + 1) / 2
	assert.Equal(t, wantPages, first.TotalPages)
	assert.Len(t, first.Rows, min(2, len(snap.Summary)))
	assert.Empty(t, engine.Search(snap, "", first.TotalPages+1).Rows)
}

func TestPipeline_ConcurrentIngestAndQuery(t *testing.T) {
	p, store := newPipeline(4)
	r := rand.New(rand.NewSource(99))

	batches := make([][]models.RawFile, 6)
	for i := range batches {
		batches[i], _ = randomBatch(r, 2)
	}

	engine := query.NewEngine(query.DefaultPageSize)
	var wg sync.WaitGroup
	for _, batch := range batches {
		wg.Add(2)
		go func(files []models.RawFile) {
			defer wg.Done()
			_, err := p.Ingest(context.Background(), files)
			assert.NoError(t, err)
		}(batch)
		go func() {
			defer wg.Done()
			snap := store.Current()
			result := engine.Search(snap, "acme", 1)
			if snap != nil {
				assert.True(t, snap.Monthly.Sum().Equal(snap.CreditTotal()))
			}
			assert.GreaterOrEqual(t, result.TotalPages, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(len(batches)), store.Current().Generation)
}
