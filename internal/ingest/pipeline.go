// Package ingest runs one upload batch end to end: deduplication, parallel
// parsing, merge, robot classification, aggregation and publication to the
// result store.
package ingest

import (
	"context"
	"runtime"
	"time"

	"fjacquet/credit-summary/internal/aggregate"
	"fjacquet/credit-summary/internal/fileutils"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/parsererror"
	"fjacquet/credit-summary/internal/resultstore"
	"fjacquet/credit-summary/internal/robots"

	"golang.org/x/sync/errgroup"
)

// RecordParser turns one uploaded file into typed records.
type RecordParser interface {
	Parse(ctx context.Context, file models.RawFile) ([]models.Record, error)
}

// Outcome describes a successful ingestion.
type Outcome struct {
	Snapshot   *models.Snapshot
	Files      []string
	Duplicates []fileutils.Duplicate
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	parser  RecordParser
	engine  *aggregate.Engine
	store   *resultstore.Store
	robots  robots.Set
	workers int
	logger  logging.Logger
}

// NewPipeline creates a Pipeline. workers below 1 means one worker per CPU
// and a nil robot set means the built-in watch-list.
func NewPipeline(
	parser RecordParser,
	engine *aggregate.Engine,
	store *resultstore.Store,
	robotSet robots.Set,
	workers int,
	logger logging.Logger,
) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if robotSet == nil {
		robotSet = robots.DefaultSet()
	}
	return &Pipeline{
		parser:  parser,
		engine:  engine,
		store:   store,
		robots:  robotSet,
		workers: workers,
		logger:  logger,
	}
}

// Ingest processes files as one batch. Any parse failure aborts the whole
// batch and leaves the result store untouched.
func (p *Pipeline) Ingest(ctx context.Context, files []models.RawFile) (*Outcome, error) {
	if len(files) == 0 {
		return nil, parsererror.ErrUploadEmpty
	}
	start := time.Now()

	unique, duplicates := fileutils.Deduplicate(files)
	for _, d := range duplicates {
		p.logger.Info("Skipping duplicate file",
			logging.F(logging.FieldFile, d.Name),
			logging.F(logging.FieldDuplicate, d.SameAs),
			logging.F(logging.FieldDigest, d.Digest))
	}
	if len(unique) == 0 {
		return nil, parsererror.ErrUploadEmpty
	}

	names := make([]string, len(unique))
	for i, f := range unique {
		names[i] = f.Name
	}

	snap, err := p.store.Ingest(func() (*models.Snapshot, error) {
		parsed, err := p.parseAll(ctx, unique)
		if err != nil {
			return nil, err
		}

		records := robots.Classify(Merge(parsed), p.robots)
		result, err := p.engine.Run(records)
		if err != nil {
			return nil, err
		}
		return result.Snapshot(names), nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("Ingestion complete",
		logging.F(logging.FieldCount, snap.RecordCount),
		logging.F(logging.FieldGeneration, snap.Generation),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return &Outcome{Snapshot: snap, Files: names, Duplicates: duplicates}, nil
}

// parseAll parses files on a bounded worker group. Each file writes to its
// own slot so the merge keeps arrival order. The first failure cancels the
// remaining work.
func (p *Pipeline) parseAll(ctx context.Context, files []models.RawFile) ([][]models.Record, error) {
	parsed := make([][]models.Record, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	p.logger.Debug("Parsing files",
		logging.F(logging.FieldCount, len(files)),
		logging.F(logging.FieldWorkers, p.workers))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := p.parser.Parse(gctx, f)
			if err != nil {
				return err
			}
			parsed[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}
