// Package container provides dependency injection for the credit-summary application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/credit-summary/internal/aggregate"
	"fjacquet/credit-summary/internal/config"
	"fjacquet/credit-summary/internal/creditparser"
	"fjacquet/credit-summary/internal/fileutils"
	"fjacquet/credit-summary/internal/ingest"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/query"
	"fjacquet/credit-summary/internal/report"
	"fjacquet/credit-summary/internal/resultstore"
	"fjacquet/credit-summary/internal/robots"
	"fjacquet/credit-summary/internal/store"
)

// WatchList loads and saves the robotic-issuer tax ids.
type WatchList interface {
	LoadRobotIDs() (robots.Set, error)
	SaveRobotIDs(set robots.Set) (string, error)
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	watchList WatchList
	robots    robots.Set

	parser   *creditparser.Parser
	engine   *aggregate.Engine
	results  *resultstore.Store
	pipeline *ingest.Pipeline
	query    *query.Engine
	reports  *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	return NewContainerWith(cfg, logger, store.NewWatchListStore(cfg.Robots.File, logger))
}

// NewContainerWith wires the application around an existing logger and
// watch-list source.
func NewContainerWith(cfg *config.Config, logger logging.Logger, watchList WatchList) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	if watchList == nil {
		return nil, fmt.Errorf("watch-list source cannot be nil")
	}

	robotSet, err := watchList.LoadRobotIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to load robotic issuer watch-list: %w", err)
	}

	parser := creditparser.NewParser(logger)
	engine := aggregate.NewEngine(logger)
	results := resultstore.New(logger)
	pipeline := ingest.NewPipeline(parser, engine, results, robotSet, cfg.Ingest.Workers, logger)

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldWorkers, cfg.Ingest.Workers),
		logging.F("robots", len(robotSet)),
		logging.F("page_size", cfg.Query.PageSize))

	return &Container{
		logger:    logger,
		config:    cfg,
		watchList: watchList,
		robots:    robotSet,
		parser:    parser,
		engine:    engine,
		results:   results,
		pipeline:  pipeline,
		query:     query.NewEngine(cfg.Query.PageSize),
		reports:   report.NewReportGenerator(logger),
	}, nil
}

// ReadFiles loads the given files and directories with the configured size limit.
func (c *Container) ReadFiles(paths []string) ([]models.RawFile, error) {
	return fileutils.ReadRawFiles(paths, c.config.Ingest.MaxFileBytes)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetWatchList returns the watch-list source.
func (c *Container) GetWatchList() WatchList {
	return c.watchList
}

// GetRobots returns the active robotic-issuer set.
func (c *Container) GetRobots() robots.Set {
	return c.robots
}

// GetParser returns the credit export parser.
func (c *Container) GetParser() *creditparser.Parser {
	return c.parser
}

// GetEngine returns the aggregation engine.
func (c *Container) GetEngine() *aggregate.Engine {
	return c.engine
}

// GetResults returns the result store shared by ingestion and queries.
func (c *Container) GetResults() *resultstore.Store {
	return c.results
}

// GetPipeline returns the ingestion pipeline.
func (c *Container) GetPipeline() *ingest.Pipeline {
	return c.pipeline
}

// GetQuery returns the query engine.
func (c *Container) GetQuery() *query.Engine {
	return c.query
}

// GetReports returns the report generator.
func (c *Container) GetReports() *report.ReportGenerator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
