package logging

// Field names shared by every component so that log lines from ingestion,
// aggregation and queries can be filtered on the same keys.
const (
	FieldFile       = "file"
	FieldDigest     = "digest"
	FieldDuplicate  = "duplicate_of"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldGroups     = "groups"
	FieldMonths     = "months"
	FieldGeneration = "generation"
	FieldSnapshot   = "snapshot_id"
	FieldQuery      = "query"
	FieldPage       = "page"
	FieldWorkers    = "workers"
)
