package ingest

import "fjacquet/credit-summary/internal/models"

// Merge concatenates per-file record slices in file-arrival order, keeping
// row order within each file. The result is a new slice.
func Merge(parsed [][]models.Record) []models.Record {
	total := 0
	for _, recs := range parsed {
		total += len(recs)
	}

	merged := make([]models.Record, 0, total)
	for _, recs := range parsed {
		merged = append(merged, recs...)
	}
	return merged
}
