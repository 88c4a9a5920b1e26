// Package parsererror defines the error taxonomy of the ingestion pipeline.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUploadEmpty is returned when a batch holds no files, or none survive deduplication.
var ErrUploadEmpty = errors.New("no files were submitted")

// FileReadError reports a file that could not be decoded or split into fields.
type FileReadError struct {
	File   string
	Reason string
	Err    error
}

func (e *FileReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to read file '%s': %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to read file '%s': %s", e.File, e.Reason)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// SchemaError reports required columns missing from a file header.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file '%s' is missing required columns: %s",
		e.File, strings.Join(e.Missing, ", "))
}

// TypeConversionError reports a field that does not parse after cleaning.
// Row is 1-based and counts data rows only (the header is row 0).
type TypeConversionError struct {
	File   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("%s: failed to convert %s='%s' on row %d: %v",
		e.File, e.Column, e.Value, e.Row, e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// InternalAggregationError signals a broken upstream contract detected while
// aggregating. It is never caused by user input when parsing succeeded.
type InternalAggregationError struct {
	Stage string
	Err   error
}

func (e *InternalAggregationError) Error() string {
	return fmt.Sprintf("internal aggregation error in %s: %v", e.Stage, e.Err)
}

func (e *InternalAggregationError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err stems from the submitted files rather than
// from a defect in the pipeline.
func IsUserError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUploadEmpty) {
		return true
	}
	var fr *FileReadError
	var se *SchemaError
	var tc *TypeConversionError
	return errors.As(err, &fr) || errors.As(err, &se) || errors.As(err, &tc)
}

// Describe renders err as the single message shown to whoever submitted the batch.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		fr *FileReadError
		se *SchemaError
		tc *TypeConversionError
		ia *InternalAggregationError
	)
	switch {
	case errors.Is(err, ErrUploadEmpty):
		return "No file was uploaded."
	case errors.As(err, &fr):
		return fmt.Sprintf("Could not read file %s: %s.", fr.File, fr.Reason)
	case errors.As(err, &se):
		return fmt.Sprintf("File %s is missing columns: %s.", se.File, strings.Join(se.Missing, ", "))
	case errors.As(err, &tc):
		return fmt.Sprintf("File %s, row %d: column %s has an invalid value %q.", tc.File, tc.Row, tc.Column, tc.Value)
	case errors.As(err, &ia):
		return "Unexpected error while processing the data."
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
