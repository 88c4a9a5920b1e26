// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/credit-summary/internal/container"
	"fjacquet/credit-summary/internal/fileutils"
	"fjacquet/credit-summary/internal/ingest"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/parsererror"
)

// ErrNoContainer is returned when a command runs before the root pre-run hook.
var ErrNoContainer = errors.New("container not initialized")

// Context returns ctx, or a background context when ctx is nil.
func Context(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// IngestInputs reads inputs and runs them through the pipeline as one batch.
// Failures are logged with the message shown to the user and returned with
// that message prepended.
func IngestInputs(ctx context.Context, c *container.Container, inputs []string) (*ingest.Outcome, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	log := c.GetLogger()

	if len(inputs) == 0 {
		return nil, userError(log, parsererror.ErrUploadEmpty)
	}

	files, err := c.ReadFiles(inputs)
	if err != nil {
		log.WithError(err).Error("Failed to read input files")
		return nil, fmt.Errorf("failed to read input files: %w", err)
	}

	// The pipeline logs each skipped duplicate itself.
	out, err := c.GetPipeline().Ingest(Context(ctx), files)
	if err != nil {
		return nil, userError(log, err)
	}
	return out, nil
}

func userError(log logging.Logger, err error) error {
	msg := parsererror.Describe(err)
	log.WithError(err).Error(msg)
	return fmt.Errorf("%s: %w", msg, err)
}

// WriteOutput writes data to the file at path, or to w when path is empty.
func WriteOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}

	f, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
