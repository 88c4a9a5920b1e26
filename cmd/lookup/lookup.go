// Package lookup implements the lookup command
package lookup

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/credit-summary/cmd/common"
	"fjacquet/credit-summary/cmd/root"
	"fjacquet/credit-summary/internal/container"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/report"

	"github.com/spf13/cobra"
)

type options struct {
	Inputs     []string
	Output     string
	Format     string
	TaxIDs     []string
	TaxIDsFile string
}

var (
	taxIDs     []string
	taxIDsFile string
)

// Cmd represents the lookup command
var Cmd = &cobra.Command{
	Use:   "lookup",
	Short: "Total the credit of a list of tax ids",
	Long: `Ingest one or more credit exports and report the summary rows of the given
tax ids, with their combined credit and invoice count. Tax ids may be written with
or without punctuation.

Example:
  credit-summary lookup -i jan.txt --tax-id 11.222.333/0001-44 --tax-id 55666777000188
  credit-summary lookup -i exports/ --tax-ids ids.txt -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options{
			Inputs:     root.SharedFlags.Inputs,
			Output:     root.SharedFlags.Output,
			Format:     root.SharedFlags.Format,
			TaxIDs:     taxIDs,
			TaxIDsFile: taxIDsFile,
		}
		return run(cmd.Context(), root.GetContainer(), opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringSliceVar(&taxIDs, "tax-id", nil, "Tax id to look up (repeatable)")
	Cmd.Flags().StringVar(&taxIDsFile, "tax-ids", "", "File with one tax id per line")
}

func run(ctx context.Context, c *container.Container, opts options, w io.Writer) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	ids := append([]string{}, opts.TaxIDs...)
	if opts.TaxIDsFile != "" {
		data, err := os.ReadFile(opts.TaxIDsFile)
		if err != nil {
			return fmt.Errorf("failed to read tax id list: %w", err)
		}
		fromFile, err := ReadTaxIDs(data)
		if err != nil {
			return fmt.Errorf("failed to read tax id list %s: %w", opts.TaxIDsFile, err)
		}
		ids = append(ids, fromFile...)
	}

	out, err := common.IngestInputs(ctx, c, opts.Inputs)
	if err != nil {
		return err
	}

	result, err := c.GetQuery().Lookup(out.Snapshot, ids)
	if err != nil {
		return err
	}

	c.GetLogger().Info("Tax id lookup complete",
		logging.F("tax_ids", len(result.TaxIDs)),
		logging.F(logging.FieldCount, len(result.Rows)))

	data, err := c.GetReports().GenerateLookup(result, format)
	if err != nil {
		return err
	}
	return common.WriteOutput(w, opts.Output, data)
}

// ReadTaxIDs splits a tax id list on lines and commas, dropping blank entries.
// A scan failure, such as a line over the scanner's token limit, is returned
// rather than yielding a truncated list.
func ReadTaxIDs(data []byte) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		for _, part := range strings.Split(scanner.Text(), ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
