// Package report implements the report command
package report

import (
	"context"
	"io"

	"fjacquet/credit-summary/cmd/common"
	"fjacquet/credit-summary/cmd/root"
	"fjacquet/credit-summary/internal/container"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/query"
	reportgen "fjacquet/credit-summary/internal/report"

	"github.com/spf13/cobra"
)

type options struct {
	Inputs []string
	Output string
	Format string
	Search string
	Page   string
	All    bool
}

var (
	searchQuery string
	page        string
	showAll     bool
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize credit exports by issuer and month",
	Long: `Ingest one or more credit exports as a single batch and print the top-10 ranking,
the monthly credit series (all issuers and robotic issuers only) and one page of the
issuer summary.

Byte-identical files are ingested once. Any unreadable file aborts the whole batch.

The search accepts comma-separated terms. Terms made only of digits and tax-id
punctuation match tax ids exactly; anything else matches issuer names or tax ids
by substring.

Example:
  credit-summary report -i jan.txt -i feb.txt --search "acme, 11.222.333/0001-44" --page 2
  credit-summary report -i exports/ --all -f csv -o summary.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options{
			Inputs: root.SharedFlags.Inputs,
			Output: root.SharedFlags.Output,
			Format: root.SharedFlags.Format,
			Search: searchQuery,
			Page:   page,
			All:    showAll,
		}
		return run(cmd.Context(), root.GetContainer(), opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&searchQuery, "search", "s", "", "Comma-separated issuer names or tax ids")
	Cmd.Flags().StringVarP(&page, "page", "p", "1", "Summary page to print (1-based)")
	Cmd.Flags().BoolVar(&showAll, "all", false, "Print every matching summary row instead of one page")
}

func run(ctx context.Context, c *container.Container, opts options, w io.Writer) error {
	format, err := reportgen.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	out, err := common.IngestInputs(ctx, c, opts.Inputs)
	if err != nil {
		return err
	}
	snap := out.Snapshot

	engine := c.GetQuery()
	pageNum := query.ParsePage(opts.Page)
	if opts.All {
		engine = query.NewEngine(len(snap.Summary))
		pageNum = 1
	}
	result := engine.Search(snap, opts.Search, pageNum)

	c.GetLogger().Debug("Search complete",
		logging.F(logging.FieldQuery, opts.Search),
		logging.F(logging.FieldPage, result.Page),
		logging.F(logging.FieldCount, len(result.Matches)))

	data, err := c.GetReports().GenerateSummary(snap, result, format)
	if err != nil {
		return err
	}
	return common.WriteOutput(w, opts.Output, data)
}
