// Package robots implements the robots command
package robots

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/credit-summary/cmd/common"
	"fjacquet/credit-summary/cmd/root"
	"fjacquet/credit-summary/internal/container"
	"fjacquet/credit-summary/internal/report"

	"github.com/spf13/cobra"
)

var write bool

// Cmd represents the robots command
var Cmd = &cobra.Command{
	Use:   "robots",
	Short: "Show the robotic issuer watch-list",
	Long: `Print the normalized tax ids of the robotic issuer watch-list in use: the file
given with --robots or robots.file, robots.yaml in the usual locations, or the
built-in list. With --write the active list is saved as YAML to the configured file.

Example:
  credit-summary robots
  credit-summary robots --robots config/robots.yaml --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(root.GetContainer(), root.SharedFlags.Format, root.SharedFlags.Output, write, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&write, "write", false, "Save the active watch-list as YAML")
}

func run(c *container.Container, formatName, output string, save bool, w io.Writer) error {
	if c == nil {
		return common.ErrNoContainer
	}

	if save {
		path, err := c.GetWatchList().SaveRobotIDs(c.GetRobots())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Saved %d tax ids to %s\n", len(c.GetRobots()), path)
		return err
	}

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ids := c.GetRobots().IDs()
	var data []byte
	switch format {
	case report.FormatJSON:
		data, err = json.MarshalIndent(map[string][]string{"robots": ids}, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
	default:
		data = []byte(strings.Join(ids, "\n") + "\n")
	}
	return common.WriteOutput(w, output, data)
}
