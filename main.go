// Command credit-summary ingests bank credit statement exports and reports
// credit totals per counterparty.
package main

import (
	"fmt"
	"os"

	"fjacquet/credit-summary/cmd/lookup"
	"fjacquet/credit-summary/cmd/report"
	"fjacquet/credit-summary/cmd/robots"
	"fjacquet/credit-summary/cmd/root"
	"fjacquet/credit-summary/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env must be merged before the bootstrap level is read from it.
	config.LoadEnv()
	bootstrapLogLevel()

	root.Init()
	root.Cmd.AddCommand(report.Cmd, lookup.Cmd, robots.Cmd)
}

// bootstrapLogLevel applies CREDIT_LOG_LEVEL to the loggers that exist before
// the command's configuration is resolved.
func bootstrapLogLevel() {
	level, err := logrus.ParseLevel(config.GetEnv("CREDIT_LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	config.Logger.SetLevel(level)
	root.Log.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "credit-summary:", err)
		os.Exit(1)
	}
}
