// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/credit-summary/internal/config"
	"fjacquet/credit-summary/internal/container"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs    []string
	Output    string
	Format    string
	Robots    string
	LogLevel  string
	LogFormat string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "credit-summary",
		Short: "A CLI tool to summarize tax-credit exports by issuer and month.",
		Long: `credit-summary reads UTF-16 tab-delimited tax-credit exports, merges them,
flags invoices from robotic issuers and summarizes credit per issuer and per month.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to credit-summary!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			applyFlagOverrides(cfg)

			Log = config.ConfigureLoggingFromConfig(cfg)

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			appContainer = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				if err := appContainer.Close(); err != nil {
					Log.Warnf("Failed to close container: %v", err)
				}
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// SharedFlags holds the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		flags := Cmd.PersistentFlags()
		flags.StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Input file or directory (repeatable)")
		flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
		flags.StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format: text, json or csv")
		flags.StringVar(&SharedFlags.Robots, "robots", "", "Robotic issuer watch-list YAML file")
		flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides config)")
		flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format: text or json (overrides config)")
	})
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

// applyFlagOverrides lets explicit command-line flags win over config and env.
func applyFlagOverrides(cfg *config.Config) {
	if SharedFlags.Robots != "" {
		cfg.Robots.File = SharedFlags.Robots
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
}
