package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the persistent flags are
// processed.
type app struct {
	configPath string
	logLevel   string
	envFile    string

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "finance-dashboard",
		Short:         "Revenue, payroll, hosting and cash-flow projections",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&a.envFile, "env-file", ".env", "environment file loaded before the configuration")

	root.AddCommand(
		newServeCommand(a),
		newReportCommand(a),
		newValidateCommand(a),
		newMonthsCommand(),
	)
	return root
}

// setup loads the environment file, the configuration and the logger. A
// missing default config or env file is not an error; an explicitly named
// one is.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(a.envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load env file %s: %w", a.envFile, err)
		}
	}

	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		if _, statErr := os.Stat(a.configPath); !errors.Is(statErr, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
		}
		if conf, err = config.Default(); err != nil {
			return err
		}
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return nil
}
