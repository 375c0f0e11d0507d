package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/mortgage-payoff/internal/config"
	"github.com/iwvelando/mortgage-payoff/internal/projection"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/output"
	"github.com/iwvelando/mortgage-payoff/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig       string
	flagOutputFormat string
	flagLogLevel     string
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "mortgage-payoff",
	Short:         "Mortgage payoff projections",
	Long:          "Project how extra monthly principal payments shorten a mortgage and how much interest they save.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProject,
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Print the payoff projection for a configuration file",
	RunE:  runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{rootCmd, projectCmd} {
		cmd.Flags().StringVar(&flagConfig, "config", constants.DefaultConfigFile, "path to configuration file")
		cmd.Flags().StringVar(&flagOutputFormat, "output-format", "", "type of output override: pretty, csv, json")
	}

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(serveCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	return project(cmd.OutOrStdout(), flagConfig, flagOutputFormat, flagLogLevel)
}

// project loads the configuration at configPath and writes its report to w.
func project(w io.Writer, configPath, outputFormatOverride, logLevel string) error {
	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatOverride != "" {
		outputFormat = outputFormatOverride
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	if err := conf.ProcessMortgage(logger); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.project"),
		)
	}

	report, err := projection.GetProjection(logger, *conf)
	if err != nil {
		logger.Error("failed to compute projection",
			zap.String("op", "main.project"),
			zap.Error(err),
		)
		return err
	}

	return output.Write(w, outputFormat, report)
}
