package cli

import (
	"context"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/config"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"

	"github.com/spf13/cobra"
)

// Private context key types keep the config and logger entries from
// colliding with anything else stored on the context.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "smartats",
	Short: "An ATS resume analyzer and optimizer",
	Long: `SmartATS analyzes resumes against job descriptions the way an applicant
tracking system would: it extracts text from PDF and DOCX files, scores keyword
coverage and structure, and suggests improvements. It can also rewrite a resume
with AI and render the result as a polished PDF.`,
}

// Execute attaches the config and logger to the command context and runs
// the root command. Subcommands pull them back out with the getters below.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(improveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
