package cli

import (
	"context"
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ai"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/ats"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/common"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"

	"github.com/spf13/cobra"
)

var improveCmd = &cobra.Command{
	Use:   "improve [resume-file] [job-description-file]",
	Short: "Rewrite a resume for a specific job description using AI",
	Long: `Improve your resume for a specific job description using AI.
The command takes two arguments: the path to your resume file (PDF, DOCX or
plain text) and the path to the job description file. The result is a
structured resume that preserves your facts while weaving in keywords from
the job description.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if improveConfig.OutputFormat == "" {
			improveConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(improveConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runImprove,
}

var improveConfig common.CommandConfig

func init() {
	improveCmd.Flags().StringVarP(&improveConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	improveCmd.Flags().StringVar(&improveConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = improveCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runImprove(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for improve operation
	improveAIConfig := cfg.GetImproveConfig()
	aiService, err := ai.NewService(&improveAIConfig, "improve", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	analysis := ats.NewService(cfg.Analysis, logger)

	createInput := func(contents []string) (types.ImproveResumeInput, error) {
		if len(contents) != 2 {
			return types.ImproveResumeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		if err := analysis.ValidateResumeText(contents[0]); err != nil {
			return types.ImproveResumeInput{}, err
		}
		if err := analysis.ValidateJobDescription(contents[1]); err != nil {
			return types.ImproveResumeInput{}, err
		}
		return types.ImproveResumeInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.ImproveResumeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume improvement",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	improveOperation := func(ctx context.Context, input types.ImproveResumeInput) (types.StructuredResume, *ai.TokenUsage, error) {
		return aiService.ImproveResume(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		improveConfig,
		args,
		createInput,
		improveOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to improve resume: %w", err)
	}
	logger.Info("Resume improvement completed successfully")
	return nil
}
