package cli

import (
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ats"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/common"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Analyze a resume against a job description and report how an applicant
tracking system would score it. The resume file may be a PDF, DOCX or plain
text file; the job description should be plain text.

The report includes:
- A blended 0-100 compatibility score
- Matched and missing keywords from the job description
- Detected resume sections and contact information
- Prioritized recommendations for improvement`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	logger.Info("Starting resume analysis",
		"resume_chars", len(contents[0]),
		"job_chars", len(contents[1]),
		"output_format", analyzeConfig.OutputFormat)

	analysis := ats.NewService(cfg.Analysis, logger)
	report, err := analysis.Analyze(contents[0], contents[1])
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	if err := outputHandler.HandleOutput(report, analyzeConfig); err != nil {
		return err
	}
	logger.Info("Resume analysis completed successfully", "score", report.Score.Score)
	return nil
}
