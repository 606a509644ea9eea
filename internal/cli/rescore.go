package cli

import (
	"encoding/json"
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ats"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/common"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"

	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore [structured-resume-file] [job-description-file]",
	Short: "Rescore an improved resume against the job description",
	Long: `Rescore a structured resume JSON file, such as the output of the improve
command, against a job description. The structured resume is flattened back to
plain text and run through the same scoring pipeline as the analyze command.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if rescoreConfig.OutputFormat == "" {
			rescoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rescoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRescore,
}

var rescoreConfig common.CommandConfig

func init() {
	rescoreCmd.Flags().StringVarP(&rescoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rescoreCmd.Flags().StringVar(&rescoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runRescore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	resumeContent, err := fileProcessor.ReadFile(args[0])
	if err != nil {
		return err
	}
	var resume types.StructuredResume
	if err := json.Unmarshal([]byte(resumeContent), &resume); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Invalid structured resume JSON: %s", args[0]), err)
	}

	jobContents, err := fileProcessor.ValidateAndReadFiles(args[1])
	if err != nil {
		return err
	}

	analysis := ats.NewService(cfg.Analysis, logger)
	report, err := analysis.Rescore(resume, jobContents[0])
	if err != nil {
		return fmt.Errorf("failed to rescore resume: %w", err)
	}

	if err := outputHandler.HandleOutput(report, rescoreConfig); err != nil {
		return err
	}
	logger.Info("Resume rescored successfully", "score", report.Score.Score)
	return nil
}
