package cli

import (
	"encoding/json"
	"fmt"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/common"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/render"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/types"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [structured-resume-file]",
	Short: "Render a structured resume as a PDF",
	Long: `Render a structured resume JSON file, such as the output of the improve
command, into a single-column ATS-friendly PDF document.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var renderOutputFile string

func init() {
	renderCmd.Flags().StringVarP(&renderOutputFile, "output", "o", "resume.pdf", "Output PDF file path")
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)

	content, err := fileProcessor.ReadFile(args[0])
	if err != nil {
		return err
	}

	var resume types.StructuredResume
	if err := json.Unmarshal([]byte(content), &resume); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Invalid structured resume JSON: %s", args[0]), err)
	}

	logger.Info("Rendering resume", "name", resume.Name, "output", renderOutputFile)

	pdfBytes, err := render.Render(resume)
	if err != nil {
		return fmt.Errorf("failed to render resume: %w", err)
	}

	if err := fileProcessor.WriteBinaryFile(renderOutputFile, pdfBytes); err != nil {
		return err
	}
	logger.Info("Resume rendered successfully", "file", renderOutputFile, "bytes", len(pdfBytes))
	return nil
}
