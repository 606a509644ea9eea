package common

import (
	"context"
	"fmt"
	"os"

	"github.com/anujkumar2005/smart-ats-ultimate/internal/ai"
	"github.com/anujkumar2005/smart-ats-ultimate/internal/errors"
)

// CreateInputFunc builds the operation input from the contents of the
// command's file arguments, in argument order.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// AIOperationFunc is the signature shared by AI operations: context in,
// result plus token usage out.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// RunAICommand is the shared skeleton for file-in, formatted-output-out AI
// commands: read and validate the input files, build the operation input,
// run the operation, report token usage, hand the result to the output
// handler.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	reportTokenUsage(logger, tokenUsage)

	return outputHandler.HandleOutput(result, cmdConfig)
}

func reportTokenUsage(logger *errors.Logger, usage *ai.TokenUsage) {
	if usage == nil {
		return
	}
	if logger != nil {
		logger.Info("AI token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
		return
	}
	fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n",
		usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
}
