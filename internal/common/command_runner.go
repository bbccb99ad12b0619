package common

import (
	"context"

	"talentmatch/internal/errors"
)

// OperationFunc is the core operation of a CLI command, producing the
// value handed to the output formatter.
type OperationFunc[Output any] func(ctx context.Context) (Output, error)

// RunOutputCommand runs a command's core operation and routes the result
// through the formatter registry to the configured destination.
func RunOutputCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	operation OperationFunc[Output],
) error {
	outputHandler := NewOutputHandler(logger)

	// Fail on an unwritable output path before doing any work
	if err := outputHandler.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	result, err := operation(ctx)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
