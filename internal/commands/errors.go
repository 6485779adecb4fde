package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors raised by Handler. Errors already carrying a
// go-errors category pass through untouched.
const (
	CodeInvalidMessage   = "COURSEWARE_COMMAND_INVALID"
	CodeCancelled        = "COURSEWARE_COMMAND_CANCELLED"
	CodeDeadlineExceeded = "COURSEWARE_COMMAND_DEADLINE"
	CodeExecutionFailed  = "COURSEWARE_COMMAND_FAILED"
)

type failureStage int

const (
	stageValidate failureStage = iota
	stageContext
	stageExecute
)

func categorise(stage failureStage, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case stage == stageValidate:
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
			WithTextCode(CodeInvalidMessage)
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command cancelled").
			WithTextCode(CodeCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(CodeDeadlineExceeded)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
			WithTextCode(CodeExecutionFailed)
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
