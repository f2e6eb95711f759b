package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to command failures that arrive without a category.
const (
	TextCodeCommandInvalid     = "DOCS_COMMAND_INVALID"
	TextCodeCommandInterrupted = "DOCS_COMMAND_INTERRUPTED"
	TextCodeCommandTimeout     = "DOCS_COMMAND_TIMEOUT"
	TextCodeCommandFailed      = "DOCS_COMMAND_FAILED"
)

type failureStage int

const (
	stageValidate failureStage = iota
	stageContext
	stageExecute
)

// tagFailure gives an untagged error a category and text code for stage.
// Errors that already carry a category pass through, so a sync failure
// keeps the category the docs service assigned.
func tagFailure(stage failureStage, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}

	category, code, message := goerrors.CategoryCommand, TextCodeCommandFailed, "docs command failed"
	switch stage {
	case stageValidate:
		category, code, message = goerrors.CategoryValidation, TextCodeCommandInvalid, "docs command rejected"
	case stageContext:
		code, message = TextCodeCommandInterrupted, "docs command interrupted"
		if errors.Is(err, context.DeadlineExceeded) {
			code, message = TextCodeCommandTimeout, "docs command timed out"
		}
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
