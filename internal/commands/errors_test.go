package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestTagFailureTextCodes(t *testing.T) {
	cases := []struct {
		name     string
		stage    failureStage
		err      error
		category goerrors.Category
		code     string
	}{
		{"validate", stageValidate, errors.New("bad path"), goerrors.CategoryValidation, TextCodeCommandInvalid},
		{"cancelled", stageContext, context.Canceled, goerrors.CategoryCommand, TextCodeCommandInterrupted},
		{"deadline", stageContext, fmt.Errorf("listing: %w", context.DeadlineExceeded), goerrors.CategoryCommand, TextCodeCommandTimeout},
		{"execute", stageExecute, errors.New("boom"), goerrors.CategoryCommand, TextCodeCommandFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tagFailure(tc.stage, tc.err)
			var tagged *goerrors.Error
			if !errors.As(err, &tagged) {
				t.Fatalf("expected go-errors error, got %T", err)
			}
			if tagged.Category != tc.category || tagged.TextCode != tc.code {
				t.Fatalf("expected %s/%s, got %s/%s", tc.category, tc.code, tagged.Category, tagged.TextCode)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected source error to stay reachable")
			}
		})
	}
}

func TestTagFailureKeepsExistingCategory(t *testing.T) {
	source := goerrors.New("rate limited", goerrors.CategoryRateLimit).WithTextCode("GITHUB_RATE_LIMITED")
	if got := tagFailure(stageExecute, source); got != error(source) {
		t.Fatalf("expected categorised error to pass through, got %v", got)
	}
	if tagFailure(stageExecute, nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
