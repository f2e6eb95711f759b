package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to a Telemetry callback once the command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes finished executions.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one entry per execution on logger, carrying the
// command fields and the elapsed milliseconds.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info)
	}
}

func logOutcome(logger interfaces.Logger, info TelemetryInfo) {
	elapsed := info.Duration.Milliseconds()
	switch info.Status {
	case TelemetryStatusSuccess:
		logger.Info("docs.command.succeeded", "duration_ms", elapsed)
	case TelemetryStatusContextError:
		logger.Warn("docs.command.interrupted", "duration_ms", elapsed, "error", info.Error)
	default:
		logger.Error("docs.command.failed", "duration_ms", elapsed, "error", info.Error)
	}
}
