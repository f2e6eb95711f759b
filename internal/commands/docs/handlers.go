package docscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsync/internal/commands"
	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	syncOperation       = "docs.sync"
	invalidateOperation = "docs.navigation.invalidate"
)

// ErrServiceRequired is returned when registration receives no service.
var ErrServiceRequired = errors.New("docs command: service is nil")

// Service is the slice of the docs service the handlers drive.
type Service interface {
	Sync(ctx context.Context, opts interfaces.SyncOptions) (interfaces.SyncResult, error)
	InvalidateNavigation(ctx context.Context) error
}

// SourceResolver picks the tree source for a sync command. Returning a nil
// source leaves the service default in place.
type SourceResolver func(msg SyncDocumentationCommand) (interfaces.TreeSource, error)

var (
	_ command.Commander[SyncDocumentationCommand]    = (*SyncDocumentationHandler)(nil)
	_ command.Commander[InvalidateNavigationCommand] = (*InvalidateNavigationHandler)(nil)
)

// SyncDocumentationHandler runs sync passes through the shared command handler.
type SyncDocumentationHandler struct {
	inner *commands.Handler[SyncDocumentationCommand]
}

// NewSyncDocumentationHandler creates a handler bound to service.
func NewSyncDocumentationHandler(service Service, sources SourceResolver, logger interfaces.Logger, opts ...commands.HandlerOption[SyncDocumentationCommand]) *SyncDocumentationHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncDocumentationCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		syncOpts := interfaces.SyncOptions{Force: msg.Force, Shallow: msg.Shallow}
		if sources != nil {
			source, err := sources(msg)
			if err != nil {
				return err
			}
			syncOpts.Source = source
		}

		result, err := service.Sync(ctx, syncOpts)
		entry := logging.WithFields(baseLogger, map[string]any{
			"changed_count":   len(result.Changed),
			"skipped_count":   result.Skipped,
			"failed_count":    len(result.Failed),
			"failed_subtrees": len(result.FailedSubtrees),
			"deleted_count":   result.Deleted,
		})
		if err != nil {
			return err
		}
		if result.Partial() {
			entry.Warn("docs.command.sync.partial", "failed", result.Failed, "failed_subtrees", result.FailedSubtrees)
			return nil
		}
		entry.Info("docs.command.sync.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDocumentationCommand]{
		commands.WithLogger[SyncDocumentationCommand](baseLogger),
		commands.WithOperation[SyncDocumentationCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDocumentationCommand) map[string]any {
			fields := map[string]any{}
			if msg.Force {
				fields["force"] = true
			}
			if msg.Local {
				fields["local"] = true
			}
			if msg.Path != "" {
				fields["path"] = msg.Path
			}
			if msg.Shallow {
				fields["shallow"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDocumentationCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDocumentationHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncDocumentationCommand].
func (h *SyncDocumentationHandler) Execute(ctx context.Context, msg SyncDocumentationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidateNavigationHandler drops the navigation cache.
type InvalidateNavigationHandler struct {
	inner *commands.Handler[InvalidateNavigationCommand]
}

// NewInvalidateNavigationHandler creates a handler bound to service.
func NewInvalidateNavigationHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateNavigationCommand]) *InvalidateNavigationHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, _ InvalidateNavigationCommand) error {
		return service.InvalidateNavigation(ctx)
	}

	handlerOpts := []commands.HandlerOption[InvalidateNavigationCommand]{
		commands.WithLogger[InvalidateNavigationCommand](baseLogger),
		commands.WithOperation[InvalidateNavigationCommand](invalidateOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[InvalidateNavigationCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InvalidateNavigationHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InvalidateNavigationCommand].
func (h *InvalidateNavigationHandler) Execute(ctx context.Context, msg InvalidateNavigationCommand) error {
	return h.inner.Execute(ctx, msg)
}
