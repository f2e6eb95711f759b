package docscmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/cron"

	"github.com/goliatone/go-docsync/internal/commands"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the handlers built by RegisterDocsCommands.
type HandlerSet struct {
	Sync       *SyncDocumentationHandler
	Invalidate *InvalidateNavigationHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	syncHandlerOpts       []commands.HandlerOption[SyncDocumentationCommand]
	invalidateHandlerOpts []commands.HandlerOption[InvalidateNavigationCommand]
}

// WithSyncHandlerOptions forwards options to the sync handler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncDocumentationCommand]) Option {
	return func(cfg *options) {
		cfg.syncHandlerOpts = append(cfg.syncHandlerOpts, opts...)
	}
}

// WithInvalidateHandlerOptions forwards options to the invalidate handler constructor.
func WithInvalidateHandlerOptions(opts ...commands.HandlerOption[InvalidateNavigationCommand]) Option {
	return func(cfg *options) {
		cfg.invalidateHandlerOpts = append(cfg.invalidateHandlerOpts, opts...)
	}
}

// RegisterDocsCommands builds the docs handlers and registers them with reg
// when it is non-nil.
func RegisterDocsCommands(reg CommandRegistry, service Service, sources SourceResolver, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "docs")

	syncHandler := NewSyncDocumentationHandler(service, sources, logger, cfg.syncHandlerOpts...)
	invalidateHandler := NewInvalidateNavigationHandler(service, logger, cfg.invalidateHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(syncHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(invalidateHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Sync:       syncHandler,
		Invalidate: invalidateHandler,
	}, nil
}

// RegisterDocsCron schedules handler with msg under cfg.Expression. The
// handler runs with a background context.
func RegisterDocsCron(reg CronRegistrar, handler *SyncDocumentationHandler, cfg command.HandlerConfig, msg SyncDocumentationCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}

// SchedulerRegistrar adapts a go-command cron scheduler to CronRegistrar.
func SchedulerRegistrar(scheduler *cron.Scheduler) CronRegistrar {
	if scheduler == nil {
		return nil
	}
	return func(cfg command.HandlerConfig, handler any) error {
		_, err := scheduler.AddHandler(cfg, handler)
		return err
	}
}
