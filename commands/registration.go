package commands

import (
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	internalcommands "github.com/goliatone/go-docsync/internal/commands"
	docscmd "github.com/goliatone/go-docsync/internal/commands/docs"
	"github.com/goliatone/go-docsync/internal/di"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// ErrNoHandlers is returned when the container exposes no docs service.
var ErrNoHandlers = errors.New("no command handlers registered; ensure the docs service is configured")

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar = docscmd.CronRegistrar

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// CronExpression overrides the configured schedule of the sync handler.
	CronExpression string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	Docs          *docscmd.HandlerSet
}

// RegisterContainerCommands builds the docs command handlers exposed by the
// container and optionally registers them with registry, dispatcher and cron
// integrations. The sync handler is scheduled only when cron is enabled in
// the container config and a registrar is supplied.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	service := container.DocsService()
	if service == nil {
		return result, ErrNoHandlers
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	var docsOpts []docscmd.Option
	if cfg.Commands.Timeout > 0 {
		docsOpts = append(docsOpts, docscmd.WithSyncHandlerOptions(
			internalcommands.WithTimeout[docscmd.SyncDocumentationCommand](cfg.Commands.Timeout),
		))
	}
	handlerSet, err := docscmd.RegisterDocsCommands(nil, service, container.SyncSourceResolver(), provider, docsOpts...)
	if err != nil {
		return result, err
	}
	result.Docs = handlerSet
	register(handlerSet.Sync)
	register(handlerSet.Invalidate)

	expression := strings.TrimSpace(opts.CronExpression)
	if expression == "" {
		expression = strings.TrimSpace(cfg.Commands.CronExpression)
	}
	if cfg.Commands.CronEnabled && opts.CronRegistrar != nil && expression != "" {
		cronCfg := command.HandlerConfig{Expression: expression, Timeout: cfg.Commands.Timeout}
		if err := docscmd.RegisterDocsCron(opts.CronRegistrar, handlerSet.Sync, cronCfg, docscmd.SyncDocumentationCommand{}); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return result, errs
}

// Dispatcher subscribes docs handlers to the go-command dispatcher.
type Dispatcher struct{}

// RegisterCommand implements CommandDispatcher.
func (Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *docscmd.SyncDocumentationHandler:
		return dispatcher.SubscribeCommand[docscmd.SyncDocumentationCommand](h), nil
	case *docscmd.InvalidateNavigationHandler:
		return dispatcher.SubscribeCommand[docscmd.InvalidateNavigationCommand](h), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}
