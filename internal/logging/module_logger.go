package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

const (
	rootModule       = "docs"
	syncModule       = "docs.sync"
	fetcherModule    = "docs.fetcher"
	storeModule      = "docs.store"
	navigationModule = "docs.navigation"
	mcpModule        = "docs.mcp"
	commandsModule   = "docs.commands"
	markdownModule   = "docs.markdown"
)

const (
	fieldDocPath    = "doc_path"
	fieldRemotePath = "remote_path"
	fieldSyncAction = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// SyncLogger returns the logger namespace reserved for the sync orchestrator.
func SyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncModule)
}

// FetcherLogger returns the logger namespace reserved for tree sources.
func FetcherLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fetcherModule)
}

// StoreLogger returns the logger namespace reserved for document stores.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// NavigationLogger returns the logger namespace reserved for navigation.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// MCPLogger returns the logger namespace reserved for the MCP surface.
func MCPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mcpModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// MarkdownLogger returns the logger namespace reserved for the render pipeline.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithDocumentContext enriches the logger with the document path, the remote
// path it came from and the sync action. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, docPath, remotePath, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(docPath); trimmed != "" {
		fields[fieldDocPath] = trimmed
	}
	if trimmed := strings.TrimSpace(remotePath); trimmed != "" {
		fields[fieldRemotePath] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldSyncAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
