package interfaces

import "context"

// Logger is the leveled logger used across the sync pipeline, the MCP server
// and the commands. A go-logger Logger satisfies it directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by component name ("docs.sync",
// "docs.mcp", "commands.docs").
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields,
// such as the sync run id, on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
