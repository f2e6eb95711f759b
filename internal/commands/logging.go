package commands

import (
	"strings"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// CommandLogger returns the docs.commands logger enriched with the command
// module name.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.CommandsLogger(provider), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
