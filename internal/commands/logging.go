package commands

import (
	"strings"

	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const commandModuleRoot = "courseware.commands"

// CommandLogger returns a module-scoped logger for command handlers under
// courseware.commands.<module>.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
