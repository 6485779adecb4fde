package coursescmd

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-courseware/internal/commands"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/internal/markdown"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const (
	syncCoursesMessageType = "courseware.courses.sync"
	syncOperation          = "courses.sync"
	// DefaultSyncCron re-imports course sources once an hour.
	DefaultSyncCron = "@hourly"
)

// SyncCoursesCommand re-imports every source under Directory, overwriting
// courses whose source changed and leaving the others alone.
type SyncCoursesCommand struct {
	Directory string                       `json:"directory,omitempty"`
	Report    func(*markdown.ImportResult) `json:"-"`
}

// Type implements command.Message.
func (SyncCoursesCommand) Type() string { return syncCoursesMessageType }

// Validate rejects directories that climb out of the source root.
func (cmd SyncCoursesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(relativeDirectory)),
	)
}

type syncHandlerConfig struct {
	cronConfig command.HandlerConfig
	directory  string
	timeout    time.Duration
}

// SyncHandlerOption customises the sync handler.
type SyncHandlerOption func(*syncHandlerConfig)

// SyncWithCronExpression overrides the cron expression for scheduled syncs.
func SyncWithCronExpression(expression string) SyncHandlerOption {
	return func(cfg *syncHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// SyncWithDirectory sets the directory re-imported by scheduled runs.
func SyncWithDirectory(dir string) SyncHandlerOption {
	return func(cfg *syncHandlerConfig) {
		cfg.directory = strings.TrimSpace(dir)
	}
}

// SyncWithTimeout overrides the default execution timeout.
func SyncWithTimeout(timeout time.Duration) SyncHandlerOption {
	return func(cfg *syncHandlerConfig) {
		cfg.timeout = timeout
	}
}

// SyncCoursesHandler keeps stored courses in step with their sources.
type SyncCoursesHandler struct {
	inner      *commands.Handler[SyncCoursesCommand]
	cronConfig command.HandlerConfig
	directory  string
}

var _ command.Commander[SyncCoursesCommand] = (*SyncCoursesHandler)(nil)

// NewSyncCoursesHandler creates a handler bound to the document loader and importer.
func NewSyncCoursesHandler(documents DocumentLoader, importer DocumentImporter, logger interfaces.Logger, opts ...SyncHandlerOption) *SyncCoursesHandler {
	cfg := syncHandlerConfig{
		cronConfig: command.HandlerConfig{Expression: DefaultSyncCron},
		directory:  ".",
		timeout:    commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.directory == "" {
		cfg.directory = "."
	}

	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg SyncCoursesCommand) error {
		docs, err := documents.LoadDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}
		result, err := importer.ImportDocuments(ctx, docs, markdown.ImportOptions{
			Overwrite:     true,
			SkipUnchanged: true,
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"documents":     len(docs),
				"updated_count": len(result.Updated) + len(result.Created),
				"skipped_count": len(result.Skipped),
			}).Info("courses.command.sync.completed")
			if msg.Report != nil {
				msg.Report(result)
			}
		}
		return classify(err)
	}

	inner := commands.NewHandler(exec,
		commands.WithLogger[SyncCoursesCommand](baseLogger),
		commands.WithOperation[SyncCoursesCommand](syncOperation),
		commands.WithTimeout[SyncCoursesCommand](cfg.timeout),
		commands.WithMessageFields(func(msg SyncCoursesCommand) map[string]any {
			return map[string]any{"directory": msg.Directory}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCoursesCommand](baseLogger)),
	)
	return &SyncCoursesHandler{inner: inner, cronConfig: cfg.cronConfig, directory: cfg.directory}
}

// Execute satisfies command.Commander[SyncCoursesCommand]. A blank Directory
// falls back to the one configured with SyncWithDirectory.
func (h *SyncCoursesHandler) Execute(ctx context.Context, msg SyncCoursesCommand) error {
	if strings.TrimSpace(msg.Directory) == "" {
		msg.Directory = h.directory
	}
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand by syncing the configured directory.
func (h *SyncCoursesHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), SyncCoursesCommand{Directory: h.directory})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *SyncCoursesHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the sync handler to CLI integrations.
func (h *SyncCoursesHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for course syncs.
func (h *SyncCoursesHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"courses", "sync"},
		Group:       "courses",
		Description: "Re-import changed course sources",
	}
}
