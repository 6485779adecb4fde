package bootstrap

import (
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-courseware"
	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// Options captures the flags shared by the course CLIs. Non-empty values
// override the configuration file.
type Options struct {
	ConfigPath     string
	SourceDir      string
	Labels         string
	Driver         string
	DSN            string
	OutputDir      string
	Recursive      bool
	RenderHTML     bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the courseware module and the handlers the CLIs call.
type Module struct {
	Module    *courseware.Module
	Documents interfaces.CourseDocumentService
	Import    command.Commander[coursescmd.ImportCoursesCommand]
	Generate  command.Commander[coursescmd.GenerateCourseCommand]
	Logger    interfaces.Logger
}

// Close releases the module resources.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// Config resolves the runtime configuration for opts.
func Config(opts Options) (runtimeconfig.Config, error) {
	cfg, err := courseware.LoadConfig(strings.TrimSpace(opts.ConfigPath))
	if err != nil {
		return cfg, err
	}
	if dir := strings.TrimSpace(opts.SourceDir); dir != "" {
		cfg.Ingest.SourceDir = dir
	}
	if labels := strings.TrimSpace(opts.Labels); labels != "" {
		cfg.Ingest.Labels = labels
	}
	if opts.Recursive {
		cfg.Ingest.Recursive = true
	}
	if opts.RenderHTML {
		cfg.Ingest.RenderHTML = true
	}
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		cfg.Storage.Provider = runtimeconfig.StorageBun
		cfg.Storage.DSN = dsn
	}
	if driver := strings.TrimSpace(opts.Driver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if out := strings.TrimSpace(opts.OutputDir); out != "" {
		cfg.Generator.OutputDir = out
	}
	return cfg, nil
}

// BuildModule constructs a courseware module configured from opts.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := Config(opts)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := courseware.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise courseware module: %w", err)
	}

	handlers := module.Commands()
	return &Module{
		Module:    module,
		Documents: module.Documents(),
		Import:    handlers.Import,
		Generate:  handlers.Generate,
		Logger:    logging.CommandsLogger(module.Container().LoggerProvider()),
	}, nil
}

// SplitFiles parses a comma separated file list into a trimmed slice.
func SplitFiles(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	files := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files
}
