package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const (
	rootModule      = "courseware"
	ingestModule    = "courseware.ingest"
	coursesModule   = "courseware.courses"
	generatorModule = "courseware.generator"
	commandsModule  = "courseware.commands"
)

const (
	fieldCourseCode   = "course_code"
	fieldCourseSource = "source_file"
	fieldCourseAction = "action"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when no
// provider is supplied. The module name is attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module = strings.TrimSpace(module); module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// IngestLogger is used by the source loader and document service.
func IngestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ingestModule)
}

// CoursesLogger is used by the course persistence service.
func CoursesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, coursesModule)
}

// GeneratorLogger is used by the course file generator.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CommandsLogger is used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithFields attaches fields when logger implements interfaces.FieldsLogger
// and returns logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// WithCourseContext adds the course code, source file and action fields,
// skipping the blank ones.
func WithCourseContext(logger interfaces.Logger, code, source, action string) interfaces.Logger {
	fields := map[string]any{}
	for key, value := range map[string]string{
		fieldCourseCode:   code,
		fieldCourseSource: source,
		fieldCourseAction: action,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			fields[key] = trimmed
		}
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
