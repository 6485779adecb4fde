package coursescmd

import (
	"errors"
	"time"

	"github.com/goliatone/go-courseware/internal/commands"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Dependencies lists the services the course handlers call.
type Dependencies struct {
	Documents DocumentLoader
	Importer  DocumentImporter
	Courses   courses.Service
	Generator generator.Service
}

// HandlerSet groups the handlers produced by RegisterCourseCommands.
type HandlerSet struct {
	Import         *ImportCoursesHandler
	ReplaceLessons *ReplaceLessonsHandler
	Generate       *GenerateCourseHandler
	Delete         *DeleteCourseHandler
	Sync           *SyncCoursesHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	timeout  time.Duration
	syncCron string
	syncDir  string
}

// WithTimeout overrides the execution timeout of every course handler.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *options) {
		cfg.timeout = timeout
	}
}

// WithSyncSchedule sets the cron expression and directory used by scheduled
// syncs.
func WithSyncSchedule(expression, dir string) Option {
	return func(cfg *options) {
		cfg.syncCron = expression
		cfg.syncDir = dir
	}
}

// RegisterCourseCommands builds the course command handlers and registers them
// with reg when it is non-nil.
func RegisterCourseCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if deps.Documents == nil || deps.Importer == nil {
		return nil, errors.New("course command registration: document loader and importer are required")
	}
	if deps.Courses == nil {
		return nil, errors.New("course command registration: course service is nil")
	}

	cfg := options{timeout: commands.DefaultCommandTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "courses")

	set := &HandlerSet{
		Import: NewImportCoursesHandler(deps.Documents, deps.Importer, logger,
			commands.WithTimeout[ImportCoursesCommand](cfg.timeout)),
		ReplaceLessons: NewReplaceLessonsHandler(deps.Courses, logger,
			commands.WithTimeout[ReplaceLessonsCommand](cfg.timeout)),
		Generate: NewGenerateCourseHandler(deps.Courses, deps.Generator, logger, gates,
			commands.WithTimeout[GenerateCourseCommand](cfg.timeout)),
		Delete: NewDeleteCourseHandler(deps.Courses, logger,
			commands.WithTimeout[DeleteCourseCommand](cfg.timeout)),
		Sync: NewSyncCoursesHandler(deps.Documents, deps.Importer, logger,
			SyncWithTimeout(cfg.timeout),
			SyncWithCronExpression(cfg.syncCron),
			SyncWithDirectory(cfg.syncDir)),
	}

	if reg != nil {
		for _, handler := range set.Handlers() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Handlers lists the handlers in registration order.
func (s *HandlerSet) Handlers() []any {
	if s == nil {
		return nil
	}
	return []any{s.Import, s.ReplaceLessons, s.Generate, s.Delete, s.Sync}
}
