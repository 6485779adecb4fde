package coursescmd

import (
	"context"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/internal/commands"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/internal/markdown"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const (
	importOperation   = "courses.import"
	replaceOperation  = "courses.replace_lessons"
	generateOperation = "courses.generate"
	deleteOperation   = "courses.delete"
)

var (
	_ command.Commander[ImportCoursesCommand]  = (*ImportCoursesHandler)(nil)
	_ command.Commander[ReplaceLessonsCommand] = (*ReplaceLessonsHandler)(nil)
	_ command.Commander[GenerateCourseCommand] = (*GenerateCourseHandler)(nil)
	_ command.Commander[DeleteCourseCommand]   = (*DeleteCourseHandler)(nil)
)

// DocumentLoader reads and parses course sources.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (*interfaces.CourseDocument, error)
	LoadDirectory(ctx context.Context, dir string) ([]*interfaces.CourseDocument, error)
}

// DocumentImporter persists parsed course documents.
type DocumentImporter interface {
	ImportDocuments(ctx context.Context, docs []*interfaces.CourseDocument, opts markdown.ImportOptions) (*markdown.ImportResult, error)
}

// ImportCoursesHandler loads course sources and imports them.
type ImportCoursesHandler struct {
	inner *commands.Handler[ImportCoursesCommand]
}

// NewImportCoursesHandler creates a handler bound to the document loader and importer.
func NewImportCoursesHandler(documents DocumentLoader, importer DocumentImporter, logger interfaces.Logger, opts ...commands.HandlerOption[ImportCoursesCommand]) *ImportCoursesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportCoursesCommand) error {
		docs, err := loadDocuments(ctx, documents, msg)
		if err != nil {
			return err
		}
		result, err := importer.ImportDocuments(ctx, docs, markdown.ImportOptions{
			Overwrite:     msg.Overwrite,
			SkipUnchanged: msg.SkipUnchanged,
			DryRun:        msg.DryRun,
		})
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"documents":      len(docs),
				"created_count":  len(result.Created),
				"updated_count":  len(result.Updated),
				"skipped_count":  len(result.Skipped),
				"conflict_count": len(result.Conflicts),
				"error_count":    len(result.Errors),
			}).Info("courses.command.import.completed")
			if msg.Report != nil {
				msg.Report(result)
			}
		}
		return classify(err)
	}

	handlerOpts := []commands.HandlerOption[ImportCoursesCommand]{
		commands.WithLogger[ImportCoursesCommand](baseLogger),
		commands.WithOperation[ImportCoursesCommand](importOperation),
		commands.WithMessageFields(func(msg ImportCoursesCommand) map[string]any {
			fields := map[string]any{}
			if msg.Directory != "" {
				fields["directory"] = msg.Directory
			}
			if len(msg.Files) > 0 {
				fields["files"] = len(msg.Files)
			}
			if msg.Overwrite {
				fields["overwrite"] = true
			}
			if msg.SkipUnchanged {
				fields["skip_unchanged"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportCoursesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportCoursesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportCoursesCommand].
func (h *ImportCoursesHandler) Execute(ctx context.Context, msg ImportCoursesCommand) error {
	return h.inner.Execute(ctx, msg)
}

func loadDocuments(ctx context.Context, documents DocumentLoader, msg ImportCoursesCommand) ([]*interfaces.CourseDocument, error) {
	if len(msg.Files) == 0 {
		return documents.LoadDirectory(ctx, msg.Directory)
	}
	docs := make([]*interfaces.CourseDocument, 0, len(msg.Files))
	for _, file := range msg.Files {
		doc, err := documents.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ReplaceLessonsHandler replaces the lessons of an existing course.
type ReplaceLessonsHandler struct {
	inner *commands.Handler[ReplaceLessonsCommand]
}

// NewReplaceLessonsHandler creates a handler bound to the course service.
func NewReplaceLessonsHandler(service courses.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReplaceLessonsCommand]) *ReplaceLessonsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ReplaceLessonsCommand) error {
		course, err := service.ReplaceLessons(ctx, courses.ReplaceLessonsInput{
			CourseID: msg.CourseID,
			Filename: msg.Filename,
			Source:   msg.Source,
		})
		if err != nil {
			return classify(err)
		}
		if msg.Report != nil {
			msg.Report(course)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ReplaceLessonsCommand]{
		commands.WithLogger[ReplaceLessonsCommand](baseLogger),
		commands.WithOperation[ReplaceLessonsCommand](replaceOperation),
		commands.WithMessageFields(func(msg ReplaceLessonsCommand) map[string]any {
			return map[string]any{
				"course_id":   msg.CourseID,
				"source_file": msg.Filename,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ReplaceLessonsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReplaceLessonsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ReplaceLessonsCommand].
func (h *ReplaceLessonsHandler) Execute(ctx context.Context, msg ReplaceLessonsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// GenerateCourseHandler writes the handout files of a stored course.
type GenerateCourseHandler struct {
	inner *commands.Handler[GenerateCourseCommand]
}

// NewGenerateCourseHandler creates a handler bound to the course and generator services.
func NewGenerateCourseHandler(service courses.Service, gen generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[GenerateCourseCommand]) *GenerateCourseHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg GenerateCourseCommand) error {
		if !gates.generatorEnabled() || gen == nil {
			return classify(ErrGeneratorFeatureDisabled)
		}
		var (
			course *courses.Course
			err    error
		)
		if msg.CourseID != uuid.Nil {
			course, err = service.GetCourse(ctx, msg.CourseID)
		} else {
			course, err = service.GetCourseByCode(ctx, msg.Code)
		}
		if err != nil {
			return classify(err)
		}
		result, err := gen.Generate(ctx, course, course.Lessons)
		if err != nil {
			return classify(err)
		}
		if msg.Report != nil {
			msg.Report(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[GenerateCourseCommand]{
		commands.WithLogger[GenerateCourseCommand](baseLogger),
		commands.WithOperation[GenerateCourseCommand](generateOperation),
		commands.WithMessageFields(func(msg GenerateCourseCommand) map[string]any {
			fields := map[string]any{}
			if msg.CourseID != uuid.Nil {
				fields["course_id"] = msg.CourseID
			}
			if msg.Code != "" {
				fields["course_code"] = msg.Code
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateCourseCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateCourseHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateCourseCommand].
func (h *GenerateCourseHandler) Execute(ctx context.Context, msg GenerateCourseCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteCourseHandler removes a course and its lessons.
type DeleteCourseHandler struct {
	inner *commands.Handler[DeleteCourseCommand]
}

// NewDeleteCourseHandler creates a handler bound to the course service.
func NewDeleteCourseHandler(service courses.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteCourseCommand]) *DeleteCourseHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DeleteCourseCommand) error {
		return classify(service.DeleteCourse(ctx, msg.CourseID))
	}

	handlerOpts := []commands.HandlerOption[DeleteCourseCommand]{
		commands.WithLogger[DeleteCourseCommand](baseLogger),
		commands.WithOperation[DeleteCourseCommand](deleteOperation),
		commands.WithMessageFields(func(msg DeleteCourseCommand) map[string]any {
			return map[string]any{"course_id": msg.CourseID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteCourseHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeleteCourseCommand].
func (h *DeleteCourseHandler) Execute(ctx context.Context, msg DeleteCourseCommand) error {
	return h.inner.Execute(ctx, msg)
}
