package courseware

import (
	"context"
	"fmt"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/markdown"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// CourseService exports the course persistence contract.
type CourseService = courses.Service

// Course and Lesson are the stored records.
type (
	Course = courses.Course
	Lesson = courses.Lesson
)

// GeneratorService exports the handout generator contract.
type GeneratorService = generator.Service

// GenerateResult reports the files written by a generator run.
type GenerateResult = generator.Result

// ImportOptions and ImportResult describe a batch import.
type (
	ImportOptions = markdown.ImportOptions
	ImportResult  = markdown.ImportResult
)

// CommandHandlers groups the course command handlers.
type CommandHandlers = coursescmd.HandlerSet

// Module represents the top level courseware runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a courseware module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases the database opened for the bun storage provider.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Courses returns the configured course service.
func (m *Module) Courses() CourseService {
	return m.container.CourseService()
}

// Documents returns the filesystem source service, or nil when a custom
// loader was injected.
func (m *Module) Documents() interfaces.CourseDocumentService {
	if svc := m.container.MarkdownService(); svc != nil {
		return svc
	}
	return nil
}

// Parser returns the ingestion engine.
func (m *Module) Parser() interfaces.CourseParser {
	return m.container.CourseParser()
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Commands returns the course command handlers.
func (m *Module) Commands() *CommandHandlers {
	return m.container.CommandHandlers()
}

// ImportDirectory parses every source under dir and stores the courses.
func (m *Module) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	docs, err := m.container.DocumentLoader().LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}
	return m.container.Importer().ImportDocuments(ctx, docs, opts)
}

// ImportFile parses one source file and stores the course.
func (m *Module) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	doc, err := m.container.DocumentLoader().Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return m.container.Importer().ImportDocument(ctx, doc, opts)
}

// Generate writes the handout of the course stored under code.
func (m *Module) Generate(ctx context.Context, code string) (*GenerateResult, error) {
	course, err := m.Courses().GetCourseByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", code, err)
	}
	return m.Generator().Generate(ctx, course, course.Lessons)
}
