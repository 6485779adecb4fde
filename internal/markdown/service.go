package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-courseware/internal/courseparse"
	"github.com/goliatone/go-courseware/internal/legacytext"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// Config controls discovery, parsing and rendering of course sources.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	// Labels selects the lesson title preset ("it" or "en").
	Labels string
	// RenderHTML fills CourseDocument.LessonsHTML on load.
	RenderHTML bool
	// FrontMatter enables YAML/TOML header overrides.
	FrontMatter bool
	Parser      interfaces.ParseOptions
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCourseParser replaces the ingestion engine.
func WithCourseParser(parser interfaces.CourseParser) Option {
	return func(s *Service) {
		if parser != nil {
			s.courses = parser
		}
	}
}

// WithFilesystem serves sources from filesystem instead of os.DirFS(BasePath).
func WithFilesystem(filesystem fs.FS) Option {
	return func(s *Service) {
		if filesystem != nil {
			s.filesystem = filesystem
		}
	}
}

// Service implements interfaces.CourseDocumentService for filesystem sources.
type Service struct {
	cfg        Config
	markdown   interfaces.MarkdownParser
	courses    interfaces.CourseParser
	logger     interfaces.Logger
	filesystem fs.FS
	loader     *Loader
}

var _ interfaces.CourseDocumentService = (*Service)(nil)

// NewService builds a Service. A nil parser selects a GoldmarkParser with
// cfg.Parser as defaults.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...Option) (*Service, error) {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}
	s := &Service{
		cfg:      cfg,
		markdown: parser,
		courses:  courseparse.NewParser(courseparse.Options{Labels: courseparse.LabelsFor(cfg.Labels)}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.filesystem == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		s.filesystem = filesystem
	}
	s.loader = NewLoader(s.filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})
	return s, nil
}

// Load reads and parses one source relative to the base path.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.CourseDocument, error) {
	source, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	return s.build(ctx, source)
}

// LoadDirectory parses every matching source under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.CourseDocument, error) {
	sources, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{})
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.CourseDocument, 0, len(sources))
	for _, source := range sources {
		doc, err := s.build(ctx, source)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListSources reports the sources available under the base path.
func (s *Service) ListSources(ctx context.Context) ([]interfaces.SourceFile, error) {
	return s.loader.List(ctx, ".", LoadParams{})
}

// Render converts markdown to HTML with cfg.Parser merged under opts.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.markdown.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// Parse runs the ingestion pipeline over an in-memory buffer.
func (s *Service) Parse(ctx context.Context, filename string, source []byte) (*interfaces.CourseDocument, error) {
	return s.build(ctx, &SourceDocument{Path: filename, Source: source})
}

func (s *Service) build(ctx context.Context, source *SourceDocument) (*interfaces.CourseDocument, error) {
	logger := logging.WithCourseContext(s.logger, "", source.Path, "parse")
	body := source.Source

	var header *CourseFrontMatter
	if s.cfg.FrontMatter && !legacytext.IsLegacy(body) {
		fm, rest, err := ParseFrontMatter(body)
		if err != nil {
			logger.Warn("ingest.frontmatter.ignored", "error", err)
		}
		header, body = fm, rest
	}

	parsed := s.courses.Parse(body, filepath.Base(source.Path))
	parsed.Metadata = header.Apply(parsed.Metadata)

	doc := &interfaces.CourseDocument{
		FilePath: source.Path,
		Checksum: source.Checksum,
		Course:   parsed,
	}
	if header != nil {
		doc.FrontMatter = header.Raw
	}

	logger.Debug("ingest.parsed",
		"course_code", parsed.Metadata.Code,
		"strategy", parsed.Strategy,
		"modules", parsed.Modules,
		"lessons", len(parsed.Lessons),
		"legacy", parsed.Legacy,
		"frontmatter", header != nil,
	)

	if s.cfg.RenderHTML {
		rendered, err := s.RenderLessons(ctx, parsed.Lessons)
		if err != nil {
			return nil, fmt.Errorf("render lessons %s: %w", source.Path, err)
		}
		doc.LessonsHTML = rendered
	}
	return doc, nil
}

// RenderLessons renders the content of each lesson, index-aligned with lessons.
func (s *Service) RenderLessons(ctx context.Context, lessons []interfaces.LessonRecord) ([][]byte, error) {
	out := make([][]byte, 0, len(lessons))
	for _, lesson := range lessons {
		html, err := s.Render(ctx, []byte(lesson.Content), interfaces.ParseOptions{})
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	result.Sanitize = result.Sanitize || override.Sanitize
	result.HardWraps = result.HardWraps || override.HardWraps
	result.SafeMode = result.SafeMode || override.SafeMode
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("course sources: stat base path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("course sources: %s is not a directory", basePath)
	}
	return os.DirFS(basePath), nil
}
