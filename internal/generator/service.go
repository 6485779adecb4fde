package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"sort"
	"time"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	ErrCourseRequired  = errors.New("generator: course is required")
)

// DefaultOutputDir is used when Config.OutputDir is empty.
const DefaultOutputDir = "courses"

// Service writes the markdown handout of a course.
type Service interface {
	Generate(ctx context.Context, course *courses.Course, lessons []*courses.Lesson) (*Result, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir string
	// Timestamp appends a "generated at" footer to every lesson file.
	Timestamp bool
	// Incremental skips files whose content matches the previous run.
	Incremental bool
}

// Result reports what a Generate call produced. Paths are relative to the
// output directory.
type Result struct {
	Dir      string
	Written  []string
	Skipped  []string
	Duration time.Duration
}

// Option customises the generator service.
type Option func(*service)

// WithWriter replaces the filesystem writer rooted at Config.OutputDir.
func WithWriter(writer ArtifactWriter) Option {
	return func(s *service) {
		if writer != nil {
			s.writer = writer
		}
	}
}

// WithLogger sets the generator logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for footers and manifests.
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService wires a generator with the provided configuration.
func NewService(cfg Config, opts ...Option) Service {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	s := &service{
		cfg:    cfg,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.writer == nil {
		s.writer = NewFilesystemWriter(cfg.OutputDir)
	}
	return s
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	writer ArtifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

type artifact struct {
	path     string
	category writeCategory
	content  []byte
	// stable is content rendered without the generated-at footer. When set,
	// the manifest checksum covers it instead of content.
	stable []byte
}

func (a artifact) checksum() string {
	body := a.stable
	if body == nil {
		body = a.content
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func (s *service) Generate(ctx context.Context, course *courses.Course, lessons []*courses.Lesson) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseRequired
	}
	dir, err := courseDir(course.Code)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = course.Lessons
	}
	start := s.now()
	logger := logging.WithCourseContext(s.logger, course.Code, s.cfg.OutputDir, "generate")

	ordered := make([]*courses.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if lesson != nil {
			ordered = append(ordered, lesson)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	var stamp time.Time
	if s.cfg.Timestamp {
		stamp = start
	}

	used := map[string]struct{}{readmeFileName: {}, manifestFileName: {}}
	index := make([]indexEntry, 0, len(ordered))
	artifacts := make([]artifact, 0, len(ordered)+1)
	for _, lesson := range ordered {
		file := uniqueName(lessonFileName(lesson.Order, lesson.Title), used)
		index = append(index, indexEntry{Order: lesson.Order, Title: lesson.Title, File: file})
		content, err := renderLesson(course, lesson, stamp)
		if err != nil {
			return nil, err
		}
		item := artifact{path: dir + "/" + file, category: categoryLesson, content: content}
		if !stamp.IsZero() {
			if item.stable, err = renderLesson(course, lesson, time.Time{}); err != nil {
				return nil, err
			}
		}
		artifacts = append(artifacts, item)
	}
	readme, err := renderReadme(course, ordered, index)
	if err != nil {
		return nil, err
	}
	artifacts = append([]artifact{{path: dir + "/" + readmeFileName, category: categoryReadme, content: readme}}, artifacts...)

	if err := s.writer.EnsureDir(ctx, dir); err != nil {
		return nil, err
	}
	manifest, err := s.loadManifest(ctx, dir)
	if err != nil {
		return nil, err
	}
	manifest.CourseID = course.ID.String()

	result := &Result{Dir: dir}
	for _, item := range artifacts {
		checksum := item.checksum()
		if s.cfg.Incremental && manifest.unchanged(item.path, checksum) {
			result.Skipped = append(result.Skipped, item.path)
			continue
		}
		if err := s.writer.WriteFile(ctx, WriteRequest{
			Path:     item.path,
			Content:  item.content,
			Category: string(item.category),
			Checksum: checksum,
		}); err != nil {
			return nil, err
		}
		manifest.record(manifestFile{
			Path:     item.path,
			Category: string(item.category),
			Checksum: checksum,
			Size:     len(item.content),
			Written:  start,
		})
		result.Written = append(result.Written, item.path)
	}

	manifest.GeneratedAt = start
	encoded, err := manifest.marshal()
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteFile(ctx, WriteRequest{
		Path:     manifestPath(dir),
		Content:  encoded,
		Category: string(categoryManifest),
	}); err != nil {
		return nil, err
	}

	result.Duration = s.now().Sub(start)
	logger.Info("generator.completed",
		"course_id", course.ID,
		"written", len(result.Written),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

func (s *service) loadManifest(ctx context.Context, dir string) (*courseManifest, error) {
	data, err := s.writer.ReadFile(ctx, manifestPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return newCourseManifest(""), nil
	}
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func (disabledService) Generate(context.Context, *courses.Course, []*courses.Lesson) (*Result, error) {
	return nil, ErrServiceDisabled
}

type disabledService struct{}
