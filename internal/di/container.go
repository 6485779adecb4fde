package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/courseparse"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/internal/logging/console"
	"github.com/goliatone/go-courseware/internal/logging/gologger"
	"github.com/goliatone/go-courseware/internal/markdown"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// Container wires module dependencies. Without a database it falls back to
// in-memory repositories.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	courseRepo courses.CourseRepository
	lessonRepo courses.LessonRepository

	parser       interfaces.CourseParser
	markdownSvc  *markdown.Service
	documents    coursescmd.DocumentLoader
	importer     *markdown.Importer
	courseSvc    courses.Service
	generatorSvc generator.Service
	writer       generator.ArtifactWriter
	now          func() time.Time

	handlers *coursescmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB backs the course repositories with db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCourseRepositories replaces the course and lesson repositories.
func WithCourseRepositories(courseRepo courses.CourseRepository, lessonRepo courses.LessonRepository) Option {
	return func(c *Container) {
		c.courseRepo = courseRepo
		c.lessonRepo = lessonRepo
	}
}

// WithCourseService overrides the default course service binding.
func WithCourseService(svc courses.Service) Option {
	return func(c *Container) {
		c.courseSvc = svc
	}
}

// WithDocumentLoader overrides the source loader used by the import command.
func WithDocumentLoader(loader coursescmd.DocumentLoader) Option {
	return func(c *Container) {
		c.documents = loader
	}
}

// WithGeneratorService overrides the handout generator.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithGeneratorWriter keeps the generator but redirects its output.
func WithGeneratorWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithClock overrides the time source handed to the services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.now = clock
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Storage.Cache.DefaultTTL,
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = noopProvider{}
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure go-logger provider: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr, Format: console.Format(strings.ToLower(logCfg.Format))}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Storage.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		cfg.TTL = c.cacheTTL
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.courseRepo != nil && c.lessonRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.courseRepo = courses.NewBunCourseRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.lessonRepo = courses.NewBunLessonRepository(c.bunDB)
		return
	}
	c.courseRepo = courses.NewMemoryCourseRepository()
	c.lessonRepo = courses.NewMemoryLessonRepository()
}

func (c *Container) configureServices() error {
	ingest := c.Config.Ingest
	c.parser = courseparse.NewParser(courseparse.Options{Labels: courseparse.LabelsFor(ingest.Labels)})

	if c.courseSvc == nil {
		opts := []courses.ServiceOption{
			courses.WithParser(c.parser),
			courses.WithLogger(logging.CoursesLogger(c.loggerProvider)),
		}
		if c.now != nil {
			opts = append(opts, courses.WithClock(c.now))
		}
		c.courseSvc = courses.NewService(c.courseRepo, c.lessonRepo, opts...)
	}

	if c.documents == nil {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:    ingest.SourceDir,
			Pattern:     ingest.Pattern,
			Recursive:   ingest.Recursive,
			Labels:      ingest.Labels,
			RenderHTML:  ingest.RenderHTML,
			FrontMatter: c.Config.Features.FrontMatter,
			Parser: interfaces.ParseOptions{
				Extensions: ingest.Parser.Extensions,
				Sanitize:   ingest.Parser.Sanitize,
				HardWraps:  ingest.Parser.HardWraps,
				SafeMode:   ingest.Parser.SafeMode,
			},
		}, nil,
			markdown.WithLogger(logging.IngestLogger(c.loggerProvider)),
			markdown.WithCourseParser(c.parser),
		)
		if err != nil {
			return fmt.Errorf("configure course sources: %w", err)
		}
		c.markdownSvc = svc
		c.documents = svc
	}

	c.importer = markdown.NewImporter(markdown.ImporterConfig{
		Courses: c.courseSvc,
		Logger:  logging.IngestLogger(c.loggerProvider),
	})

	if c.generatorSvc == nil {
		if !c.Config.Features.Generator {
			c.generatorSvc = generator.NewDisabledService()
			return nil
		}
		opts := []generator.Option{generator.WithLogger(logging.GeneratorLogger(c.loggerProvider))}
		if c.writer != nil {
			opts = append(opts, generator.WithWriter(c.writer))
		}
		if c.now != nil {
			opts = append(opts, generator.WithClock(c.now))
		}
		c.generatorSvc = generator.NewService(generator.Config{
			OutputDir:   c.Config.Generator.OutputDir,
			Timestamp:   c.Config.Generator.Timestamp,
			Incremental: c.Config.Generator.Incremental,
		}, opts...)
	}
	return nil
}

func (c *Container) configureCommands() error {
	features := c.Config.Features
	set, err := coursescmd.RegisterCourseCommands(nil, coursescmd.Dependencies{
		Documents: c.documents,
		Importer:  c.importer,
		Courses:   c.courseSvc,
		Generator: c.generatorSvc,
	}, c.loggerProvider, coursescmd.FeatureGates{
		GeneratorEnabled: func() bool { return features.Generator },
	})
	if err != nil {
		return errors.Join(errors.New("configure course commands"), err)
	}
	c.handlers = set
	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database backing the repositories, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// CourseRepository exposes the configured course repository.
func (c *Container) CourseRepository() courses.CourseRepository {
	return c.courseRepo
}

// LessonRepository exposes the configured lesson repository.
func (c *Container) LessonRepository() courses.LessonRepository {
	return c.lessonRepo
}

// CourseParser returns the ingestion engine configured with the label preset.
func (c *Container) CourseParser() interfaces.CourseParser {
	return c.parser
}

// MarkdownService returns the filesystem source service. It is nil when a
// custom document loader was supplied.
func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

// DocumentLoader returns the loader used by the import command.
func (c *Container) DocumentLoader() coursescmd.DocumentLoader {
	return c.documents
}

// Importer returns the document importer.
func (c *Container) Importer() *markdown.Importer {
	return c.importer
}

// CourseService returns the configured course service.
func (c *Container) CourseService() courses.Service {
	return c.courseSvc
}

// GeneratorService returns the handout generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// CommandHandlers returns the course command handlers bound to this container.
func (c *Container) CommandHandlers() *coursescmd.HandlerSet {
	return c.handlers
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
