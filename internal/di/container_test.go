package di_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/internal/markdown"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
)

var fixedNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Ingest.SourceDir = "testdata/sources"
	cfg.Generator.OutputDir = t.TempDir()
	return cfg
}

func importCucina(t *testing.T, container *di.Container) *markdown.ImportResult {
	t.Helper()
	var result *markdown.ImportResult
	err := container.CommandHandlers().Import.Execute(context.Background(), coursescmd.ImportCoursesCommand{
		Files:  []string{"cucina.md"},
		Report: func(r *markdown.ImportResult) { result = r },
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result == nil || len(result.Created) != 1 {
		t.Fatalf("expected one created course, got %#v", result)
	}
	return result
}

func TestContainerImportsAndGeneratesWithMemoryStorage(t *testing.T) {
	cfg := testConfig(t)
	container, err := di.NewContainer(cfg, di.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatalf("expected memory storage by default")
	}
	if container.MarkdownService() == nil {
		t.Fatalf("expected filesystem source service")
	}

	importCucina(t, container)

	course, err := container.CourseService().GetCourseByCode(context.Background(), "CUC-01")
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if len(course.Lessons) != 2 {
		t.Fatalf("expected two lessons, got %d", len(course.Lessons))
	}
	if !course.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected injected clock on course timestamps, got %v", course.CreatedAt)
	}

	err = container.CommandHandlers().Generate.Execute(context.Background(), coursescmd.GenerateCourseCommand{Code: "CUC-01"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Generator.OutputDir, "CUC-01", "README.md")); err != nil {
		t.Fatalf("expected README to be written: %v", err)
	}
}

func TestContainerWithBunStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Storage.Cache.Enabled = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() == nil {
		t.Fatalf("expected bun handle for the bun provider")
	}
	if _, ok := container.CourseRepository().(*courses.BunCourseRepository); !ok {
		t.Fatalf("expected bun course repository, got %T", container.CourseRepository())
	}

	result := importCucina(t, container)

	stored, err := container.LessonRepository().ListByCourse(context.Background(), result.Created[0])
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected two persisted lessons, got %d", len(stored))
	}
}

func TestContainerGeneratorFeatureDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Generator = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	importCucina(t, container)

	err = container.CommandHandlers().Generate.Execute(context.Background(), coursescmd.GenerateCourseCommand{Code: "CUC-01"})
	if err == nil {
		t.Fatalf("expected generate to fail with the generator disabled")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = "redis"

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestNewContainerMissingSourceDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.SourceDir = filepath.Join(t.TempDir(), "missing")

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatalf("expected error for a missing source directory")
	}
}

func TestNewContainerWithDocumentLoaderSkipsFilesystem(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.SourceDir = filepath.Join(t.TempDir(), "missing")

	loader, err := markdown.NewService(markdown.Config{BasePath: "testdata/sources", FrontMatter: true}, nil)
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	container, err := di.NewContainer(cfg, di.WithDocumentLoader(loader))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.MarkdownService() != nil {
		t.Fatalf("expected no filesystem service when a loader is injected")
	}
	importCucina(t, container)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := di.OpenDB("oracle", "dsn"); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
	if _, err := di.OpenDB("sqlite3", " "); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}
