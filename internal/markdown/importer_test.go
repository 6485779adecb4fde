package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

func newImportFixture(t *testing.T) (*Importer, courses.Service, []*interfaces.CourseDocument) {
	t.Helper()
	store := courses.NewService(courses.NewMemoryCourseRepository(), courses.NewMemoryLessonRepository())
	svc := newTestService(t, Config{FrontMatter: true})
	docs, err := svc.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	return NewImporter(ImporterConfig{Courses: store}), store, docs
}

func TestImporterCreatesCourses(t *testing.T) {
	ctx := context.Background()
	importer, store, docs := newImportFixture(t)

	result, err := importer.ImportDocuments(ctx, docs, ImportOptions{})
	if err != nil {
		t.Fatalf("ImportDocuments: %v", err)
	}
	if len(result.Created) != len(docs) || len(result.Updated) != 0 {
		t.Fatalf("expected every document to create a course, got %+v", result)
	}

	course, err := store.GetCourseByCode(ctx, "CUC-01")
	if err != nil {
		t.Fatalf("GetCourseByCode: %v", err)
	}
	if course.SourceFile != "cucina.md" || course.SourceChecksum == "" {
		t.Fatalf("expected source provenance, got %+v", course)
	}
	if len(course.Lessons) != 2 {
		t.Fatalf("expected two lessons, got %d", len(course.Lessons))
	}
	if !Unchanged(course, docs[1]) {
		t.Fatalf("expected stored checksum to match the document")
	}
}

func TestImporterReportsConflicts(t *testing.T) {
	ctx := context.Background()
	importer, _, docs := newImportFixture(t)

	if _, err := importer.ImportDocuments(ctx, docs, ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	result, err := importer.ImportDocuments(ctx, docs, ImportOptions{})
	if !errors.Is(err, courses.ErrCourseExists) {
		t.Fatalf("expected ErrCourseExists, got %v", err)
	}
	if len(result.Conflicts) != len(docs) || len(result.Errors) != len(docs) {
		t.Fatalf("expected one conflict per document, got %+v", result)
	}
	if result.Conflicts[0].FilePath != "bad_header.md" || result.Conflicts[0].Code != "BAD_HEADER" {
		t.Fatalf("unexpected conflict %+v", result.Conflicts[0])
	}
}

func TestImporterOverwriteUpdates(t *testing.T) {
	ctx := context.Background()
	importer, _, docs := newImportFixture(t)

	first, err := importer.ImportDocuments(ctx, docs, ImportOptions{})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := importer.ImportDocuments(ctx, docs, ImportOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if len(second.Updated) != len(docs) || len(second.Created) != 0 {
		t.Fatalf("expected updates only, got %+v", second)
	}
	if second.Updated[0] != first.Created[0] {
		t.Fatalf("expected overwrite to keep the course identity")
	}
}

func TestImporterSkipsUnchangedSources(t *testing.T) {
	ctx := context.Background()
	importer, _, docs := newImportFixture(t)

	if _, err := importer.ImportDocuments(ctx, docs, ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	changed := *docs[0]
	changed.Checksum = []byte{0x01}

	result, err := importer.ImportDocuments(ctx, []*interfaces.CourseDocument{&changed, docs[1]}, ImportOptions{Overwrite: true, SkipUnchanged: true})
	if err != nil {
		t.Fatalf("ImportDocuments: %v", err)
	}
	if len(result.Skipped) != 1 || len(result.Updated) != 1 {
		t.Fatalf("expected one skip and one update, got %+v", result)
	}
}

func TestImporterDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	importer, store, docs := newImportFixture(t)

	result, err := importer.ImportDocuments(ctx, docs, ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(result.Created) != 0 || len(result.Skipped) != 0 {
		t.Fatalf("expected no writes for new courses, got %+v", result)
	}
	list, err := store.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store after dry run, got %d courses", len(list))
	}
}

func TestImporterRequiresStore(t *testing.T) {
	_, err := NewImporter(ImporterConfig{}).ImportDocuments(context.Background(), nil, ImportOptions{})
	if !errors.Is(err, ErrCourseServiceRequired) {
		t.Fatalf("expected ErrCourseServiceRequired, got %v", err)
	}
}
