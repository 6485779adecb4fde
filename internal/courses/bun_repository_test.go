package courses_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-courseware/internal/courseparse"
	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewNamedSQLiteMemoryDB(fmt.Sprintf("courses_%s_%d", t.Name(), time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	if err := courses.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func TestCourseServiceWithBunAndCache(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	courseRepo := courses.NewBunCourseRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer())
	lessonRepo := courses.NewBunLessonRepository(db)
	svc := courses.NewService(courseRepo, lessonRepo, courses.WithClock(func() time.Time { return fixedNow }))

	parsed := courseparse.Parse([]byte(smmSource), "smm.md")
	imported, err := svc.ImportCourse(ctx, courses.ImportCourseInput{SourceFile: "smm.md", Course: parsed})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := svc.GetCourse(ctx, imported.Course.ID)
		if err != nil {
			t.Fatalf("get course (pass %d): %v", i, err)
		}
		if got.Name != "Corso di Social" || got.TotalHours != 20 {
			t.Fatalf("unexpected course %#v", got)
		}
		if len(got.Lessons) != 2 {
			t.Fatalf("expected two lessons, got %d", len(got.Lessons))
		}
		if got.Lessons[0].Title != "Fondamenti - Parte Teorica" || got.Lessons[0].DurationHours != 6 {
			t.Fatalf("unexpected first lesson %#v", got.Lessons[0])
		}
		if len(got.Lessons[0].Objectives) != 1 || got.Lessons[0].Objectives[0] != "Capire i social" {
			t.Fatalf("expected objectives to round-trip, got %#v", got.Lessons[0].Objectives)
		}
	}

	_, err = svc.ImportCourse(ctx, courses.ImportCourseInput{Course: parsed})
	var exists *courses.CourseExistsError
	if !errors.As(err, &exists) || exists.CourseID != imported.Course.ID {
		t.Fatalf("expected conflict, got %v", err)
	}

	parsed.Metadata.Name = "Corso di Social v2"
	parsed.Lessons = parsed.Lessons[:1]
	if _, err := svc.ImportCourse(ctx, courses.ImportCourseInput{Course: parsed, Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := svc.GetCourseByCode(ctx, "SMM")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.Name != "Corso di Social v2" || len(got.Lessons) != 1 {
		t.Fatalf("expected overwritten course, got %q with %d lessons", got.Name, len(got.Lessons))
	}

	if err := svc.DeleteCourse(ctx, imported.Course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	lessons, err := lessonRepo.ListByCourse(ctx, imported.Course.ID)
	if err != nil || len(lessons) != 0 {
		t.Fatalf("expected lessons to be gone, got %d (%v)", len(lessons), err)
	}
	if _, err := svc.GetCourseByCode(ctx, "SMM"); !errors.Is(err, courses.ErrCourseNotFound) {
		t.Fatalf("expected cached code lookup to miss after delete, got %v", err)
	}
	if _, err := svc.GetCourse(ctx, imported.Course.ID); !errors.Is(err, courses.ErrCourseNotFound) {
		t.Fatalf("expected cached id lookup to miss after delete, got %v", err)
	}
}

func TestBunCourseRepositoryNotFound(t *testing.T) {
	db := newBunDB(t)
	repo := courses.NewBunCourseRepository(db)

	_, err := repo.GetByCode(context.Background(), "MISSING")
	var notFound *courses.NotFoundError
	if !errors.As(err, &notFound) || notFound.Key != "MISSING" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBunLessonRepositoryReplaceWithEmptySet(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)
	repo := courses.NewBunLessonRepository(db)
	svc := courses.NewService(courses.NewBunCourseRepository(db), repo)
	imported, err := svc.ImportCourse(ctx, courses.ImportCourseInput{Course: courseparse.Parse([]byte(smmSource), "smm.md")})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if err := repo.ReplaceForCourse(ctx, imported.Course.ID, nil); err != nil {
		t.Fatalf("replace with empty set: %v", err)
	}
	lessons, err := repo.ListByCourse(ctx, imported.Course.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lessons) != 0 {
		t.Fatalf("expected empty lesson set, got %d", len(lessons))
	}
}

const smmSource = `# Corso di Social

Durata: 20 ore (10 teoria, 10 laboratorio)

## Modulo 1 - Fondamenti
Durata: 10 ore (6 teoria, 4 laboratorio)

### Obiettivi
- Capire i social

### Contenuti teorici
Storia delle piattaforme

### Attività di laboratorio
Audit di un profilo
`
