package courses

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunCourseRepository implements CourseRepository with optional caching.
type BunCourseRepository struct {
	repo         repository.Repository[*Course]
	cacheService cache.CacheService
	cachePrefix  string
}

const (
	courseNamespace = "course"
	lessonNamespace = "lesson"
)

// NewBunCourseRepository creates a course repository without caching.
func NewBunCourseRepository(db *bun.DB) *BunCourseRepository {
	return NewBunCourseRepositoryWithCache(db, nil, nil)
}

// NewBunCourseRepositoryWithCache creates a course repository with caching services.
func NewBunCourseRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunCourseRepository {
	base := NewCourseRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(courseNamespace)
	}
	return &BunCourseRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunCourseRepository) Create(ctx context.Context, course *Course) (*Course, error) {
	record, err := r.repo.Create(ctx, course)
	if err != nil {
		return nil, mapRepositoryError(err, courseNamespace, course.Code)
	}
	return record, nil
}

func (r *BunCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, courseNamespace, id.String())
	}
	return record, nil
}

func (r *BunCourseRepository) GetByCode(ctx context.Context, code string) (*Course, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, courseNamespace, code)
	}
	return record, nil
}

func (r *BunCourseRepository) List(ctx context.Context) ([]*Course, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.code ASC")
		}),
	)
	return records, err
}

func (r *BunCourseRepository) Update(ctx context.Context, course *Course) (*Course, error) {
	record, err := r.repo.Update(ctx, course,
		repository.UpdateByID(course.ID.String()),
		repository.UpdateColumns(
			"name",
			"description",
			"total_hours",
			"theory_hours",
			"practice_hours",
			"source_file",
			"source_checksum",
			"strategy",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, courseNamespace, course.ID.String())
	}
	return record, nil
}

func (r *BunCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Course{ID: id}); err != nil {
		return mapRepositoryError(err, courseNamespace, id.String())
	}
	return nil
}

func (r *BunCourseRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

// BunLessonRepository implements LessonRepository. Lesson sets are swapped
// wholesale inside a transaction, so reads skip the cache layer.
type BunLessonRepository struct {
	db   *bun.DB
	repo repository.Repository[*Lesson]
}

// NewBunLessonRepository creates a lesson repository.
func NewBunLessonRepository(db *bun.DB) *BunLessonRepository {
	return &BunLessonRepository{db: db, repo: NewLessonRepository(db)}
}

func (r *BunLessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.course_id = ?", courseID).
				OrderExpr("?TableAlias.lesson_order ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, lessonNamespace, courseID.String())
	}
	return records, nil
}

func (r *BunLessonRepository) ReplaceForCourse(ctx context.Context, courseID uuid.UUID, lessons []*Lesson) error {
	if r.db == nil {
		return fmt.Errorf("lesson repository: database not configured")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Lesson)(nil)).
			Where("?TableAlias.course_id = ?", courseID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete course lessons: %w", err)
		}

		now := time.Now().UTC()
		toInsert := make([]*Lesson, 0, len(lessons))
		for _, lesson := range lessons {
			if lesson == nil {
				continue
			}
			cloned := cloneLesson(lesson)
			cloned.CourseID = courseID
			if cloned.ID == uuid.Nil {
				cloned.ID = uuid.New()
			}
			if cloned.CreatedAt.IsZero() {
				cloned.CreatedAt = now
			}
			if cloned.UpdatedAt.IsZero() {
				cloned.UpdatedAt = now
			}
			toInsert = append(toInsert, cloned)
		}

		if len(toInsert) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
			return fmt.Errorf("insert course lessons: %w", err)
		}
		return nil
	})
}

func (r *BunLessonRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("lesson repository: database not configured")
	}
	if _, err := r.db.NewDelete().
		Model((*Lesson)(nil)).
		Where("?TableAlias.course_id = ?", courseID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete course lessons: %w", err)
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
