package courses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CourseRepository exposes persistence operations for course records.
type CourseRepository interface {
	Create(ctx context.Context, course *Course) (*Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	GetByCode(ctx context.Context, code string) (*Course, error)
	List(ctx context.Context) ([]*Course, error)
	Update(ctx context.Context, course *Course) (*Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LessonRepository exposes persistence operations for lessons.
type LessonRepository interface {
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error)
	// ReplaceForCourse atomically swaps every lesson of a course for the supplied set.
	ReplaceForCourse(ctx context.Context, courseID uuid.UUID, lessons []*Lesson) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
}

// NotFoundError is returned when a course resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
