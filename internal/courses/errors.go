package courses

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrCourseCodeRequired = errors.New("courses: code is required")
	ErrCourseExists       = errors.New("courses: course code already exists")
	ErrCourseNotFound     = errors.New("courses: course not found")
	ErrLessonSourceFormat = errors.New("courses: lesson source must be a markdown (.md) file")
	ErrLessonSourceEmpty  = errors.New("courses: lesson source file is required")
)

// CourseExistsError reports an import that collided with a stored course
// while overwrite was disabled. It carries the existing record so callers can
// offer an overwrite.
type CourseExistsError struct {
	CourseID uuid.UUID
	Code     string
}

func (e *CourseExistsError) Error() string {
	return fmt.Sprintf("%s: %q (id %s)", ErrCourseExists.Error(), e.Code, e.CourseID)
}

func (e *CourseExistsError) Unwrap() error {
	return ErrCourseExists
}
