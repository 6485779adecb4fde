package coursescmd

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/generator"
)

const (
	courseConflictCode     = "COURSE_CODE_CONFLICT"
	courseNotFoundCode     = "COURSE_NOT_FOUND"
	courseInputInvalidCode = "COURSE_INPUT_INVALID"
	generatorDisabledCode  = "GENERATOR_DISABLED"
)

// ErrGeneratorFeatureDisabled is returned when the generator feature flag is off.
var ErrGeneratorFeatureDisabled = errors.New("course command: generator feature disabled")

// classify tags course domain errors with a go-errors category before the
// shared handler falls back to the generic command category.
func classify(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, courses.ErrCourseExists):
		return goerrors.Wrap(err, goerrors.CategoryConflict, "course code already exists").
			WithTextCode(courseConflictCode)
	case errors.Is(err, courses.ErrCourseNotFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "course not found").
			WithTextCode(courseNotFoundCode)
	case errors.Is(err, courses.ErrCourseCodeRequired),
		errors.Is(err, courses.ErrLessonSourceEmpty),
		errors.Is(err, courses.ErrLessonSourceFormat),
		errors.Is(err, generator.ErrInvalidCourseCode):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "course input invalid").
			WithTextCode(courseInputInvalidCode)
	case errors.Is(err, ErrGeneratorFeatureDisabled),
		errors.Is(err, generator.ErrServiceDisabled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "course generator disabled").
			WithTextCode(generatorDisabledCode)
	}
	return err
}
