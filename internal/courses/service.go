package courses

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/internal/courseparse"
	"github.com/goliatone/go-courseware/internal/identity"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// DefaultCourseName names imported courses whose source carries no title.
const DefaultCourseName = "Nuovo Corso"

// Service describes course persistence and import capabilities.
type Service interface {
	ImportCourse(ctx context.Context, input ImportCourseInput) (*ImportCourseResult, error)
	ReplaceLessons(ctx context.Context, input ReplaceLessonsInput) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	GetCourseByCode(ctx context.Context, code string) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

// ImportCourseInput carries one parsed source document.
type ImportCourseInput struct {
	SourceFile string
	Checksum   string
	Course     interfaces.ParsedCourse
	// Overwrite replaces the stored course and all of its lessons when the
	// code already exists.
	Overwrite bool
}

// ImportCourseResult reports the stored course and whether it was new.
type ImportCourseResult struct {
	Course  *Course
	Created bool
}

// ReplaceLessonsInput swaps the lessons of an existing course for the ones
// found in a markdown upload.
type ReplaceLessonsInput struct {
	CourseID uuid.UUID
	Filename string
	Source   []byte
}

// IDDeriver maps a course code to its identifier.
type IDDeriver func(code string) uuid.UUID

// ServiceOption configures the course service.
type ServiceOption func(*service)

// WithClock overrides the internal time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithParser overrides the parser used by ReplaceLessons.
func WithParser(parser interfaces.CourseParser) ServiceOption {
	return func(s *service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithLogger wires the logger used for import diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCourseIDDeriver overrides course ID derivation.
func WithCourseIDDeriver(deriver IDDeriver) ServiceOption {
	return func(s *service) {
		if deriver != nil {
			s.courseID = deriver
		}
	}
}

// WithDefaultName overrides the name given to untitled courses.
func WithDefaultName(name string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.defaultName = trimmed
		}
	}
}

type service struct {
	courses     CourseRepository
	lessons     LessonRepository
	parser      interfaces.CourseParser
	logger      interfaces.Logger
	now         func() time.Time
	courseID    IDDeriver
	defaultName string
}

// NewService constructs a course service.
func NewService(courses CourseRepository, lessons LessonRepository, opts ...ServiceOption) Service {
	s := &service{
		courses:     courses,
		lessons:     lessons,
		parser:      courseparse.NewParser(courseparse.Options{}),
		logger:      logging.NoOp(),
		now:         time.Now,
		courseID:    identity.CourseUUID,
		defaultName: DefaultCourseName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ImportCourse(ctx context.Context, input ImportCourseInput) (*ImportCourseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	meta := input.Course.Metadata
	code := strings.ToUpper(strings.TrimSpace(meta.Code))
	if code == "" {
		return nil, ErrCourseCodeRequired
	}
	logger := logging.WithCourseContext(s.logger, code, input.SourceFile, "import")

	existing, err := s.courses.GetByCode(ctx, code)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil && !input.Overwrite {
		return nil, &CourseExistsError{CourseID: existing.ID, Code: code}
	}

	now := s.now().UTC()
	var stored *Course
	created := existing == nil
	if created {
		record := &Course{
			ID:             s.courseID(code),
			Code:           code,
			Name:           firstNonEmpty(meta.Name, s.defaultName),
			Description:    meta.Description,
			TotalHours:     meta.TotalHours,
			TheoryHours:    meta.TheoryHours,
			PracticeHours:  meta.PracticeHours,
			SourceFile:     input.SourceFile,
			SourceChecksum: input.Checksum,
			Strategy:       string(input.Course.Strategy),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		stored, err = s.courses.Create(ctx, record)
	} else {
		existing.Name = firstNonEmpty(meta.Name, existing.Name)
		existing.Description = firstNonEmpty(meta.Description, existing.Description)
		existing.TotalHours = meta.TotalHours
		existing.TheoryHours = meta.TheoryHours
		existing.PracticeHours = meta.PracticeHours
		existing.SourceFile = input.SourceFile
		existing.SourceChecksum = input.Checksum
		existing.Strategy = string(input.Course.Strategy)
		existing.UpdatedAt = now
		stored, err = s.courses.Update(ctx, existing)
	}
	if err != nil {
		return nil, err
	}

	lessons := s.buildLessons(stored.ID, input.Course.Lessons, now)
	if err := s.lessons.ReplaceForCourse(ctx, stored.ID, lessons); err != nil {
		return nil, err
	}
	stored.Lessons = lessons

	logger.Info("courses.import.completed",
		"course_id", stored.ID,
		"created", created,
		"strategy", input.Course.Strategy,
		"lessons", len(lessons),
	)
	return &ImportCourseResult{Course: stored, Created: created}, nil
}

func (s *service) ReplaceLessons(ctx context.Context, input ReplaceLessonsInput) (*Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, ErrLessonSourceEmpty
	}
	if path.Ext(filename) != ".md" {
		return nil, ErrLessonSourceFormat
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	records := s.parser.ParseLessons(input.Source)
	lessons := s.buildLessons(course.ID, records, s.now().UTC())
	if err := s.lessons.ReplaceForCourse(ctx, course.ID, lessons); err != nil {
		return nil, err
	}
	course.Lessons = lessons

	logging.WithCourseContext(s.logger, course.Code, filename, "replace_lessons").
		Info("courses.lessons.replaced", "course_id", course.ID, "lessons", len(lessons))
	return course, nil
}

func (s *service) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return s.withLessons(ctx, course)
}

func (s *service) GetCourseByCode(ctx context.Context, code string) (*Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCourseCodeRequired
	}
	course, err := s.courses.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return s.withLessons(ctx, course)
}

func (s *service) ListCourses(ctx context.Context) ([]*Course, error) {
	return s.courses.List(ctx)
}

func (s *service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.lessons.DeleteByCourse(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

func (s *service) withLessons(ctx context.Context, course *Course) (*Course, error) {
	lessons, err := s.lessons.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	course.Lessons = lessons
	return course, nil
}

// buildLessons assigns identity by list position, so the stored order
// follows extraction order even when declared lesson numbers repeat.
func (s *service) buildLessons(courseID uuid.UUID, records []interfaces.LessonRecord, now time.Time) []*Lesson {
	lessons := make([]*Lesson, 0, len(records))
	for i, record := range records {
		lessonType := record.LessonType
		if lessonType == "" {
			lessonType = interfaces.LessonTypeTheory
		}
		order := record.Order
		if order <= 0 {
			order = len(records)
		}
		lessons = append(lessons, &Lesson{
			ID:            identity.LessonUUID(courseID, i+1),
			CourseID:      courseID,
			Title:         record.Title,
			Description:   record.Description,
			LessonType:    string(lessonType),
			DurationHours: record.DurationHours,
			Order:         order,
			Content:       record.Content,
			Objectives:    cloneStrings(record.Objectives),
			Materials:     cloneStrings(record.Materials),
			Exercises:     cloneStrings(record.Exercises),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return lessons
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
