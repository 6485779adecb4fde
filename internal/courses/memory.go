package courses

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryCourseRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Course
	byCode map[string]uuid.UUID
}

// NewMemoryCourseRepository constructs an in-memory repository for courses.
func NewMemoryCourseRepository() CourseRepository {
	return &memoryCourseRepository{
		byID:   make(map[uuid.UUID]*Course),
		byCode: make(map[string]uuid.UUID),
	}
}

func (m *memoryCourseRepository) Create(_ context.Context, course *Course) (*Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneCourse(course)
	m.byID[cloned.ID] = cloned
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneCourse(cloned), nil
}

func (m *memoryCourseRepository) GetByID(_ context.Context, id uuid.UUID) (*Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: id.String()}
	}
	return cloneCourse(record), nil
}

func (m *memoryCourseRepository) GetByCode(_ context.Context, code string) (*Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: code}
	}
	return cloneCourse(m.byID[id]), nil
}

func (m *memoryCourseRepository) List(_ context.Context) ([]*Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Course, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneCourse(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return strings.Compare(records[i].Code, records[j].Code) < 0
	})
	return records, nil
}

func (m *memoryCourseRepository) Update(_ context.Context, course *Course) (*Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[course.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "course", Key: course.ID.String()}
	}

	oldCode := existing.Code
	cloned := cloneCourse(course)
	m.byID[cloned.ID] = cloned

	if oldCode != "" && oldCode != cloned.Code {
		delete(m.byCode, oldCode)
	}
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneCourse(cloned), nil
}

func (m *memoryCourseRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "course", Key: id.String()}
	}
	delete(m.byID, id)
	if existing.Code != "" {
		delete(m.byCode, existing.Code)
	}
	return nil
}

type memoryLessonRepository struct {
	mu       sync.RWMutex
	byCourse map[uuid.UUID][]*Lesson
}

// NewMemoryLessonRepository constructs an in-memory repository for lessons.
func NewMemoryLessonRepository() LessonRepository {
	return &memoryLessonRepository{
		byCourse: make(map[uuid.UUID][]*Lesson),
	}
}

func (m *memoryLessonRepository) ListByCourse(_ context.Context, courseID uuid.UUID) ([]*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.byCourse[courseID]
	lessons := make([]*Lesson, 0, len(stored))
	for _, lesson := range stored {
		lessons = append(lessons, cloneLesson(lesson))
	}
	return lessons, nil
}

func (m *memoryLessonRepository) ReplaceForCourse(_ context.Context, courseID uuid.UUID, lessons []*Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	replaced := make([]*Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if lesson == nil {
			continue
		}
		cloned := cloneLesson(lesson)
		cloned.CourseID = courseID
		replaced = append(replaced, cloned)
	}
	sortLessons(replaced)
	if len(replaced) == 0 {
		delete(m.byCourse, courseID)
		return nil
	}
	m.byCourse[courseID] = replaced
	return nil
}

func (m *memoryLessonRepository) DeleteByCourse(_ context.Context, courseID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byCourse, courseID)
	return nil
}

func sortLessons(lessons []*Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Order < lessons[j].Order
	})
}
