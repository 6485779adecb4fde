package courses

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// Course is the persisted view of an ingested course document.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID             uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Code           string    `bun:"code,notnull,unique" json:"code"`
	Name           string    `bun:"name,notnull" json:"name"`
	Description    string    `bun:"description" json:"description"`
	TotalHours     int       `bun:"total_hours,notnull,default:0" json:"total_hours"`
	TheoryHours    int       `bun:"theory_hours,notnull,default:0" json:"theory_hours"`
	PracticeHours  int       `bun:"practice_hours,notnull,default:0" json:"practice_hours"`
	SourceFile     string    `bun:"source_file" json:"source_file,omitempty"`
	SourceChecksum string    `bun:"source_checksum" json:"source_checksum,omitempty"`
	Strategy       string    `bun:"strategy" json:"strategy,omitempty"`
	CreatedAt      time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Lessons        []*Lesson `bun:"rel:has-many,join:id=course_id" json:"lessons,omitempty"`
}

// Lesson is one schedulable unit of a course.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:l"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CourseID      uuid.UUID `bun:"course_id,notnull,type:uuid" json:"course_id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Description   string    `bun:"description" json:"description"`
	LessonType    string    `bun:"lesson_type,notnull" json:"lesson_type"`
	DurationHours float64   `bun:"duration_hours,notnull,default:0" json:"duration_hours"`
	Order         int       `bun:"lesson_order,notnull,default:0" json:"order"`
	Content       string    `bun:"content" json:"content"`
	Objectives    []string  `bun:"objectives,type:jsonb" json:"objectives"`
	Materials     []string  `bun:"materials,type:jsonb" json:"materials"`
	Exercises     []string  `bun:"exercises,type:jsonb" json:"exercises"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Metadata projects the course back into the ingestion metadata shape.
func (c *Course) Metadata() interfaces.CourseMetadata {
	if c == nil {
		return interfaces.CourseMetadata{}
	}
	return interfaces.CourseMetadata{
		Code:          c.Code,
		Name:          c.Name,
		Description:   c.Description,
		TotalHours:    c.TotalHours,
		TheoryHours:   c.TheoryHours,
		PracticeHours: c.PracticeHours,
	}
}

// Record projects the lesson back into the ingestion record shape.
func (l *Lesson) Record() interfaces.LessonRecord {
	if l == nil {
		return interfaces.LessonRecord{}
	}
	return interfaces.LessonRecord{
		Title:         l.Title,
		Description:   l.Description,
		LessonType:    interfaces.LessonType(l.LessonType),
		DurationHours: l.DurationHours,
		Order:         l.Order,
		Content:       l.Content,
		Objectives:    cloneStrings(l.Objectives),
		Materials:     cloneStrings(l.Materials),
		Exercises:     cloneStrings(l.Exercises),
	}
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneCourse(src *Course) *Course {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Lessons = nil
	return &cloned
}

func cloneLesson(src *Lesson) *Lesson {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.Objectives = cloneStrings(src.Objectives)
	cloned.Materials = cloneStrings(src.Materials)
	cloned.Exercises = cloneStrings(src.Exercises)
	return &cloned
}
