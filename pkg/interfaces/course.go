package interfaces

import "context"

// LessonType tags a lesson as theoretical or practical.
type LessonType string

const (
	LessonTypeTheory   LessonType = "theory"
	LessonTypePractice LessonType = "practice"
)

// Default hour split applied when a document does not declare one.
const (
	DefaultTotalHours    = 80
	DefaultTheoryHours   = 40
	DefaultPracticeHours = 40
)

// CourseMetadata describes the course-level fields recovered from a source
// document. Hour fields are best-effort: no sum constraint is enforced.
type CourseMetadata struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TotalHours    int    `json:"total_hours"`
	TheoryHours   int    `json:"theory_hours"`
	PracticeHours int    `json:"practice_hours"`
}

// LessonRecord is the atomic schedulable unit produced by ingestion. Order is
// the 1-based position assigned during extraction; persistent identity is
// assigned later by the course service.
type LessonRecord struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	LessonType    LessonType `json:"lesson_type"`
	DurationHours float64    `json:"duration_hours"`
	Order         int        `json:"order"`
	Content       string     `json:"content"`
	Objectives    []string   `json:"objectives"`
	Materials     []string   `json:"materials"`
	Exercises     []string   `json:"exercises"`
}

// ExtractionStrategy names the algorithm that produced a lesson list.
type ExtractionStrategy string

const (
	StrategyStructured ExtractionStrategy = "structured"
	StrategyFlat       ExtractionStrategy = "flat"
)

// ParsedCourse is the output of the ingestion engine for one document.
type ParsedCourse struct {
	Metadata CourseMetadata `json:"metadata"`
	Lessons  []LessonRecord `json:"lessons"`
	// Strategy reports which extractor produced Lessons.
	Strategy ExtractionStrategy `json:"strategy"`
	// Legacy is true when the source was normalized from the legacy rich-text encoding.
	Legacy bool `json:"legacy"`
	// Modules counts the module records seen by the structured extractor.
	Modules int `json:"modules"`
}

// CourseParser converts raw document bytes into course metadata and lessons.
// Implementations must never fail on malformed input.
type CourseParser interface {
	Parse(source []byte, filename string) ParsedCourse
	ParseLessons(source []byte) []LessonRecord
}

// CourseDocument is a source file loaded from disk together with its parse
// result and optional HTML renderings of each lesson body.
type CourseDocument struct {
	FilePath string
	Checksum []byte
	Course   ParsedCourse
	// FrontMatter holds the validated header keys, nil when absent or rejected.
	FrontMatter map[string]any
	// LessonsHTML is index-aligned with Course.Lessons when rendering is enabled.
	LessonsHTML [][]byte
}

// SourceFile describes a discovered course source document.
type SourceFile struct {
	Filename string  `json:"filename"`
	Size     int64   `json:"size"`
	SizeKB   float64 `json:"size_kb"`
}

// CourseDocumentService exposes the filesystem workflows around ingestion.
type CourseDocumentService interface {
	Load(ctx context.Context, path string) (*CourseDocument, error)
	LoadDirectory(ctx context.Context, dir string) ([]*CourseDocument, error)
	ListSources(ctx context.Context) ([]SourceFile, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
}
