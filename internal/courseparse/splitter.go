package courseparse

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// ModuleRecord is the transient view of one course module built while the
// structured extractor scans a document.
type ModuleRecord struct {
	// Order is the module number; zero means the document never declared one.
	Order            int
	Title            string
	DurationTotal    int
	DurationTheory   int
	DurationPractice int
	Objectives       []string
	ContentTheory    string
	ContentPractice  string
	Activities       []string

	fromTable bool
}

func newModuleRecord(order int, title string) *ModuleRecord {
	return &ModuleRecord{
		Order:      order,
		Title:      title,
		Objectives: []string{},
		Activities: []string{},
	}
}

// SplitModule converts a module into at most two lessons: a theory lesson when
// the module declares theory hours and a practice lesson when it declares
// practice hours. nextOrder is the order assigned to the first lesson produced;
// following lessons take consecutive values.
func SplitModule(module ModuleRecord, labels Labels, nextOrder int) []interfaces.LessonRecord {
	labels = labels.withDefaults()
	lessons := make([]interfaces.LessonRecord, 0, 2)

	if module.DurationTheory > 0 {
		lessons = append(lessons, interfaces.LessonRecord{
			Title:         suffixTitle(module.Title, labels.TheorySuffix),
			Description:   fmt.Sprintf(labels.TheoryDescription, module.Order),
			LessonType:    interfaces.LessonTypeTheory,
			DurationHours: float64(module.DurationTheory),
			Order:         nextOrder + len(lessons),
			Content:       strings.TrimSpace(module.ContentTheory),
			Objectives:    cloneStrings(module.Objectives),
			Materials:     []string{},
			Exercises:     []string{},
		})
	}

	if module.DurationPractice > 0 {
		lessons = append(lessons, interfaces.LessonRecord{
			Title:         suffixTitle(module.Title, labels.PracticeSuffix),
			Description:   fmt.Sprintf(labels.PracticeDescription, module.Order),
			LessonType:    interfaces.LessonTypePractice,
			DurationHours: float64(module.DurationPractice),
			Order:         nextOrder + len(lessons),
			Content:       strings.TrimSpace(module.ContentPractice),
			Objectives:    []string{},
			Materials:     []string{},
			Exercises:     cloneStrings(module.Activities),
		})
	}

	return lessons
}

func suffixTitle(title, suffix string) string {
	return title + " - " + suffix
}

func cloneStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
