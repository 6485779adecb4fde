package generator

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"
	"time"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	readmeTemplate = "readme.md.tmpl"
	lessonTemplate = "lesson.md.tmpl"
)

var templates = template.Must(template.New("courseware").Funcs(template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"hours": formatHours,
}).ParseFS(templateFS, "templates/*.tmpl"))

type indexEntry struct {
	Order int
	Title string
	File  string
}

type readmeData struct {
	Course   *courses.Course
	Theory   []*courses.Lesson
	Practice []*courses.Lesson
	Lessons  []indexEntry
}

type lessonData struct {
	Course      *courses.Course
	Lesson      *courses.Lesson
	GeneratedAt time.Time
}

func renderReadme(course *courses.Course, lessons []*courses.Lesson, index []indexEntry) ([]byte, error) {
	data := readmeData{Course: course, Lessons: index}
	for _, lesson := range lessons {
		if lesson.LessonType == string(interfaces.LessonTypePractice) {
			data.Practice = append(data.Practice, lesson)
			continue
		}
		data.Theory = append(data.Theory, lesson)
	}
	return execute(readmeTemplate, data)
}

func renderLesson(course *courses.Course, lesson *courses.Lesson, generatedAt time.Time) ([]byte, error) {
	return execute(lessonTemplate, lessonData{Course: course, Lesson: lesson, GeneratedAt: generatedAt})
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("generator: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
