package courseparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const defaultLessonHours = 2.0

var (
	lessonHeadingPattern = regexp.MustCompile(`(?i)^#\s*(?:lezione|lesson)\s+(\d+)[\s–:\-]+\s*(.+)$`)
	firstNumberPattern   = regexp.MustCompile(`(\d+\.?\d*)`)
)

var (
	practiceMarkers = []string{"pratic", "practic"}
	theoryMarkers   = []string{"teori", "theor"}
)

// flatState carries the open lesson and active section through one scan.
type flatState struct {
	lessons []interfaces.LessonRecord
	current *interfaces.LessonRecord
	section flatSection
	content strings.Builder
	desc    strings.Builder
}

func (s *flatState) open(title string, order int) {
	s.close()
	s.current = newLesson(title, order)
	s.section = flatContent
}

func (s *flatState) close() {
	if s.current == nil {
		return
	}
	s.current.Content = s.content.String()
	s.current.Description = s.desc.String()
	s.lessons = append(s.lessons, *s.current)
	s.current = nil
	s.content.Reset()
	s.desc.Reset()
}

func (s *flatState) appendContent(line string) {
	s.content.WriteString(line)
	s.content.WriteByte('\n')
}

// ExtractLessons runs the flat extractor: "# Lezione N – Title" headings (and
// second-level headings, see classifyHeading) open lessons, third-level
// headings pick the section the following lines feed. It never fails and
// always returns a non-nil slice.
func ExtractLessons(text string) []interfaces.LessonRecord {
	state := &flatState{}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if match := lessonHeadingPattern.FindStringSubmatch(trimmed); match != nil {
			order, err := strconv.Atoi(match[1])
			if err != nil {
				order = len(state.lessons) + 1
			}
			state.open(strings.TrimSpace(match[2]), order)
			continue
		}

		if strings.HasPrefix(trimmed, "##") && !strings.HasPrefix(trimmed, "###") {
			title := headingText(trimmed)
			switch classifyHeading(title, state.current != nil) {
			case headingNewLesson:
				state.close()
				state.open(title, len(state.lessons)+1)
			case headingAppendToContent:
				state.appendContent(line)
			}
			continue
		}

		if strings.HasPrefix(trimmed, "###") {
			section, ok := classifyFlatSection(headingText(trimmed))
			state.section = section
			if !ok {
				state.section = flatContent
				if state.current != nil {
					state.appendContent(line)
				}
			}
			continue
		}

		if state.current == nil {
			continue
		}
		processFlatLine(state, line, trimmed)
	}
	state.close()

	return finalizeLessons(state.lessons)
}

func processFlatLine(state *flatState, line, trimmed string) {
	lesson := state.current
	switch state.section {
	case flatObjectives:
		if item, ok := bulletItem(trimmed); ok {
			lesson.Objectives = append(lesson.Objectives, item)
		}
	case flatMaterials:
		if item, ok := bulletItem(trimmed); ok {
			lesson.Materials = append(lesson.Materials, item)
		}
	case flatExercises:
		if item, ok := bulletItem(trimmed); ok {
			lesson.Exercises = append(lesson.Exercises, item)
		}
	case flatContent:
		state.appendContent(line)
	case flatDescription:
		state.desc.WriteString(trimmed)
		state.desc.WriteByte(' ')
	case flatType:
		lower := strings.ToLower(trimmed)
		if containsAny(lower, practiceMarkers) {
			lesson.LessonType = interfaces.LessonTypePractice
		} else if containsAny(lower, theoryMarkers) {
			lesson.LessonType = interfaces.LessonTypeTheory
		}
	case flatDuration:
		if match := firstNumberPattern.FindString(trimmed); match != "" {
			if hours, err := strconv.ParseFloat(match, 64); err == nil {
				lesson.DurationHours = hours
			}
		}
	}
}

// bulletItem returns the text of a "-" or "*" bullet with its marker removed.
func bulletItem(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimLeft(trimmed, "-* ")), true
}

func finalizeLessons(lessons []interfaces.LessonRecord) []interfaces.LessonRecord {
	out := make([]interfaces.LessonRecord, 0, len(lessons))
	for _, lesson := range lessons {
		lesson.Description = strings.TrimSpace(lesson.Description)
		lesson.Content = strings.TrimSpace(lesson.Content)
		if lesson.Content == "" && lesson.Description != "" {
			lesson.Content = lesson.Description
		}
		out = append(out, lesson)
	}
	return out
}

func newLesson(title string, order int) *interfaces.LessonRecord {
	return &interfaces.LessonRecord{
		Title:         title,
		LessonType:    interfaces.LessonTypeTheory,
		DurationHours: defaultLessonHours,
		Order:         order,
		Objectives:    []string{},
		Materials:     []string{},
		Exercises:     []string{},
	}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func containsAny(value string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
