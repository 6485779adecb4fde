package courseparse

import "strings"

// headingAction is the outcome of classifying an ambiguous second-level heading.
type headingAction int

const (
	headingNewLesson headingAction = iota
	headingAppendToContent
)

func (a headingAction) String() string {
	switch a {
	case headingNewLesson:
		return "new_lesson"
	case headingAppendToContent:
		return "append_to_content"
	default:
		return "unknown"
	}
}

// lessonWords mark a second-level heading as a lesson boundary. Matching is
// case-sensitive.
var lessonWords = []string{"Lezione", "Lesson"}

// classifyHeading decides whether a second-level heading opens a new lesson or
// belongs to the lesson already open. Loosely leveled documents use "##" for
// both, so only headings naming a lesson start a new one once a lesson is open.
func classifyHeading(text string, hasOpenLesson bool) headingAction {
	if !hasOpenLesson {
		return headingNewLesson
	}
	for _, word := range lessonWords {
		if strings.Contains(text, word) {
			return headingNewLesson
		}
	}
	return headingAppendToContent
}

// headingLevel counts the leading '#' markers of a trimmed line.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// flatSection identifies where the flat extractor routes body lines.
type flatSection int

const (
	flatContent flatSection = iota
	flatObjectives
	flatMaterials
	flatExercises
	flatDescription
	flatType
	flatDuration
)

type sectionKeywords[S any] struct {
	section  S
	keywords []string
}

// flatSectionKeywords is evaluated in order; the first keyword found as a
// substring of the lowercased heading wins.
var flatSectionKeywords = []sectionKeywords[flatSection]{
	{flatObjectives, []string{"obiettiv", "objective"}},
	{flatMaterials, []string{"materiali", "risorse", "material", "resource"}},
	{flatExercises, []string{"esercizi", "exercise"}},
	{flatContent, []string{"contenut", "content"}},
	{flatDescription, []string{"descrizione", "description"}},
	{flatType, []string{"tipo", "type"}},
	{flatDuration, []string{"durata", "duration"}},
}

// classifyFlatSection maps a third-level heading to a section. The boolean is
// false when no keyword matched.
func classifyFlatSection(name string) (flatSection, bool) {
	return matchSection(flatSectionKeywords, name)
}

func matchSection[S any](table []sectionKeywords[S], name string) (S, bool) {
	lower := strings.ToLower(name)
	for _, entry := range table {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.section, true
			}
		}
	}
	var zero S
	return zero, false
}
