package courseparse

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-courseware/pkg/interfaces"
	"github.com/goliatone/go-courseware/pkg/testsupport"
)

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := testsupport.LoadFixture(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

func TestExtractLessonsSingleLesson(t *testing.T) {
	lessons := ExtractLessons("# Lesson 1 – Intro\nSome text\n### Obiettivi\n- Learn X\n- Learn Y\n")

	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	lesson := lessons[0]
	if lesson.Title != "Intro" {
		t.Fatalf("unexpected title %q", lesson.Title)
	}
	if lesson.Order != 1 {
		t.Fatalf("unexpected order %d", lesson.Order)
	}
	if lesson.LessonType != interfaces.LessonTypeTheory {
		t.Fatalf("unexpected type %q", lesson.LessonType)
	}
	if lesson.DurationHours != 2.0 {
		t.Fatalf("unexpected duration %v", lesson.DurationHours)
	}
	if !strings.Contains(lesson.Content, "Some text") {
		t.Fatalf("expected content to contain body text, got %q", lesson.Content)
	}
	if !reflect.DeepEqual(lesson.Objectives, []string{"Learn X", "Learn Y"}) {
		t.Fatalf("unexpected objectives %#v", lesson.Objectives)
	}
}

func TestExtractLessonsFixture(t *testing.T) {
	lessons := ExtractLessons(string(readFixture(t, "testdata/flat_lessons.md")))

	if len(lessons) != 3 {
		t.Fatalf("expected three lessons, got %d: %#v", len(lessons), lessons)
	}

	first := lessons[0]
	if first.Title != "Introduzione ai social" || first.Order != 1 {
		t.Fatalf("unexpected first lesson header: %q order %d", first.Title, first.Order)
	}
	if !reflect.DeepEqual(first.Objectives, []string{"Conoscere le piattaforme", "Capire il pubblico"}) {
		t.Fatalf("expected only bullet objectives, got %#v", first.Objectives)
	}
	if first.DurationHours != 3.5 {
		t.Fatalf("expected duration 3.5, got %v", first.DurationHours)
	}
	if first.LessonType != interfaces.LessonTypeTheory {
		t.Fatalf("expected theory lesson, got %q", first.LessonType)
	}
	if strings.Contains(first.Content, "scartata") {
		t.Fatalf("lines before the first lesson must be discarded, got %q", first.Content)
	}
	if !strings.HasPrefix(first.Content, "Panoramica generale.") {
		t.Fatalf("unexpected content %q", first.Content)
	}

	second := lessons[1]
	if second.Title != "Laboratorio di content" || second.Order != 2 {
		t.Fatalf("unexpected second lesson header: %q order %d", second.Title, second.Order)
	}
	if second.LessonType != interfaces.LessonTypePractice {
		t.Fatalf("expected practice lesson, got %q", second.LessonType)
	}
	if second.Description != "Creazione di post per Instagram" {
		t.Fatalf("unexpected description %q", second.Description)
	}
	if second.Content != second.Description {
		t.Fatalf("expected empty content to be filled from description, got %q", second.Content)
	}
	if !reflect.DeepEqual(second.Materials, []string{"Smartphone"}) {
		t.Fatalf("unexpected materials %#v", second.Materials)
	}
	if !reflect.DeepEqual(second.Exercises, []string{"Scrivere tre post"}) {
		t.Fatalf("unexpected exercises %#v", second.Exercises)
	}

	third := lessons[2]
	if third.Order != 3 {
		t.Fatalf("expected second-level lesson heading to take order 3, got %d", third.Order)
	}
	if third.Title != "Lezione 3 - Analisi dei risultati" {
		t.Fatalf("unexpected third title %q", third.Title)
	}
	if third.DurationHours != defaultLessonHours {
		t.Fatalf("duration without digits must keep the default, got %v", third.DurationHours)
	}
}

func TestExtractLessonsSecondLevelHeadingLeaksIntoContent(t *testing.T) {
	lessons := ExtractLessons(string(readFixture(t, "testdata/flat_lessons.md")))
	if len(lessons) == 0 {
		t.Fatalf("expected lessons")
	}

	if !strings.Contains(lessons[0].Content, "## Approfondimento") {
		t.Fatalf("expected raw second-level heading in content, got %q", lessons[0].Content)
	}
}

func TestExtractLessonsSecondLevelHeadingOpensLessonWhenNoneOpen(t *testing.T) {
	lessons := ExtractLessons("## Warm up\nStretching\n## Cool down\nBreathing\n")

	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	if lessons[0].Title != "Warm up" || lessons[0].Order != 1 {
		t.Fatalf("unexpected lesson %#v", lessons[0])
	}
	if !strings.Contains(lessons[0].Content, "## Cool down") || !strings.Contains(lessons[0].Content, "Breathing") {
		t.Fatalf("expected the second heading to be folded into content, got %q", lessons[0].Content)
	}
}

func TestExtractLessonsUnknownThirdLevelHeadingGoesToContent(t *testing.T) {
	lessons := ExtractLessons("# Lesson 4: Review\n### Objectives\n- Recap\n### Notes\nRemember the deadline\n")

	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	content := lessons[0].Content
	if !strings.Contains(content, "### Notes") || !strings.Contains(content, "Remember the deadline") {
		t.Fatalf("expected unknown section and its lines in content, got %q", content)
	}
	if lessons[0].Order != 4 {
		t.Fatalf("expected declared order 4, got %d", lessons[0].Order)
	}
}

func TestExtractLessonsTypeLastMatchWins(t *testing.T) {
	lessons := ExtractLessons("# Lezione 1 - Mix\n### Tipo\nPratica\nTeorica\n")
	if len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %d", len(lessons))
	}
	if lessons[0].LessonType != interfaces.LessonTypeTheory {
		t.Fatalf("expected the last matching line to win, got %q", lessons[0].LessonType)
	}
}

func TestExtractLessonsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "random words\nno headings here"} {
		lessons := ExtractLessons(input)
		if lessons == nil || len(lessons) != 0 {
			t.Fatalf("expected empty non-nil list for %q, got %#v", input, lessons)
		}
	}
}

func TestClassifyHeading(t *testing.T) {
	cases := []struct {
		text string
		open bool
		want headingAction
	}{
		{text: "Approfondimento", open: false, want: headingNewLesson},
		{text: "Approfondimento", open: true, want: headingAppendToContent},
		{text: "Lezione 2 - Pratica", open: true, want: headingNewLesson},
		{text: "Lesson 2", open: true, want: headingNewLesson},
		{text: "lezione minuscola", open: true, want: headingAppendToContent},
	}
	for _, tc := range cases {
		if got := classifyHeading(tc.text, tc.open); got != tc.want {
			t.Fatalf("classifyHeading(%q, %v) = %s, want %s", tc.text, tc.open, got, tc.want)
		}
	}
}

func TestClassifyFlatSection(t *testing.T) {
	cases := map[string]flatSection{
		"Obiettivi didattici": flatObjectives,
		"Learning Objectives": flatObjectives,
		"Materiali":           flatMaterials,
		"Risorse utili":       flatMaterials,
		"Esercizi":            flatExercises,
		"Contenuti":           flatContent,
		"Descrizione":         flatDescription,
		"Tipo di lezione":     flatType,
		"Durata":              flatDuration,
	}
	for name, want := range cases {
		got, ok := classifyFlatSection(name)
		if !ok || got != want {
			t.Fatalf("classifyFlatSection(%q) = %v,%v want %v", name, got, ok, want)
		}
	}
	if _, ok := classifyFlatSection("Note"); ok {
		t.Fatalf("expected unknown section to report no match")
	}
}
