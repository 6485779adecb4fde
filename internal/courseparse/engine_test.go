package courseparse

import (
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const legacyCourse = "{\\rtf1\\ansi\\ansicpg1252\n" +
	"{\\*\\expandedcolortbl;;}\n" +
	"\\f0\\fs24 \\cf0 # Corso di Cucina\\\n" +
	"\\\n" +
	"## Modulo 1 \\'96 Basi di cucina\\\n" +
	"Durata: 6 ore (4 teoria, 2 laboratorio)\\\n" +
	"### Contenuti teorici\\\n" +
	"Ingredienti e attrezzature\\\n" +
	"}"

func TestSplitModuleConservesHours(t *testing.T) {
	module := *newModuleRecord(3, "Analytics")
	module.DurationTheory = 6
	module.DurationPractice = 4
	module.ContentTheory = "KPI\n"
	module.Objectives = []string{"Leggere i report"}
	module.Activities = []string{"Dashboard"}

	lessons := SplitModule(module, ItalianLabels, 5)

	if len(lessons) != 2 {
		t.Fatalf("expected two lessons, got %d", len(lessons))
	}
	theory, practice := lessons[0], lessons[1]
	if theory.LessonType != interfaces.LessonTypeTheory || theory.DurationHours != 6 {
		t.Fatalf("unexpected theory lesson %#v", theory)
	}
	if practice.LessonType != interfaces.LessonTypePractice || practice.DurationHours != 4 {
		t.Fatalf("unexpected practice lesson %#v", practice)
	}
	if theory.DurationHours+practice.DurationHours != float64(module.DurationTheory+module.DurationPractice) {
		t.Fatalf("durations must add up to the module hours")
	}
	if theory.Order != 5 || practice.Order != 6 {
		t.Fatalf("expected orders 5 and 6, got %d and %d", theory.Order, practice.Order)
	}
	if theory.Content != "KPI" {
		t.Fatalf("expected trimmed content, got %q", theory.Content)
	}
	if practice.Description != "Parte pratica del modulo 3" {
		t.Fatalf("unexpected description %q", practice.Description)
	}
	if practice.Exercises[0] != "Dashboard" || theory.Objectives[0] != "Leggere i report" {
		t.Fatalf("expected objectives on theory and activities on practice")
	}

	module.Objectives[0] = "mutated"
	if theory.Objectives[0] != "Leggere i report" {
		t.Fatalf("split lessons must not share slices with the module")
	}
}

func TestSplitModuleSkipsZeroHours(t *testing.T) {
	module := *newModuleRecord(1, "Intro")
	if got := SplitModule(module, ItalianLabels, 1); len(got) != 0 {
		t.Fatalf("expected no lessons for a module without hours, got %d", len(got))
	}

	module.DurationPractice = 3
	got := SplitModule(module, Labels{}, 1)
	if len(got) != 1 || got[0].LessonType != interfaces.LessonTypePractice || got[0].Order != 1 {
		t.Fatalf("expected a single practice lesson, got %#v", got)
	}
	if got[0].Title != "Intro - Parte Pratica" {
		t.Fatalf("expected empty labels to fall back to defaults, got %q", got[0].Title)
	}
}

func TestParserParseMarkdown(t *testing.T) {
	parsed := Parse(readFixture(t, "testdata/smm_course.md"), "smm_course.md")

	if parsed.Legacy {
		t.Fatalf("markdown must not be flagged as legacy")
	}
	if parsed.Strategy != interfaces.StrategyStructured {
		t.Fatalf("expected structured strategy, got %q", parsed.Strategy)
	}
	if parsed.Modules != 3 {
		t.Fatalf("expected three modules, got %d", parsed.Modules)
	}
	if len(parsed.Lessons) != 6 {
		t.Fatalf("expected six lessons, got %d", len(parsed.Lessons))
	}
}

func TestParserParseLegacyDocument(t *testing.T) {
	parsed := Parse([]byte(legacyCourse), "cucina.md")

	if !parsed.Legacy {
		t.Fatalf("expected legacy detection")
	}
	if parsed.Metadata.Name != "Corso di Cucina" {
		t.Fatalf("unexpected name %q", parsed.Metadata.Name)
	}
	if parsed.Metadata.Code != "CUCINA" {
		t.Fatalf("unexpected code %q", parsed.Metadata.Code)
	}
	if len(parsed.Lessons) != 2 {
		t.Fatalf("expected two lessons, got %#v", parsed.Lessons)
	}
	if parsed.Lessons[0].Title != "Basi di cucina - Parte Teorica" {
		t.Fatalf("unexpected title %q", parsed.Lessons[0].Title)
	}
	if parsed.Lessons[0].DurationHours != 4 || parsed.Lessons[1].DurationHours != 2 {
		t.Fatalf("unexpected durations %#v", parsed.Lessons)
	}
	if parsed.Lessons[0].Content != "Ingredienti e attrezzature" {
		t.Fatalf("unexpected content %q", parsed.Lessons[0].Content)
	}
}

func TestParserParseFlatDocument(t *testing.T) {
	parsed := Parse(readFixture(t, "testdata/flat_lessons.md"), "flat_lessons.md")

	if parsed.Strategy != interfaces.StrategyFlat || parsed.Modules != 0 {
		t.Fatalf("expected flat fallback, got %q with %d modules", parsed.Strategy, parsed.Modules)
	}
	if len(parsed.Lessons) != 3 {
		t.Fatalf("expected three lessons, got %d", len(parsed.Lessons))
	}
	if parsed.Metadata.Code != "FLAT_LESSONS" {
		t.Fatalf("unexpected code %q", parsed.Metadata.Code)
	}
}

func TestParserEnglishLabels(t *testing.T) {
	parser := NewParser(Options{Labels: LabelsFor("en")})

	parsed := parser.Parse(readFixture(t, "testdata/narrative_only.md"), "narrative_only.md")
	if len(parsed.Lessons) == 0 {
		t.Fatalf("expected lessons")
	}
	if parsed.Lessons[0].Title != "Batch - Theoretical Part" {
		t.Fatalf("unexpected title %q", parsed.Lessons[0].Title)
	}
	if parsed.Lessons[1].Description != "Practical part of module 1" {
		t.Fatalf("unexpected description %q", parsed.Lessons[1].Description)
	}
}

func TestParserParseLessonsIgnoresModules(t *testing.T) {
	parser := NewParser(Options{})

	lessons := parser.ParseLessons(readFixture(t, "testdata/smm_course.md"))
	for _, lesson := range lessons {
		if strings.Contains(lesson.Title, "Parte Teorica") {
			t.Fatalf("ParseLessons must not split modules, got %q", lesson.Title)
		}
	}
}

func TestParserGarbageBytes(t *testing.T) {
	parsed := Parse([]byte{0xff, 0xfe, 0x00, 0x01, 0x9d}, "garbage.md")

	if len(parsed.Lessons) != 0 {
		t.Fatalf("expected no lessons, got %#v", parsed.Lessons)
	}
	if parsed.Metadata.TotalHours != interfaces.DefaultTotalHours {
		t.Fatalf("expected default hours, got %+v", parsed.Metadata)
	}
}

func TestParserConcurrentUse(t *testing.T) {
	parser := NewParser(Options{})
	source := readFixture(t, "testdata/smm_course.md")
	want := parser.Parse(source, "smm_course.md")

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := parser.Parse(source, "smm_course.md")
			if len(got.Lessons) != len(want.Lessons) || got.Metadata != want.Metadata {
				errs <- "concurrent parse diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}
