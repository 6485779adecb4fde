package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestCourseUUIDIsStable(t *testing.T) {
	first := CourseUUID("smm")
	second := CourseUUID("  SMM ")
	if first == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
	if first != second {
		t.Fatalf("expected codes to normalise to the same id: %s vs %s", first, second)
	}
	if CourseUUID("OTHER") == first {
		t.Fatalf("expected different codes to produce different ids")
	}
	if CourseUUID("") != uuid.Nil {
		t.Fatalf("expected empty code to yield uuid.Nil")
	}
}

func TestLessonUUID(t *testing.T) {
	course := CourseUUID("SMM")
	a := LessonUUID(course, 1)
	if a == uuid.Nil || a != LessonUUID(course, 1) {
		t.Fatalf("expected deterministic lesson id")
	}
	if a == LessonUUID(course, 2) {
		t.Fatalf("expected positions to produce different ids")
	}
	if a == LessonUUID(CourseUUID("OTHER"), 1) {
		t.Fatalf("expected courses to scope lesson ids")
	}
	if LessonUUID(uuid.Nil, 1) != uuid.Nil {
		t.Fatalf("expected nil course to yield uuid.Nil")
	}
}
