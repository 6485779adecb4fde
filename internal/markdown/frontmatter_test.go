package markdown

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-courseware/internal/validation"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

func readFixture(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter(readFixture(t, "testdata/sources/cucina.md"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm == nil {
		t.Fatalf("expected front matter")
	}
	if fm.Code != "cuc-01" || fm.Name != "Cucina Professionale" {
		t.Fatalf("unexpected header %#v", fm)
	}
	if fm.TotalHours == nil || *fm.TotalHours != 30 {
		t.Fatalf("expected total hours 30, got %v", fm.TotalHours)
	}
	if fm.TheoryHours != nil || fm.PracticeHours != nil {
		t.Fatalf("absent hours must stay nil")
	}
	if fm.Raw["author"] != "Chef Rossi" {
		t.Fatalf("expected unknown keys in Raw, got %#v", fm.Raw)
	}
	if !strings.HasPrefix(string(body), "# Corso di Cucina") {
		t.Fatalf("expected body without header, got %q", body)
	}
}

func TestParseFrontMatterWithoutHeader(t *testing.T) {
	source := []byte("# Lezione 1 - Intro\n---\nnot a header\n")
	fm, body, err := ParseFrontMatter(source)
	if err != nil || fm != nil {
		t.Fatalf("expected no header, got %#v (%v)", fm, err)
	}
	if string(body) != string(source) {
		t.Fatalf("expected body unchanged")
	}
}

func TestParseFrontMatterRejectsInvalidHeader(t *testing.T) {
	fm, body, err := ParseFrontMatter(readFixture(t, "testdata/sources/bad_header.md"))
	if fm != nil {
		t.Fatalf("invalid header must not be returned, got %#v", fm)
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	if !strings.HasPrefix(string(body), "# Corso di Vela") {
		t.Fatalf("expected stripped body, got %q", body)
	}
}

func TestHasFrontMatter(t *testing.T) {
	cases := map[string]bool{
		"---\ncode: A\n---\n":     true,
		"\xef\xbb\xbf---\nx: 1\n": true,
		"+++\ncode = 'A'\n+++\n":  true,
		"----\n":                  false,
		"{\\rtf1\\ansi}":          false,
		"# Title\n":               false,
	}
	for input, want := range cases {
		if got := HasFrontMatter([]byte(input)); got != want {
			t.Fatalf("HasFrontMatter(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestCourseFrontMatterApply(t *testing.T) {
	theory := 0
	fm := &CourseFrontMatter{Code: " smm ", Name: " ", TheoryHours: &theory}
	meta := interfaces.CourseMetadata{Code: "FILE", Name: "Extracted", TotalHours: 80, TheoryHours: 40, PracticeHours: 40}

	got := fm.Apply(meta)
	if got.Code != "SMM" || got.Name != "Extracted" {
		t.Fatalf("unexpected strings %#v", got)
	}
	if got.TheoryHours != 0 || got.TotalHours != 80 {
		t.Fatalf("explicit zero must win and absent hours must stay, got %#v", got)
	}

	var none *CourseFrontMatter
	if none.Apply(meta) != meta {
		t.Fatalf("nil header must leave metadata untouched")
	}
}
