package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/markdown"
)

type stubImport struct {
	last   coursescmd.ImportCoursesCommand
	result *markdown.ImportResult
}

func (s *stubImport) Execute(_ context.Context, msg coursescmd.ImportCoursesCommand) error {
	s.last = msg
	if msg.Report != nil && s.result != nil {
		msg.Report(s.result)
	}
	return nil
}

type stubGenerate struct {
	calls int
	last  coursescmd.GenerateCourseCommand
}

func (s *stubGenerate) Execute(_ context.Context, msg coursescmd.GenerateCourseCommand) error {
	s.calls++
	s.last = msg
	if msg.Report != nil {
		msg.Report(&generator.Result{Dir: "SMM", Written: []string{"SMM/README.md", "SMM/01_intro.md"}})
	}
	return nil
}

func withStubModule(t *testing.T, imp *stubImport, gen *stubGenerate) (*bootstrap.Options, *bytes.Buffer) {
	t.Helper()
	originalBuilder, originalOut := moduleBuilder, stdout
	t.Cleanup(func() { moduleBuilder, stdout = originalBuilder, originalOut })

	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{Import: imp, Generate: gen}, nil
	}
	var buf bytes.Buffer
	stdout = &buf
	return &captured, &buf
}

func TestRunGenerateImportsThenGenerates(t *testing.T) {
	id := uuid.New()
	imp := &stubImport{result: &markdown.ImportResult{Created: []uuid.UUID{id}}}
	gen := &stubGenerate{}
	opts, out := withStubModule(t, imp, gen)

	if err := runGenerate([]string{"-file", "smm.md", "-output-dir", "out"}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if len(imp.last.Files) != 1 || imp.last.Files[0] != "smm.md" || !imp.last.Overwrite {
		t.Fatalf("unexpected import command %+v", imp.last)
	}
	if gen.last.CourseID != id {
		t.Fatalf("expected generate for %s, got %+v", id, gen.last)
	}
	if opts.OutputDir != "out" {
		t.Fatalf("expected output dir override, got %+v", opts)
	}
	if !strings.Contains(out.String(), "generated SMM: 2 files written") || !strings.Contains(out.String(), "SMM/README.md") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunGenerateByCodeSkipsImport(t *testing.T) {
	imp := &stubImport{}
	gen := &stubGenerate{}
	withStubModule(t, imp, gen)

	if err := runGenerate([]string{"-code", "SMM"}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	if imp.last.Files != nil {
		t.Fatalf("expected no import, got %+v", imp.last)
	}
	if gen.calls != 1 || gen.last.Code != "SMM" {
		t.Fatalf("unexpected generate command %+v", gen.last)
	}
}

func TestRunGenerateFailsWhenNothingStored(t *testing.T) {
	imp := &stubImport{result: &markdown.ImportResult{}}
	gen := &stubGenerate{}
	withStubModule(t, imp, gen)

	if err := runGenerate([]string{"-file", "smm.md"}); err == nil {
		t.Fatalf("expected error when the import stores nothing")
	}
	if gen.calls != 0 {
		t.Fatalf("generate must not run, got %d calls", gen.calls)
	}
}

func TestRunGenerateRequiresTarget(t *testing.T) {
	withStubModule(t, &stubImport{}, &stubGenerate{})
	if err := runGenerate(nil); err == nil {
		t.Fatalf("expected -file or -code error")
	}
}
