package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/cmd/course/internal/bootstrap"
	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/markdown"
)

type stubImportHandler struct {
	calls  int
	last   coursescmd.ImportCoursesCommand
	result *markdown.ImportResult
	err    error
}

func (s *stubImportHandler) Execute(_ context.Context, msg coursescmd.ImportCoursesCommand) error {
	s.calls++
	s.last = msg
	if msg.Report != nil && s.result != nil {
		msg.Report(s.result)
	}
	return s.err
}

func withStubModule(t *testing.T, handler *stubImportHandler) (*bootstrap.Options, *bytes.Buffer) {
	t.Helper()
	originalBuilder, originalOut := moduleBuilder, stdout
	t.Cleanup(func() { moduleBuilder, stdout = originalBuilder, originalOut })

	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{Import: handler}, nil
	}
	var buf bytes.Buffer
	stdout = &buf
	return &captured, &buf
}

func TestRunImportUsesCommandHandler(t *testing.T) {
	handler := &stubImportHandler{result: &markdown.ImportResult{Created: []uuid.UUID{uuid.New()}}}
	opts, out := withStubModule(t, handler)

	if err := runImport([]string{
		"-source-dir", "MD",
		"-file", "smm.md, cucina.md",
		"-overwrite",
		"-dsn", "file:test.db",
	}); err != nil {
		t.Fatalf("runImport returned error: %v", err)
	}
	if handler.calls != 1 {
		t.Fatalf("expected import to be called once, got %d", handler.calls)
	}
	if len(handler.last.Files) != 2 || handler.last.Files[1] != "cucina.md" || !handler.last.Overwrite {
		t.Fatalf("unexpected command %+v", handler.last)
	}
	if opts.SourceDir != "MD" || opts.DSN != "file:test.db" {
		t.Fatalf("unexpected bootstrap options %+v", opts)
	}
	if !strings.Contains(out.String(), "created: 1") {
		t.Fatalf("expected summary, got %q", out.String())
	}
}

func TestRunImportReportsConflicts(t *testing.T) {
	handler := &stubImportHandler{
		result: &markdown.ImportResult{Conflicts: []markdown.Conflict{{FilePath: "smm.md", Code: "SMM"}}},
		err:    errors.New("course exists"),
	}
	_, out := withStubModule(t, handler)

	err := runImport([]string{"-directory", "archive"})
	if err == nil {
		t.Fatalf("expected import error")
	}
	if handler.last.Directory != "archive" {
		t.Fatalf("expected directory archive, got %q", handler.last.Directory)
	}
	if !strings.Contains(out.String(), "conflict: SMM") {
		t.Fatalf("expected conflict line, got %q", out.String())
	}
}
