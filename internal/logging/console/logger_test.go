package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/internal/logging/console"
)

var fixedNow = time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

func TestConsoleLoggerWritesTextEntry(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return fixedNow },
	})

	logger := logging.WithFields(provider.GetLogger("courseware.courses"), map[string]any{"module": "courseware.courses"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"run_id": "run-1"})
	logger = logger.WithContext(ctx)

	courseID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("courses.import.completed",
		"course_id", courseID,
		"lessons", 6,
		"source_file", "smm course.md",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO courses.import.completed course_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 lessons=6 logger=courseware.courses module=courseware.courses run_id=run-1 source_file="smm course.md"`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("courseware.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return fixedNow },
		Format:   console.FormatJSON,
	})

	provider.GetLogger("courseware.ingest").Warn("frontmatter.invalid", "error", errors.New("bad code"), "dangling")

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if payload["level"] != "WARN" || payload["msg"] != "frontmatter.invalid" {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if payload["error"] != "bad code" {
		t.Fatalf("expected error to be rendered as text, got %#v", payload["error"])
	}
	if payload["arg_1"] != "dangling" {
		t.Fatalf("expected trailing value under a positional key, got %#v", payload)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}
