package di_test

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

func TestContainerRoutesModuleLoggersThroughProvider(t *testing.T) {
	var sink logSink
	container, err := di.NewContainer(testConfig(t), di.WithLoggerProvider(&sink))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != &sink {
		t.Fatalf("expected injected provider to be kept")
	}

	importCucina(t, container)

	fields, ok := sink.lookup("courses.command.import.completed")
	if !ok {
		t.Fatalf("expected import completion entry, got %v", sink.messages())
	}
	if fields["module"] != "courseware.commands.courses" || fields["created_count"] != 1 {
		t.Fatalf("unexpected completion fields %#v", fields)
	}

	if _, ok := sink.lookup("courses.import.completed"); !ok {
		t.Fatalf("expected course service entry, got %v", sink.messages())
	}
}

type logLine struct {
	msg    string
	fields map[string]any
}

// logSink is a LoggerProvider whose loggers append to a shared slice.
type logSink struct {
	lines []logLine
}

func (s *logSink) GetLogger(name string) interfaces.Logger {
	return sinkLogger{sink: s, fields: map[string]any{"logger": name}}
}

func (s *logSink) lookup(msg string) (map[string]any, bool) {
	for _, line := range s.lines {
		if line.msg == msg {
			return line.fields, true
		}
	}
	return nil, false
}

func (s *logSink) messages() []string {
	out := make([]string, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, line.msg)
	}
	return out
}

type sinkLogger struct {
	sink   *logSink
	fields map[string]any
}

func (l sinkLogger) Trace(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Debug(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Info(msg string, args ...any)  { l.write(msg, args) }
func (l sinkLogger) Warn(msg string, args ...any)  { l.write(msg, args) }
func (l sinkLogger) Error(msg string, args ...any) { l.write(msg, args) }
func (l sinkLogger) Fatal(msg string, args ...any) { l.write(msg, args) }

func (l sinkLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l sinkLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return sinkLogger{sink: l.sink, fields: merged}
}

func (l sinkLogger) write(msg string, args []any) {
	fields := maps.Clone(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	l.sink.lines = append(l.sink.lines, logLine{msg: msg, fields: fields})
}
