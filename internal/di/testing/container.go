package ditesting

import (
	"testing"

	"github.com/goliatone/go-courseware/internal/di"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
)

// NewContainer builds a memory-backed container reading sources from
// sourceDir and writing handouts to the returned MemoryWriter.
func NewContainer(t testing.TB, sourceDir string, opts ...di.Option) (*di.Container, *MemoryWriter) {
	t.Helper()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Ingest.SourceDir = sourceDir
	cfg.Generator.Timestamp = false

	writer := NewMemoryWriter()
	all := append([]di.Option{di.WithGeneratorWriter(writer)}, opts...)
	container, err := di.NewContainer(cfg, all...)
	if err != nil {
		t.Fatalf("ditesting: new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container, writer
}
