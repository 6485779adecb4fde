package bootstrap

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	coursescmd "github.com/goliatone/go-courseware/internal/commands/courses"
	"github.com/goliatone/go-courseware/internal/runtimeconfig"
)

func TestConfigAppliesFlagOverrides(t *testing.T) {
	cfg, err := Config(Options{
		SourceDir: "sources",
		Labels:    "en",
		DSN:       "file:cli.db",
		OutputDir: "out",
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Ingest.SourceDir != "sources" || cfg.Ingest.Labels != "en" || !cfg.Ingest.Recursive {
		t.Fatalf("unexpected ingest config %+v", cfg.Ingest)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageBun || cfg.Storage.DSN != "file:cli.db" {
		t.Fatalf("expected -dsn to select bun storage, got %+v", cfg.Storage)
	}
	if cfg.Generator.OutputDir != "out" {
		t.Fatalf("unexpected output dir %q", cfg.Generator.OutputDir)
	}
}

func TestConfigKeepsDefaultsWithoutFlags(t *testing.T) {
	cfg, err := Config(Options{})
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageMemory || cfg.Ingest.SourceDir != "MD" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestBuildModuleWiresHandlers(t *testing.T) {
	module, err := BuildModule(Options{
		SourceDir: filepath.Join("..", "..", "..", "..", "internal", "di", "testdata", "sources"),
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if module.Documents == nil || module.Import == nil || module.Generate == nil {
		t.Fatalf("expected documents and handlers, got %+v", module)
	}
	if err := module.Import.Execute(context.Background(), coursescmd.ImportCoursesCommand{Files: []string{"cucina.md"}}); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestSplitFiles(t *testing.T) {
	got := SplitFiles(" a.md, ,b.md ")
	if !reflect.DeepEqual(got, []string{"a.md", "b.md"}) {
		t.Fatalf("unexpected files %v", got)
	}
	if SplitFiles("  ") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
