package ditesting

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/goliatone/go-courseware/internal/generator"
)

// MemoryWriter records generated files in memory for assertions in tests.
type MemoryWriter struct {
	mu     sync.Mutex
	dirs   map[string]struct{}
	files  map[string][]byte
	writes []generator.WriteRequest
}

var _ generator.ArtifactWriter = (*MemoryWriter)(nil)

// NewMemoryWriter constructs an empty writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		dirs:  map[string]struct{}{},
		files: map[string][]byte{},
	}
}

func (w *MemoryWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *MemoryWriter) WriteFile(ctx context.Context, req generator.WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	content := append([]byte(nil), req.Content...)
	req.Content = content
	w.files[req.Path] = content
	w.writes = append(w.writes, req)
	return nil
}

func (w *MemoryWriter) ReadFile(_ context.Context, path string) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// File returns the content stored at path.
func (w *MemoryWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	return data, ok
}

// Paths lists stored files in lexical order.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Writes returns every WriteFile call in order, including rewrites.
func (w *MemoryWriter) Writes() []generator.WriteRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]generator.WriteRequest(nil), w.writes...)
}
