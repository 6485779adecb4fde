package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryReadme   writeCategory = "readme"
	categoryLesson   writeCategory = "lesson"
	categoryManifest writeCategory = "manifest"
)

// WriteRequest describes one generated file. Path is slash-separated and
// relative to the writer root.
type WriteRequest struct {
	Path     string
	Content  []byte
	Category string
	Checksum string
}

// ArtifactWriter persists generated files.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, req WriteRequest) error
	// ReadFile returns an error wrapping fs.ErrNotExist for missing files.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// NewFilesystemWriter writes artifacts below root on the local disk.
func NewFilesystemWriter(root string) ArtifactWriter {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &filesystemWriter{root: filepath.Clean(root)}
}

type filesystemWriter struct {
	root string
}

func (w *filesystemWriter) resolve(name string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("generator: path %q escapes the output directory", name)
	}
	return filepath.Join(w.root, filepath.FromSlash(clean)), nil
}

func (w *filesystemWriter) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := w.resolve(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("generator: create %s: %w", full, err)
	}
	return nil
}

func (w *filesystemWriter) WriteFile(ctx context.Context, req WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	full, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("generator: create %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, req.Content, 0o644); err != nil {
		return fmt.Errorf("generator: write %s: %w", full, err)
	}
	return nil
}

func (w *filesystemWriter) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := w.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("generator: read %s: %w", full, err)
	}
	return data, nil
}
