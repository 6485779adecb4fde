package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"math"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

const defaultPattern = "*.md"

// LoaderConfig configures how course sources are discovered.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. It is only used
	// to relativise absolute paths.
	BasePath string
	// Pattern filters file names (default "*.md").
	Pattern string
	// Recursive walks sub-directories.
	Recursive bool
}

// Loader reads course sources from an fs.FS.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	recursive bool
}

// SourceDocument is a raw source file read by the Loader.
type SourceDocument struct {
	Path     string
	Source   []byte
	Checksum []byte
	Size     int64
	Modified time.Time
}

// LoadParams override LoaderConfig for a single call.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	base := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		base = filepath.Clean(cfg.BasePath)
	}
	return &Loader{
		fs:        filesystem,
		basePath:  base,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads a single source relative to the loader root.
func (l *Loader) LoadFile(ctx context.Context, name string) (*SourceDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("course loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("course loader stat %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	return &SourceDocument{
		Path:     rel,
		Source:   data,
		Checksum: sum[:],
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// LoadDirectory reads every matching source under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, params LoadParams) ([]*SourceDocument, error) {
	var docs []*SourceDocument
	err := l.walk(ctx, dir, params, func(rel string, _ fs.DirEntry) error {
		doc, err := l.LoadFile(ctx, rel)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// List reports the matching sources under dir without reading them.
func (l *Loader) List(ctx context.Context, dir string, params LoadParams) ([]interfaces.SourceFile, error) {
	var files []interfaces.SourceFile
	err := l.walk(ctx, dir, params, func(rel string, entry fs.DirEntry) error {
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("course loader stat %s: %w", rel, err)
		}
		files = append(files, interfaces.SourceFile{
			Filename: rel,
			Size:     info.Size(),
			SizeKB:   sizeKB(info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

func (l *Loader) walk(ctx context.Context, dir string, params LoadParams, visit func(string, fs.DirEntry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	root, err := l.makeRelative(dir)
	if err != nil {
		return err
	}
	recursive := l.recursive
	if params.Recursive != nil {
		recursive = *params.Recursive
	}
	pattern := l.pattern
	if strings.TrimSpace(params.Pattern) != "" {
		pattern = strings.TrimSpace(params.Pattern)
	}

	return fs.WalkDir(l.fs, root, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if current != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesPattern(pattern, current) {
			return nil
		}
		return visit(current, entry)
	})
}

// matchesPattern matches against the base name unless pattern contains a
// separator. A "**/" prefix is treated as "any directory".
func matchesPattern(pattern, name string) bool {
	pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

func (l *Loader) makeRelative(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return ".", nil
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("course loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("course loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	clean = filepath.ToSlash(clean)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("course loader: path %s escapes the source directory", name)
	}
	return clean, nil
}

func sizeKB(size int64) float64 {
	return math.Round(float64(size)/1024*100) / 100
}
