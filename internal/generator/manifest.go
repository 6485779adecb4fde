package generator

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"
)

const (
	manifestFileName    = ".generator-manifest.json"
	manifestFileVersion = 1
)

// courseManifest records the checksum of every file written for a course so
// incremental runs can leave unchanged files alone.
type courseManifest struct {
	Version     int                     `json:"version"`
	CourseID    string                  `json:"course_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Files       map[string]manifestFile `json:"files"`
}

type manifestFile struct {
	Path     string    `json:"path"`
	Category string    `json:"category"`
	Checksum string    `json:"checksum"`
	Size     int       `json:"size"`
	Written  time.Time `json:"written_at"`
}

func newCourseManifest(courseID string) *courseManifest {
	return &courseManifest{
		Version:  manifestFileVersion,
		CourseID: courseID,
		Files:    map[string]manifestFile{},
	}
}

func manifestPath(dir string) string {
	return path.Join(dir, manifestFileName)
}

func parseManifest(data []byte) (*courseManifest, error) {
	if len(data) == 0 {
		return newCourseManifest(""), nil
	}
	var wire struct {
		Version     int            `json:"version"`
		CourseID    string         `json:"course_id"`
		GeneratedAt time.Time      `json:"generated_at"`
		Files       []manifestFile `json:"files"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	manifest := newCourseManifest(wire.CourseID)
	manifest.GeneratedAt = wire.GeneratedAt
	if wire.Version != 0 {
		manifest.Version = wire.Version
	}
	for _, file := range wire.Files {
		manifest.Files[file.Path] = file
	}
	return manifest, nil
}

// unchanged reports whether path was last written with checksum.
func (m *courseManifest) unchanged(path, checksum string) bool {
	if m == nil {
		return false
	}
	entry, ok := m.Files[path]
	return ok && entry.Checksum == checksum
}

func (m *courseManifest) record(entry manifestFile) {
	m.Files[entry.Path] = entry
}

func (m *courseManifest) marshal() ([]byte, error) {
	files := make([]manifestFile, 0, len(m.Files))
	for _, entry := range m.Files {
		files = append(files, entry)
	}
	// Stable ordering for deterministic output.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return json.MarshalIndent(struct {
		Version     int            `json:"version"`
		CourseID    string         `json:"course_id"`
		GeneratedAt time.Time      `json:"generated_at"`
		Files       []manifestFile `json:"files"`
	}{
		Version:     m.Version,
		CourseID:    m.CourseID,
		GeneratedAt: m.GeneratedAt,
		Files:       files,
	}, "", "  ")
}
