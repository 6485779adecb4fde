// Package generator exposes the course handout generator for courseware hosts.
// Use NewService with Config to write README.md and one markdown file per
// lesson for a stored course.
package generator

import internal "github.com/goliatone/go-courseware/internal/generator"

type (
	Service        = internal.Service
	Config         = internal.Config
	Result         = internal.Result
	Option         = internal.Option
	ArtifactWriter = internal.ArtifactWriter
	WriteRequest   = internal.WriteRequest
)

var (
	ErrServiceDisabled   = internal.ErrServiceDisabled
	ErrCourseRequired    = internal.ErrCourseRequired
	ErrInvalidCourseCode = internal.ErrInvalidCourseCode
)

var (
	WithWriter = internal.WithWriter
	WithLogger = internal.WithLogger
	WithClock  = internal.WithClock
)

// NewService wires a course generator with the supplied configuration.
func NewService(cfg Config, opts ...Option) Service {
	return internal.NewService(cfg, opts...)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}

// NewFilesystemWriter writes generated files below root.
func NewFilesystemWriter(root string) ArtifactWriter {
	return internal.NewFilesystemWriter(root)
}
