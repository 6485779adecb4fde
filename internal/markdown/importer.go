package markdown

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/logging"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

var ErrCourseServiceRequired = errors.New("course importer: course service is required")

// CourseStore is the slice of courses.Service the importer needs.
type CourseStore interface {
	ImportCourse(ctx context.Context, input courses.ImportCourseInput) (*courses.ImportCourseResult, error)
	GetCourseByCode(ctx context.Context, code string) (*courses.Course, error)
}

// ImporterConfig wires the importer dependencies.
type ImporterConfig struct {
	Courses CourseStore
	Logger  interfaces.Logger
}

// ImportOptions tune a batch import.
type ImportOptions struct {
	// Overwrite replaces courses whose code already exists.
	Overwrite bool
	// SkipUnchanged leaves a stored course alone when its source checksum
	// matches the document's.
	SkipUnchanged bool
	// DryRun parses and classifies without writing.
	DryRun bool
}

// Conflict records a document whose code is already taken.
type Conflict struct {
	FilePath string
	Code     string
	CourseID uuid.UUID
}

// ImportResult summarises a batch import.
type ImportResult struct {
	Created   []uuid.UUID
	Updated   []uuid.UUID
	Skipped   []uuid.UUID
	Conflicts []Conflict
	Errors    []error
}

// Importer hands parsed course documents to the course store.
type Importer struct {
	courses CourseStore
	logger  interfaces.Logger
}

// NewImporter builds an Importer.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{courses: cfg.Courses, logger: logger}
}

// ImportDocument imports a single document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.CourseDocument, opts ImportOptions) (*ImportResult, error) {
	return i.ImportDocuments(ctx, []*interfaces.CourseDocument{doc}, opts)
}

// ImportDocuments imports docs in order. Every document is attempted; the
// first failure is returned alongside the full result.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.CourseDocument, opts ImportOptions) (*ImportResult, error) {
	if i.courses == nil {
		return nil, ErrCourseServiceRequired
	}
	acc := newImportAccumulator()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			acc.addError(err)
			break
		}
		if doc == nil {
			continue
		}
		if err := i.importOne(ctx, doc, opts, acc); err != nil {
			acc.addError(fmt.Errorf("course importer: %s: %w", doc.FilePath, err))
		}
	}
	return acc.result(), firstError(acc.errors)
}

func (i *Importer) importOne(ctx context.Context, doc *interfaces.CourseDocument, opts ImportOptions, acc *importAccumulator) error {
	code := doc.Course.Metadata.Code
	logger := logging.WithCourseContext(i.logger, code, doc.FilePath, "import")

	if opts.SkipUnchanged || opts.DryRun {
		existing, err := i.courses.GetCourseByCode(ctx, code)
		if err != nil && !errors.Is(err, courses.ErrCourseNotFound) {
			return err
		}
		if existing != nil {
			unchanged := Unchanged(existing, doc)
			if opts.DryRun || (opts.SkipUnchanged && unchanged) {
				logger.Debug("ingest.import.skipped", "course_id", existing.ID, "unchanged", unchanged)
				acc.skip(existing.ID)
				return nil
			}
		} else if opts.DryRun {
			return nil
		}
	}

	result, err := i.courses.ImportCourse(ctx, courses.ImportCourseInput{
		SourceFile: doc.FilePath,
		Checksum:   hex.EncodeToString(doc.Checksum),
		Course:     doc.Course,
		Overwrite:  opts.Overwrite,
	})
	var exists *courses.CourseExistsError
	if errors.As(err, &exists) {
		logger.Warn("ingest.import.conflict", "course_id", exists.CourseID)
		acc.conflict(Conflict{FilePath: doc.FilePath, Code: exists.Code, CourseID: exists.CourseID})
		return err
	}
	if err != nil {
		return err
	}
	if result.Created {
		acc.created(result.Course.ID)
	} else {
		acc.updated(result.Course.ID)
	}
	return nil
}

// Unchanged reports whether doc has the checksum recorded on course.
func Unchanged(course *courses.Course, doc *interfaces.CourseDocument) bool {
	if course == nil || doc == nil || len(doc.Checksum) == 0 {
		return false
	}
	stored, err := hex.DecodeString(course.SourceChecksum)
	return err == nil && bytes.Equal(stored, doc.Checksum)
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	conflicts  []Conflict
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) conflict(c Conflict) {
	a.conflicts = append(a.conflicts, c)
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *ImportResult {
	return &ImportResult{
		Created:   a.createdIDs,
		Updated:   a.updatedIDs,
		Skipped:   a.skippedIDs,
		Conflicts: a.conflicts,
		Errors:    a.errors,
	}
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
