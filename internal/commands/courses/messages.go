package coursescmd

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-courseware/internal/courses"
	"github.com/goliatone/go-courseware/internal/generator"
	"github.com/goliatone/go-courseware/internal/markdown"
)

const (
	importCoursesMessageType  = "courseware.courses.import"
	replaceLessonsMessageType = "courseware.courses.replace_lessons"
	generateCourseMessageType = "courseware.courses.generate"
	deleteCourseMessageType   = "courseware.courses.delete"
)

// ImportCoursesCommand imports course sources either from Directory or from
// the explicit Files list, relative to the configured source directory.
type ImportCoursesCommand struct {
	Directory string   `json:"directory,omitempty"`
	Files     []string `json:"files,omitempty"`
	// Overwrite replaces courses whose code already exists, including all of
	// their lessons.
	Overwrite     bool `json:"overwrite,omitempty"`
	SkipUnchanged bool `json:"skip_unchanged,omitempty"`
	DryRun        bool `json:"dry_run,omitempty"`
	// Report receives the import summary, also when the import fails.
	Report func(*markdown.ImportResult) `json:"-"`
}

// Type implements command.Message.
func (ImportCoursesCommand) Type() string { return importCoursesMessageType }

// Validate requires a directory or at least one markdown file.
func (cmd ImportCoursesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.When(len(cmd.Files) == 0,
			validation.Required.Error("directory or files are required"))),
		validation.Field(&cmd.Files, validation.Each(validation.Required, validation.By(markdownFile))),
	)
}

// ReplaceLessonsCommand swaps the lessons of CourseID for the lessons found in
// an uploaded markdown file.
type ReplaceLessonsCommand struct {
	CourseID uuid.UUID             `json:"course_id"`
	Filename string                `json:"filename"`
	Source   []byte                `json:"source"`
	Report   func(*courses.Course) `json:"-"`
}

// Type implements command.Message.
func (ReplaceLessonsCommand) Type() string { return replaceLessonsMessageType }

// Validate ensures the target course and a markdown upload are present.
func (cmd ReplaceLessonsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.CourseID, validation.By(requiredUUID)),
		validation.Field(&cmd.Filename, validation.Required, validation.By(markdownFile)),
	)
}

// GenerateCourseCommand writes the handout files of a stored course, looked
// up by CourseID or, when that is empty, by Code.
type GenerateCourseCommand struct {
	CourseID uuid.UUID               `json:"course_id,omitempty"`
	Code     string                  `json:"code,omitempty"`
	Report   func(*generator.Result) `json:"-"`
}

// Type implements command.Message.
func (GenerateCourseCommand) Type() string { return generateCourseMessageType }

// Validate requires a course id or code.
func (cmd GenerateCourseCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Code, validation.When(cmd.CourseID == uuid.Nil,
			validation.Required.Error("course id or code is required"))),
	)
}

// DeleteCourseCommand removes a course and its lessons.
type DeleteCourseCommand struct {
	CourseID uuid.UUID `json:"course_id"`
}

// Type implements command.Message.
func (DeleteCourseCommand) Type() string { return deleteCourseMessageType }

// Validate ensures the course id is present.
func (cmd DeleteCourseCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.CourseID, validation.By(requiredUUID)),
	)
}

func requiredUUID(value any) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("courseware.courses.course_id_required", "course id is required")
	}
	return nil
}

func markdownFile(value any) error {
	name, _ := value.(string)
	if strings.TrimSpace(name) == "" {
		return nil
	}
	if path.Ext(name) != ".md" {
		return validation.NewError("courseware.courses.markdown_required", "must be a markdown (.md) file")
	}
	return nil
}

func relativeDirectory(value any) error {
	dir, _ := value.(string)
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	clean := path.Clean(strings.ReplaceAll(dir, "\\", "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return validation.NewError("courseware.courses.directory_outside_root", "must stay inside the source directory")
	}
	return nil
}
