package coursescmd

import (
	"testing"

	"github.com/google/uuid"
)

func TestMessagesValidate(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{"import without source", ImportCoursesCommand{}, true},
		{"import directory", ImportCoursesCommand{Directory: "."}, false},
		{"import files", ImportCoursesCommand{Files: []string{"corso.md"}}, false},
		{"import non markdown file", ImportCoursesCommand{Files: []string{"corso.txt"}}, true},
		{"import blank file", ImportCoursesCommand{Files: []string{""}}, true},
		{"replace without course", ReplaceLessonsCommand{Filename: "lezioni.md"}, true},
		{"replace without filename", ReplaceLessonsCommand{CourseID: id}, true},
		{"replace non markdown", ReplaceLessonsCommand{CourseID: id, Filename: "lezioni.docx"}, true},
		{"replace valid", ReplaceLessonsCommand{CourseID: id, Filename: "lezioni.md"}, false},
		{"generate without target", GenerateCourseCommand{}, true},
		{"generate by code", GenerateCourseCommand{Code: "SMM"}, false},
		{"generate by id", GenerateCourseCommand{CourseID: id}, false},
		{"delete without course", DeleteCourseCommand{}, true},
		{"delete valid", DeleteCourseCommand{CourseID: id}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestMessageTypes(t *testing.T) {
	if (ImportCoursesCommand{}).Type() != "courseware.courses.import" {
		t.Fatalf("unexpected import message type")
	}
	if (GenerateCourseCommand{}).Type() != "courseware.courses.generate" {
		t.Fatalf("unexpected generate message type")
	}
}
