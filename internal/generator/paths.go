package generator

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

const (
	readmeFileName      = "README.md"
	lessonFileFallback  = "lezione"
	lessonFileExtension = ".md"
)

// ErrInvalidCourseCode is returned for codes that cannot be used as a
// directory name.
var ErrInvalidCourseCode = errors.New("generator: course code is not a valid directory name")

// courseDir returns the slash-separated directory a course is written to,
// relative to the output root.
func courseDir(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" || code == "." || code == ".." || strings.ContainsAny(code, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCourseCode, code)
	}
	return code, nil
}

// lessonFileName builds "NN_<slug>.md". The slug uses underscores so names
// line up with the lesson index in README.md.
func lessonFileName(order int, title string) string {
	name, err := slug.Normalize(title)
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if err != nil || len(words) == 0 {
		words = []string{lessonFileFallback}
	}
	name = strings.Join(words, "_")
	return fmt.Sprintf("%02d_%s%s", order, name, lessonFileExtension)
}

// uniqueName appends a numeric suffix when name was already handed out.
func uniqueName(name string, used map[string]struct{}) string {
	if _, taken := used[name]; !taken {
		used[name] = struct{}{}
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
	}
}
