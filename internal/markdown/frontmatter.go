package markdown

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-courseware/internal/validation"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

var (
	frontMatterDelimiters = [][]byte{[]byte("---"), []byte("+++")}
	byteOrderMark         = []byte("\xef\xbb\xbf")
)

// CourseFrontMatter holds the recognised header keys. Pointer hours separate
// "absent" from an explicit zero.
type CourseFrontMatter struct {
	Code          string
	Name          string
	Description   string
	TotalHours    *int
	TheoryHours   *int
	PracticeHours *int
	// Raw keeps every decoded key, including unrecognised ones.
	Raw map[string]any
}

type frontMatterEnvelope struct {
	Code          any            `yaml:"code" toml:"code"`
	Name          any            `yaml:"name" toml:"name"`
	Description   any            `yaml:"description" toml:"description"`
	TotalHours    any            `yaml:"total_hours" toml:"total_hours"`
	TheoryHours   any            `yaml:"theory_hours" toml:"theory_hours"`
	PracticeHours any            `yaml:"practice_hours" toml:"practice_hours"`
	Extra         map[string]any `yaml:",inline" toml:"-"`
}

// HasFrontMatter reports whether source opens with a YAML or TOML delimiter
// line. Legacy rich-text buffers never qualify.
func HasFrontMatter(source []byte) bool {
	trimmed := bytes.TrimPrefix(source, byteOrderMark)
	for _, delim := range frontMatterDelimiters {
		if !bytes.HasPrefix(trimmed, delim) {
			continue
		}
		rest := trimmed[len(delim):]
		if len(rest) == 0 || rest[0] == '\n' || rest[0] == '\r' {
			return true
		}
	}
	return false
}

// ParseFrontMatter splits source into its front matter and body. A source
// without front matter returns a nil header and the input unchanged. The
// header is checked against validation.CourseFrontMatterSchema; on failure the
// body is still returned together with the validation error.
func ParseFrontMatter(source []byte) (*CourseFrontMatter, []byte, error) {
	if !HasFrontMatter(source) {
		return nil, source, nil
	}

	var env frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(bytes.TrimPrefix(source, byteOrderMark)), &env)
	if err != nil {
		return nil, source, fmt.Errorf("parse frontmatter: %w", err)
	}

	payload := env.payload()
	if err := validation.ValidateCourseFrontMatter(payload); err != nil {
		return nil, body, fmt.Errorf("frontmatter: %w", err)
	}
	return env.toFrontMatter(payload), body, nil
}

func (env frontMatterEnvelope) payload() map[string]any {
	payload := make(map[string]any, len(env.Extra)+6)
	for key, value := range env.Extra {
		payload[key] = value
	}
	for key, value := range map[string]any{
		"code":           env.Code,
		"name":           env.Name,
		"description":    env.Description,
		"total_hours":    env.TotalHours,
		"theory_hours":   env.TheoryHours,
		"practice_hours": env.PracticeHours,
	} {
		if value != nil {
			payload[key] = value
		}
	}
	return payload
}

// toFrontMatter assumes payload already passed schema validation.
func (env frontMatterEnvelope) toFrontMatter(payload map[string]any) *CourseFrontMatter {
	return &CourseFrontMatter{
		Code:          stringField(env.Code),
		Name:          stringField(env.Name),
		Description:   stringField(env.Description),
		TotalHours:    intField(env.TotalHours),
		TheoryHours:   intField(env.TheoryHours),
		PracticeHours: intField(env.PracticeHours),
		Raw:           payload,
	}
}

// Apply overlays the header onto meta. Blank strings and absent hours leave
// the extracted values in place.
func (fm *CourseFrontMatter) Apply(meta interfaces.CourseMetadata) interfaces.CourseMetadata {
	if fm == nil {
		return meta
	}
	if code := strings.TrimSpace(fm.Code); code != "" {
		meta.Code = strings.ToUpper(code)
	}
	if name := strings.TrimSpace(fm.Name); name != "" {
		meta.Name = name
	}
	if description := strings.TrimSpace(fm.Description); description != "" {
		meta.Description = description
	}
	if fm.TotalHours != nil {
		meta.TotalHours = *fm.TotalHours
	}
	if fm.TheoryHours != nil {
		meta.TheoryHours = *fm.TheoryHours
	}
	if fm.PracticeHours != nil {
		meta.PracticeHours = *fm.PracticeHours
	}
	return meta
}

func stringField(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func intField(value any) *int {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case uint64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		n = int(v)
	default:
		return nil
	}
	return &n
}
