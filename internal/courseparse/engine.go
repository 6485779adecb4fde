package courseparse

import (
	"github.com/goliatone/go-courseware/internal/legacytext"
	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// Options configures a Parser.
type Options struct {
	// Labels names the lessons produced from module records. Empty fields fall
	// back to ItalianLabels.
	Labels Labels
}

// Parser implements interfaces.CourseParser. The zero value is usable and
// holds no state between calls, so one Parser may serve concurrent callers.
type Parser struct {
	labels Labels
}

var _ interfaces.CourseParser = (*Parser)(nil)

// NewParser constructs a Parser.
func NewParser(opts Options) *Parser {
	return &Parser{labels: opts.Labels.withDefaults()}
}

// Parse decodes source, normalizing it first when it carries the legacy
// rich-text signature, and runs the structured extractor with its flat
// fallback.
func (p *Parser) Parse(source []byte, filename string) interfaces.ParsedCourse {
	legacy := legacytext.IsLegacy(source)
	result := extractCourse(decodeSource(source, legacy), filename, p.labelsOrDefault())
	return interfaces.ParsedCourse{
		Metadata: result.metadata,
		Lessons:  result.lessons,
		Strategy: result.strategy,
		Legacy:   legacy,
		Modules:  result.modules,
	}
}

// ParseLessons runs only the flat extractor over source.
func (p *Parser) ParseLessons(source []byte) []interfaces.LessonRecord {
	return ExtractLessons(decodeSource(source, legacytext.IsLegacy(source)))
}

func (p *Parser) labelsOrDefault() Labels {
	if p == nil {
		return ItalianLabels
	}
	return p.labels.withDefaults()
}

var defaultParser = NewParser(Options{})

// Parse runs the default Parser.
func Parse(source []byte, filename string) interfaces.ParsedCourse {
	return defaultParser.Parse(source, filename)
}

func decodeSource(source []byte, legacy bool) string {
	if legacy {
		return legacytext.Normalize(source)
	}
	return legacytext.Decode(source)
}
