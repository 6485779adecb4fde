package courseparse

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// moduleSection identifies where body lines inside a module block go.
type moduleSection int

const (
	sectionNone moduleSection = iota
	sectionObjectives
	sectionTheory
	sectionPractice
	sectionResults
)

var moduleSectionKeywords = []sectionKeywords[moduleSection]{
	{sectionObjectives, []string{"obiettiv", "objective"}},
	{sectionTheory, []string{"contenuti teorici", "contenuto teorico", "teoric", "theor"}},
	{sectionPractice, []string{"attivit", "laborator", "pratic", "activit", "practic", "hands-on"}},
	{sectionResults, []string{"risultati", "result", "outcome"}},
}

type structuredState struct {
	lines []string
	meta  interfaces.CourseMetadata

	modules []*ModuleRecord
	byOrder map[int]*ModuleRecord

	current     *ModuleRecord
	moduleLevel int
	section     moduleSection
}

func newStructuredState(lines []string, code string) *structuredState {
	return &structuredState{
		lines: lines,
		meta: interfaces.CourseMetadata{
			Code:          code,
			TotalHours:    interfaces.DefaultTotalHours,
			TheoryHours:   interfaces.DefaultTheoryHours,
			PracticeHours: interfaces.DefaultPracticeHours,
		},
		byOrder: map[int]*ModuleRecord{},
	}
}

// module returns the record for order, creating it on first reference.
func (s *structuredState) module(order int, title string) *ModuleRecord {
	if existing, ok := s.byOrder[order]; ok {
		if existing.Title == "" {
			existing.Title = title
		}
		return existing
	}
	record := newModuleRecord(order, title)
	s.byOrder[order] = record
	s.modules = append(s.modules, record)
	return record
}

func (s *structuredState) openModule(order int, title string, level int) {
	s.current = s.module(order, title)
	s.moduleLevel = level
	s.section = sectionNone
}

func (s *structuredState) upsertFromTable(order int, title string, total, theory, practice int, activities []string) {
	record := s.module(order, title)
	record.DurationTotal = total
	record.DurationTheory = theory
	record.DurationPractice = practice
	record.fromTable = true
	if len(activities) > 0 {
		record.Activities = activities
	}
}

// sortedModules orders modules by number; undeclared (zero) orders go last
// and ties keep document order.
func (s *structuredState) sortedModules() []*ModuleRecord {
	out := make([]*ModuleRecord, len(s.modules))
	copy(out, s.modules)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Order, out[j].Order
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	return out
}

func (s *structuredState) scan() {
	for index, line := range s.lines {
		in := lineInput{
			index: index,
			line:  line,
			clean: strings.ReplaceAll(line, `\`, ""),
		}
		for _, rule := range structuredRules {
			if !rule.when(s, in) {
				continue
			}
			if rule.apply(s, in) {
				break
			}
		}
	}
}

// extraction is the full outcome of one structured pass.
type extraction struct {
	metadata interfaces.CourseMetadata
	lessons  []interfaces.LessonRecord
	strategy interfaces.ExtractionStrategy
	modules  int
}

func extractCourse(text, filename string, labels Labels) extraction {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	state := newStructuredState(lines, CourseCode(filename))
	state.scan()

	if len(state.modules) == 0 {
		return extraction{
			metadata: state.meta,
			lessons:  ExtractLessons(text),
			strategy: interfaces.StrategyFlat,
		}
	}

	lessons := make([]interfaces.LessonRecord, 0, len(state.modules)*2)
	for _, module := range state.sortedModules() {
		lessons = append(lessons, SplitModule(*module, labels, len(lessons)+1)...)
	}

	return extraction{
		metadata: state.meta,
		lessons:  lessons,
		strategy: interfaces.StrategyStructured,
		modules:  len(state.modules),
	}
}

// ExtractCourse runs the structured extractor with the default labels. When
// the document declares no modules, lessons come from ExtractLessons while the
// metadata found by the structured pass is still returned.
func ExtractCourse(text, filename string) (interfaces.CourseMetadata, []interfaces.LessonRecord) {
	result := extractCourse(text, filename, ItalianLabels)
	return result.metadata, result.lessons
}

// CourseCode derives a course code from a source filename: the base name
// without its ".md" extension, uppercased.
func CourseCode(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if strings.HasSuffix(strings.ToLower(base), ".md") {
		base = base[:len(base)-len(".md")]
	}
	return strings.ToUpper(base)
}
