package courseparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-courseware/pkg/interfaces"
)

// titleWindow bounds how far into the document a heading may sit and still be
// taken as the course title.
const titleWindow = 5

// tableLookahead bounds how many lines after a structure header are searched
// for module table rows.
const tableLookahead = 20

var titleMarkers = []string{"Corso di", "Social Media Marketing", "Course"}

var tableHeaderMarkers = []string{"struttura del corso", "moduli e ore", "course structure"}

var (
	titleLabelPattern       = regexp.MustCompile(`(?i)(?:titolo(?: del)? corso|course title)\s*:[\s*_]*(.+)`)
	descriptionLabelPattern = regexp.MustCompile(`(?i)^[\s*_-]*(?:descrizione|description)\s*:[\s*_]*(.+)`)
	durationLabelPattern    = regexp.MustCompile(`(?i)\b(?:durata|duration)\s*:`)
	hoursWordPattern        = regexp.MustCompile(`(?i)\b(?:ore|hours?)\b`)
	totalLabelPattern       = regexp.MustCompile(`(?i)(?:durata totale|total duration)\s*:[\s*_]*(\d+)\s*(?:ore|hours?)\b`)
	theoryLabelPattern      = regexp.MustCompile(`(?i)\b(?:teoria|theory)\s*:[\s*_]*(\d+)\s*(?:ore|hours?)\b`)
	practiceLabelPattern    = regexp.MustCompile(`(?i)\b(?:laboratorio|pratica|practice|lab)\s*:[\s*_]*(\d+)\s*(?:ore|hours?)\b`)
	tableRowPattern         = regexp.MustCompile(`^\|\s*(\d+)\s*\|\s*(.+?)\s*\|\s*(\d+)\s*\|\s*(\d+)\s*\|\s*(\d+)\s*\|(?:\s*([^|]*?)\s*\|)?`)
	moduleHeadingPattern    = regexp.MustCompile(`(?i)^(#{1,6})\s*(?:modulo|module)\s+(\d+)\b(.*)$`)
	orderedMarkerPattern    = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s*`)
	totalHoursPattern       = regexp.MustCompile(`(?i)(\d+)\s*(?:ore|hours?)\b`)
)

// hourPattern pairs a duration phrasing with the fields it fills. Lists of
// hour patterns are tried in order and the first match wins.
type hourPattern struct {
	name  string
	re    *regexp.Regexp
	apply func(target hourTarget, numbers []int)
}

// hourTarget receives the numbers captured by an hourPattern.
type hourTarget interface {
	setHours(total, theory, practice *int)
}

type metadataHours struct{ meta *interfaces.CourseMetadata }

func (m metadataHours) setHours(total, theory, practice *int) {
	if total != nil {
		m.meta.TotalHours = *total
	}
	if theory != nil {
		m.meta.TheoryHours = *theory
	}
	if practice != nil {
		m.meta.PracticeHours = *practice
	}
}

type moduleHours struct{ module *ModuleRecord }

func (m moduleHours) setHours(total, theory, practice *int) {
	if total != nil {
		m.module.DurationTotal = *total
	}
	if theory != nil {
		m.module.DurationTheory = *theory
	}
	if practice != nil {
		m.module.DurationPractice = *practice
	}
}

func setSplit(target hourTarget, numbers []int) {
	target.setHours(&numbers[0], &numbers[1], &numbers[2])
}

func setTotal(target hourTarget, numbers []int) {
	target.setHours(&numbers[0], nil, nil)
}

// documentHourPatterns read course-level "Durata:" lines.
var documentHourPatterns = []hourPattern{
	{
		name:  "total_theory_lab",
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:ore|hours?)\b.*?\((\d+).*?(?:teoria|theory).*?(\d+).*?(?:laboratorio|lab)`),
		apply: setSplit,
	},
	{
		name:  "total_theory_practice",
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:ore|hours?)\b.*?\((\d+).*?(?:teoria|theory).*?(\d+).*?(?:pratica|practice)`),
		apply: setSplit,
	},
	{
		name:  "total_only",
		re:    totalHoursPattern,
		apply: setTotal,
	},
}

// moduleHourPatterns read "Durata:" lines inside a module block.
var moduleHourPatterns = []hourPattern{
	{
		name:  "module_split",
		re:    regexp.MustCompile(`(?i)(\d+)\s*(?:ore|hours?)\b.*?(\d+).*?(?:teoria|theory).*?(\d+).*?(?:laboratorio|lab|pratica|practice)`),
		apply: setSplit,
	},
	{
		name:  "module_total",
		re:    totalHoursPattern,
		apply: setTotal,
	},
}

// applyHourPatterns runs patterns in order against line and reports the name
// of the first one that matched.
func applyHourPatterns(patterns []hourPattern, line string, target hourTarget) (string, bool) {
	for _, pattern := range patterns {
		match := pattern.re.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		numbers, ok := atoiAll(match[1:])
		if !ok {
			continue
		}
		pattern.apply(target, numbers)
		return pattern.name, true
	}
	return "", false
}

// lineInput is one line of the document as seen by the structured rules.
type lineInput struct {
	index int
	// line is the trimmed source line.
	line string
	// clean is line without stray backslashes left by legacy decoding.
	clean string
}

// lineRule is one entry of the structured extractor's rule table. Rules run
// top to bottom for every line; a rule whose apply returns true consumes the
// line and stops evaluation.
type lineRule struct {
	name  string
	when  func(*structuredState, lineInput) bool
	apply func(*structuredState, lineInput) bool
}

var structuredRules = []lineRule{
	{name: "course_title", when: isTitleHeading, apply: applyTitleHeading},
	{name: "course_title_label", when: hasTitleLabel, apply: applyTitleLabel},
	{name: "course_description_label", when: hasDescriptionLabel, apply: applyDescriptionLabel},
	{name: "course_duration", when: isCourseDuration, apply: applyCourseDuration},
	{name: "course_total_label", when: atDocumentScope, apply: labelApplier(totalLabelPattern, func(m *interfaces.CourseMetadata, v int) { m.TotalHours = v })},
	{name: "course_theory_label", when: atDocumentScope, apply: labelApplier(theoryLabelPattern, func(m *interfaces.CourseMetadata, v int) { m.TheoryHours = v })},
	{name: "course_practice_label", when: atDocumentScope, apply: labelApplier(practiceLabelPattern, func(m *interfaces.CourseMetadata, v int) { m.PracticeHours = v })},
	{name: "module_table", when: isTableHeader, apply: applyModuleTable},
	{name: "module_heading", when: isModuleHeading, apply: applyModuleHeading},
	{name: "module_duration", when: isModuleDuration, apply: applyModuleDuration},
	{name: "module_boundary", when: isModuleBoundary, apply: applyModuleBoundary},
	{name: "module_subsection", when: isModuleSubsection, apply: applyModuleSubsection},
	{name: "module_content", when: hasModuleContent, apply: applyModuleContent},
}

func atDocumentScope(s *structuredState, _ lineInput) bool {
	return s.current == nil
}

func isTitleHeading(s *structuredState, in lineInput) bool {
	if in.index >= titleWindow || s.meta.Name != "" || !strings.HasPrefix(in.clean, "#") {
		return false
	}
	return containsAny(in.clean, titleMarkers)
}

func applyTitleHeading(s *structuredState, in lineInput) bool {
	s.meta.Name = headingText(in.clean)
	return false
}

func hasTitleLabel(_ *structuredState, in lineInput) bool {
	return titleLabelPattern.MatchString(in.clean)
}

func applyTitleLabel(s *structuredState, in lineInput) bool {
	match := titleLabelPattern.FindStringSubmatch(in.clean)
	if name := trimEmphasis(match[1]); name != "" {
		s.meta.Name = name
	}
	return false
}

func hasDescriptionLabel(s *structuredState, in lineInput) bool {
	return s.current == nil && s.meta.Description == "" && descriptionLabelPattern.MatchString(in.clean)
}

func applyDescriptionLabel(s *structuredState, in lineInput) bool {
	match := descriptionLabelPattern.FindStringSubmatch(in.clean)
	s.meta.Description = trimEmphasis(match[1])
	return false
}

func isCourseDuration(s *structuredState, in lineInput) bool {
	return s.current == nil && durationLabelPattern.MatchString(in.clean) && hoursWordPattern.MatchString(in.clean)
}

func applyCourseDuration(s *structuredState, in lineInput) bool {
	applyHourPatterns(documentHourPatterns, in.clean, metadataHours{meta: &s.meta})
	return false
}

func labelApplier(pattern *regexp.Regexp, set func(*interfaces.CourseMetadata, int)) func(*structuredState, lineInput) bool {
	return func(s *structuredState, in lineInput) bool {
		match := pattern.FindStringSubmatch(in.clean)
		if match == nil {
			return false
		}
		if value, err := strconv.Atoi(match[1]); err == nil {
			set(&s.meta, value)
		}
		return false
	}
}

func isTableHeader(_ *structuredState, in lineInput) bool {
	return containsAny(strings.ToLower(in.line), tableHeaderMarkers)
}

func applyModuleTable(s *structuredState, in lineInput) bool {
	end := min(in.index+tableLookahead, len(s.lines))
	for j := in.index; j < end; j++ {
		match := tableRowPattern.FindStringSubmatch(s.lines[j])
		if match == nil {
			continue
		}
		numbers, ok := atoiAll([]string{match[1], match[3], match[4], match[5]})
		if !ok {
			continue
		}
		s.upsertFromTable(numbers[0], cleanTitle(match[2]), numbers[1], numbers[2], numbers[3], splitActivities(match[6]))
	}
	return false
}

func isModuleHeading(_ *structuredState, in lineInput) bool {
	return moduleHeadingPattern.MatchString(in.line)
}

func applyModuleHeading(s *structuredState, in lineInput) bool {
	match := moduleHeadingPattern.FindStringSubmatch(in.line)
	order, err := strconv.Atoi(match[2])
	if err != nil {
		order = len(s.modules) + 1
	}
	title := cleanTitle(strings.TrimLeft(strings.TrimSpace(match[3]), "-–—: \t"))
	s.openModule(order, title, len(match[1]))
	return true
}

func isModuleDuration(s *structuredState, in lineInput) bool {
	return s.current != nil && durationLabelPattern.MatchString(in.clean)
}

func applyModuleDuration(s *structuredState, in lineInput) bool {
	if !s.current.fromTable {
		applyHourPatterns(moduleHourPatterns, in.clean, moduleHours{module: s.current})
	}
	return true
}

func isModuleBoundary(s *structuredState, in lineInput) bool {
	if s.current == nil {
		return false
	}
	level := headingLevel(in.line)
	if level == 0 || level > s.moduleLevel {
		return false
	}
	return len(in.line) == level || in.line[level] == ' '
}

// applyModuleBoundary handles non-module headings at or above the module
// level: a shallower heading ends the module block; a sibling heading only
// resets the section so its lines are dropped.
func applyModuleBoundary(s *structuredState, in lineInput) bool {
	if headingLevel(in.line) < s.moduleLevel {
		s.current = nil
	}
	s.section = sectionNone
	return true
}

func isModuleSubsection(s *structuredState, in lineInput) bool {
	return s.current != nil && headingLevel(in.line) > s.moduleLevel
}

func applyModuleSubsection(s *structuredState, in lineInput) bool {
	section, ok := matchSection(moduleSectionKeywords, headingText(in.line))
	if !ok {
		section = sectionNone
	}
	s.section = section
	return true
}

func hasModuleContent(s *structuredState, in lineInput) bool {
	return s.current != nil && in.line != ""
}

func applyModuleContent(s *structuredState, in lineInput) bool {
	module := s.current
	switch s.section {
	case sectionObjectives:
		if !orderedMarkerPattern.MatchString(in.line) {
			break
		}
		item := cleanTitle(orderedMarkerPattern.ReplaceAllString(in.line, ""))
		if item != "" {
			module.Objectives = append(module.Objectives, item)
		}
	case sectionTheory:
		module.ContentTheory += in.line + "\n"
	case sectionPractice:
		module.ContentPractice += in.line + "\n"
	}
	return true
}

// cleanTitle trims whitespace and trailing backslashes left by legacy line breaks.
func cleanTitle(value string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(value), `\`))
}

func trimEmphasis(value string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*_ \t"))
}

func splitActivities(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func atoiAll(values []string) ([]int, bool) {
	out := make([]int, 0, len(values))
	for _, value := range values {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
