package courseparse

import "strings"

// Labels holds the strings used when module records are split into lessons.
// Description templates receive the module order as their only verb.
type Labels struct {
	TheorySuffix        string
	PracticeSuffix      string
	TheoryDescription   string
	PracticeDescription string
}

// ItalianLabels matches the vocabulary of the source documents and is the default.
var ItalianLabels = Labels{
	TheorySuffix:        "Parte Teorica",
	PracticeSuffix:      "Parte Pratica",
	TheoryDescription:   "Parte teorica del modulo %d",
	PracticeDescription: "Parte pratica del modulo %d",
}

// EnglishLabels is offered for hosts that publish English course catalogues.
var EnglishLabels = Labels{
	TheorySuffix:        "Theoretical Part",
	PracticeSuffix:      "Practical Part",
	TheoryDescription:   "Theoretical part of module %d",
	PracticeDescription: "Practical part of module %d",
}

// LabelsFor resolves a preset by language code, defaulting to Italian.
func LabelsFor(lang string) Labels {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "english":
		return EnglishLabels
	default:
		return ItalianLabels
	}
}

func (l Labels) withDefaults() Labels {
	if strings.TrimSpace(l.TheorySuffix) == "" {
		l.TheorySuffix = ItalianLabels.TheorySuffix
	}
	if strings.TrimSpace(l.PracticeSuffix) == "" {
		l.PracticeSuffix = ItalianLabels.PracticeSuffix
	}
	if strings.TrimSpace(l.TheoryDescription) == "" {
		l.TheoryDescription = ItalianLabels.TheoryDescription
	}
	if strings.TrimSpace(l.PracticeDescription) == "" {
		l.PracticeDescription = ItalianLabels.PracticeDescription
	}
	return l
}
