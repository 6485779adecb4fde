// Package legacytext recovers plain text from documents wrapped in the legacy
// control-word rich-text encoding (RTF). It strips just enough markup for the
// course parser to see the Markdown underneath; it is not an RTF reader.
package legacytext

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Signature is the byte prefix that identifies a legacy-encoded buffer.
var Signature = []byte(`{\rtf`)

var (
	breakWordPattern    = regexp.MustCompile(`\\(?:par|line)\b\s*`)
	controlWordPattern  = regexp.MustCompile(`\\[a-z]+\d*\s*`)
	groupPattern        = regexp.MustCompile(`\{[^{}]*\}`)
	hexEscapePattern    = regexp.MustCompile(`\\'([0-9a-fA-F]{2})`)
	controlResidue      = regexp.MustCompile(`\\'[0-9a-fA-F]{2}|\\[^a-zA-Z0-9]|[\s;*]`)
	escapedBracePattern = regexp.MustCompile(`\\[{}]`)
	bracePattern        = regexp.MustCompile(`[{}]`)
	horizontalSpace     = regexp.MustCompile(`[ \t]+`)
	blankLineRun        = regexp.MustCompile(`\n\s*\n\s*\n+`)
	controlChars        = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
)

// hexEscapes maps the escaped character codes seen in Italian course
// documents. Codes outside the table are left untouched.
var hexEscapes = map[string]string{
	"e0": "à",
	"e8": "è",
	"e9": "é",
	"ec": "ì",
	"f2": "ò",
	"f9": "ù",
	"92": "'",
	"94": "\"",
	"96": "–",
}

// IsLegacy reports whether raw starts with the legacy rich-text signature.
func IsLegacy(raw []byte) bool {
	return bytes.HasPrefix(raw, Signature)
}

// Decode converts raw bytes into a string, falling back to Windows-1252 when
// the buffer is not valid UTF-8. Bytes without a printable mapping are dropped.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "")
	}
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9f) {
			return -1
		}
		return r
	}, string(decoded))
}

// Normalize converts a legacy-encoded buffer into plain text. It never fails.
func Normalize(raw []byte) string {
	return NormalizeString(Decode(raw))
}

// NormalizeString applies the control-word stripping steps to already decoded
// text. Removing one construct can expose another, so the steps repeat until
// the text stops changing: NormalizeString(NormalizeString(s)) equals
// NormalizeString(s).
func NormalizeString(text string) string {
	for {
		next := normalizePass(text)
		if next == text {
			return next
		}
		text = next
	}
}

// normalizePass never grows the text; it only shrinks it or turns tabs into
// spaces, so NormalizeString terminates.
func normalizePass(text string) string {
	text = breakWordPattern.ReplaceAllString(text, "\n")
	text = joinContinuations(text)
	text = controlWordPattern.ReplaceAllString(text, " ")
	text = groupPattern.ReplaceAllStringFunc(text, dropControlGroup)
	text = escapedBracePattern.ReplaceAllString(text, "")
	text = bracePattern.ReplaceAllString(text, "")
	text = hexEscapePattern.ReplaceAllStringFunc(text, substituteHex)
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	text = controlChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// joinContinuations turns a line-continuation backslash into a plain newline.
// Only an odd run of backslashes ends in a continuation; the pairs before it
// are escaped backslashes and are kept.
func joinContinuations(text string) string {
	if !strings.Contains(text, "\\\n") && !strings.Contains(text, "\\\r\n") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '\\' {
			b.WriteByte(text[i])
			i++
			continue
		}
		run := i
		for run < len(text) && text[run] == '\\' {
			run++
		}
		n := run - i
		rest := text[run:]
		newline := 0
		switch {
		case strings.HasPrefix(rest, "\n"):
			newline = 1
		case strings.HasPrefix(rest, "\r\n"):
			newline = 2
		}
		if n%2 == 1 && newline > 0 {
			b.WriteString(text[i : run-1])
			b.WriteByte('\n')
			i = run + newline
			continue
		}
		b.WriteString(text[i:run])
		i = run
	}
	return b.String()
}

// dropControlGroup removes a braced group when nothing but control residue
// remains inside it. Groups carrying text keep their content; the braces go
// away in the residual-brace pass.
func dropControlGroup(group string) string {
	inner := group[1 : len(group)-1]
	if controlResidue.ReplaceAllString(inner, "") == "" {
		return ""
	}
	return group
}

func substituteHex(escape string) string {
	code := strings.ToLower(escape[2:])
	if replacement, ok := hexEscapes[code]; ok {
		return replacement
	}
	return escape
}
