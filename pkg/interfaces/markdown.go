package interfaces

// MarkdownParser renders lesson markdown to HTML for previews.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions renders with opts instead of the parser defaults.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions toggles goldmark extensions and HTML handling. Extension names
// are the lower-case keys accepted in configuration, e.g. "table" or "gfm".
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}
