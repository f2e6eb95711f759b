package interfaces

// MarkdownRenderer converts a Markdown body into an HTML fragment. Renderers
// never fail: malformed input degrades to escaped text.
type MarkdownRenderer interface {
	Render(body []byte) []byte
}

// FrontMatter models the metadata block that may lead a documentation file.
// Only title, description and order carry meaning for the pipeline; any other
// key is preserved in Custom.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description *string        `yaml:"description" json:"description,omitempty"`
	Order       int            `yaml:"order" json:"order"`
	Custom      map[string]any `yaml:",inline" json:"custom,omitempty"`
}

// IsZero reports whether no metadata was captured.
func (f FrontMatter) IsZero() bool {
	return f.Title == "" && f.Description == nil && f.Order == 0 && len(f.Custom) == 0
}
