package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// RendererOptions configures heading permalinks and the table of contents.
// Zero values fall back to DefaultRendererOptions.
type RendererOptions struct {
	IDPrefix        string
	PermalinkClass  string
	PermalinkSymbol string
	PermalinkTitle  string
	// Heading levels receiving a permalink, inclusive.
	PermalinkMinLevel int
	PermalinkMaxLevel int

	TOCClass       string
	TOCPlaceholder string
	// Heading levels listed in the table of contents, inclusive.
	TOCMinLevel int
	TOCMaxLevel int

	HardWraps bool
}

// DefaultRendererOptions mirrors the documentation site's conventions.
func DefaultRendererOptions() RendererOptions {
	return RendererOptions{
		IDPrefix:          "content",
		PermalinkClass:    "heading-permalink",
		PermalinkSymbol:   "#",
		PermalinkTitle:    "Permalink",
		PermalinkMinLevel: 2,
		PermalinkMaxLevel: 4,
		TOCClass:          "table-of-contents",
		TOCPlaceholder:    "[TOC]",
		TOCMinLevel:       2,
		TOCMaxLevel:       3,
	}
}

func (o RendererOptions) withDefaults() RendererOptions {
	def := DefaultRendererOptions()
	if o.IDPrefix == "" {
		o.IDPrefix = def.IDPrefix
	}
	if o.PermalinkClass == "" {
		o.PermalinkClass = def.PermalinkClass
	}
	if o.PermalinkSymbol == "" {
		o.PermalinkSymbol = def.PermalinkSymbol
	}
	if o.PermalinkTitle == "" {
		o.PermalinkTitle = def.PermalinkTitle
	}
	if o.PermalinkMinLevel <= 0 {
		o.PermalinkMinLevel = def.PermalinkMinLevel
	}
	if o.PermalinkMaxLevel < o.PermalinkMinLevel {
		o.PermalinkMaxLevel = max(def.PermalinkMaxLevel, o.PermalinkMinLevel)
	}
	if o.TOCClass == "" {
		o.TOCClass = def.TOCClass
	}
	if o.TOCPlaceholder == "" {
		o.TOCPlaceholder = def.TOCPlaceholder
	}
	if o.TOCMinLevel <= 0 {
		o.TOCMinLevel = def.TOCMinLevel
	}
	if o.TOCMaxLevel < o.TOCMinLevel {
		o.TOCMaxLevel = max(def.TOCMaxLevel, o.TOCMinLevel)
	}
	return o
}

// Renderer implements interfaces.MarkdownRenderer on top of goldmark. The
// engine is composed once and is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

var _ interfaces.MarkdownRenderer = (*Renderer)(nil)

// NewRenderer builds a renderer with GitHub-flavoured extensions, heading
// permalinks and [TOC] substitution. Raw HTML embedded in the Markdown is
// omitted from the output.
func NewRenderer(opts RendererOptions) *Renderer {
	opts = opts.withDefaults()

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&headingExtension{opts: opts},
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	return &Renderer{engine: engine}
}

// Render converts body into an HTML fragment. It never fails: if the engine
// reports an error the source is returned escaped inside a <pre> block.
func (r *Renderer) Render(body []byte) []byte {
	out, err := r.convert(body)
	if err != nil {
		return escapedFallback(body)
	}
	return out
}

func (r *Renderer) convert(body []byte) (out []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("markdown render panic: %v", rec)
		}
	}()

	var buf bytes.Buffer
	if err := r.engine.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

func escapedFallback(body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<pre>")
	buf.Write(util.EscapeHTML(body))
	buf.WriteString("</pre>\n")
	return buf.Bytes()
}
