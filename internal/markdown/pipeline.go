package markdown

import (
	"strings"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// Transformed is the output of a pipeline run for one document.
type Transformed struct {
	Title       string
	Description *string
	Order       int
	Body        string
	HTML        string
	FrontMatter interfaces.FrontMatter
	// FrontMatterOK is false when a metadata block was present but could not
	// be decoded and the whole source was kept as body.
	FrontMatterOK bool
}

// Pipeline is the fixed sequence frontmatter split, title resolution,
// Markdown render and link rewrite.
type Pipeline struct {
	renderer interfaces.MarkdownRenderer
	links    LinkRewriter
}

// NewPipeline composes a pipeline. A nil renderer uses the default options.
func NewPipeline(renderer interfaces.MarkdownRenderer, links LinkRewriter) *Pipeline {
	if renderer == nil {
		renderer = NewRenderer(DefaultRendererOptions())
	}
	if links.base == "" {
		links = NewLinkRewriter(DefaultBasePath)
	}
	return &Pipeline{renderer: renderer, links: links}
}

// Transform runs every stage for the document stored at docPath.
func (p *Pipeline) Transform(docPath string, raw []byte) Transformed {
	meta, body, ok := ParseFrontMatter(raw)

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = ExtractTitle(string(body))
	}

	return Transformed{
		Title:         title,
		Description:   meta.Description,
		Order:         meta.Order,
		Body:          string(body),
		HTML:          p.Render(docPath, string(body)),
		FrontMatter:   meta,
		FrontMatterOK: ok,
	}
}

// Render turns a body without frontmatter into the stored HTML fragment.
func (p *Pipeline) Render(docPath, body string) string {
	html := string(p.renderer.Render([]byte(body)))
	return p.links.Rewrite(html, FolderOf(docPath))
}
