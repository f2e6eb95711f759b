package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindPermalink is the node kind of the anchor injected into headings.
var KindPermalink = ast.NewNodeKind("Permalink")

// KindTableOfContents is the node kind replacing the [TOC] placeholder.
var KindTableOfContents = ast.NewNodeKind("TableOfContents")

type permalinkNode struct {
	ast.BaseInline
	ID string
}

func (n *permalinkNode) Kind() ast.NodeKind { return KindPermalink }

func (n *permalinkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

type tocEntry struct {
	Level    int
	Title    string
	ID       string
	Children []*tocEntry
}

type tocNode struct {
	ast.BaseBlock
	Entries []*tocEntry
}

func (n *tocNode) Kind() ast.NodeKind { return KindTableOfContents }

func (n *tocNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Entries": strconv.Itoa(len(n.Entries))}, nil)
}

// headingExtension wires the heading transformer and its node renderers into
// a goldmark engine.
type headingExtension struct {
	opts RendererOptions
}

func (e *headingExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&headingTransformer{opts: e.opts}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&headingRenderer{opts: e.opts}, 500),
	))
}

type headingTransformer struct {
	opts RendererOptions
}

type collectedHeading struct {
	level int
	title string
	id    string
}

// Transform assigns permalink anchors first, then swaps placeholder
// paragraphs for the table of contents so both agree on anchor ids.
func (t *headingTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	seen := map[string]int{}

	var headings []collectedHeading
	var placeholders []*ast.Paragraph

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level < t.opts.PermalinkMinLevel || n.Level > t.opts.PermalinkMaxLevel {
				return ast.WalkSkipChildren, nil
			}
			title := strings.TrimSpace(string(n.Text(source)))
			id := t.opts.IDPrefix + "-" + uniqueSlug(anchorSlug(title), seen)
			headings = append(headings, collectedHeading{level: n.Level, title: title, id: id})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if strings.TrimSpace(string(n.Text(source))) == t.opts.TOCPlaceholder {
				placeholders = append(placeholders, n)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	// Anchors are attached after the walk so the tree is not mutated while
	// it is being traversed.
	idx := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := node.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level < t.opts.PermalinkMinLevel || heading.Level > t.opts.PermalinkMaxLevel {
			return ast.WalkSkipChildren, nil
		}
		anchor := &permalinkNode{ID: headings[idx].id}
		idx++
		if first := heading.FirstChild(); first != nil {
			heading.InsertBefore(heading, first, anchor)
		} else {
			heading.AppendChild(heading, anchor)
		}
		return ast.WalkSkipChildren, nil
	})

	if len(placeholders) == 0 {
		return
	}

	entries := buildTOC(headings, t.opts.TOCMinLevel, t.opts.TOCMaxLevel)
	for _, para := range placeholders {
		parent := para.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, para, &tocNode{Entries: entries})
	}
}

// buildTOC nests headings by their level relative to the preceding entries,
// so a document starting at h3 still produces a flat top-level list.
func buildTOC(headings []collectedHeading, minLevel, maxLevel int) []*tocEntry {
	var roots []*tocEntry
	var stack []*tocEntry

	for _, h := range headings {
		if h.level < minLevel || h.level > maxLevel {
			continue
		}
		entry := &tocEntry{Level: h.level, Title: h.title, ID: h.id}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
		}
		stack = append(stack, entry)
	}
	return roots
}

func anchorSlug(title string) string {
	normalized, err := slug.Normalize(title)
	if err != nil || normalized == "" {
		return "section"
	}
	return normalized
}

func uniqueSlug(base string, seen map[string]int) string {
	count, ok := seen[base]
	if !ok {
		seen[base] = 0
		return base
	}
	for {
		count++
		candidate := base + "-" + strconv.Itoa(count)
		if _, taken := seen[candidate]; !taken {
			seen[base] = count
			seen[candidate] = 0
			return candidate
		}
	}
}

type headingRenderer struct {
	opts RendererOptions
}

func (r *headingRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindPermalink, r.renderPermalink)
	reg.Register(KindTableOfContents, r.renderTOC)
}

func (r *headingRenderer) renderPermalink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*permalinkNode)
	id := util.EscapeHTML([]byte(n.ID))

	_, _ = w.WriteString(`<a id="`)
	_, _ = w.Write(id)
	_, _ = w.WriteString(`" href="#`)
	_, _ = w.Write(id)
	_, _ = w.WriteString(`" class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.opts.PermalinkClass)))
	_, _ = w.WriteString(`" aria-hidden="true" title="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.opts.PermalinkTitle)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.opts.PermalinkSymbol)))
	_, _ = w.WriteString(`</a>`)
	return ast.WalkSkipChildren, nil
}

func (r *headingRenderer) renderTOC(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*tocNode)
	if len(n.Entries) == 0 {
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(`<ul class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.opts.TOCClass)))
	_, _ = w.WriteString("\">\n")
	writeTOCItems(w, n.Entries)
	_, _ = w.WriteString("</ul>\n")
	return ast.WalkSkipChildren, nil
}

func writeTOCItems(w util.BufWriter, entries []*tocEntry) {
	for _, entry := range entries {
		_, _ = w.WriteString(`<li><a href="#`)
		_, _ = w.Write(util.EscapeHTML([]byte(entry.ID)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(entry.Title)))
		_, _ = w.WriteString("</a>")
		if len(entry.Children) > 0 {
			_, _ = w.WriteString("\n<ul>\n")
			writeTOCItems(w, entry.Children)
			_, _ = w.WriteString("</ul>\n")
		}
		_, _ = w.WriteString("</li>\n")
	}
}
