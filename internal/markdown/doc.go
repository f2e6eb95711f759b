// Package markdown turns documentation sources into HTML fragments. It holds
// the frontmatter split, title extraction, the goldmark renderer with heading
// permalinks and [TOC] substitution, and the link rewriter, composed by
// Pipeline in that fixed order.
package markdown
