package markdown

import (
	"path"
	"regexp"
	"strings"
)

// DefaultBasePath is the site prefix rewritten links are resolved under.
const DefaultBasePath = "/docs"

var hrefPattern = regexp.MustCompile(`href="([^"]*)"`)

// schemePattern matches an RFC 3986 scheme prefix such as mailto: or ftp:.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// LinkRewriter turns relative Markdown links in rendered HTML into absolute
// documentation-site paths.
type LinkRewriter struct {
	base string
}

// NewLinkRewriter returns a rewriter rooted at basePath; an empty value uses
// DefaultBasePath.
func NewLinkRewriter(basePath string) LinkRewriter {
	base := strings.TrimRight(strings.TrimSpace(basePath), "/")
	if base == "" {
		base = DefaultBasePath
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return LinkRewriter{base: base}
}

// RewriteLinks applies the default rewriter.
func RewriteLinks(html, folder string) string {
	return NewLinkRewriter(DefaultBasePath).Rewrite(html, folder)
}

// FolderOf returns the folder portion of a document path, or "" for
// documents at the root.
func FolderOf(docPath string) string {
	dir := path.Dir(docPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Rewrite rewrites every href attribute in html relative to folder. Links
// starting with a scheme, # or / are left alone, which also makes the pass
// idempotent.
func (r LinkRewriter) Rewrite(html, folder string) string {
	folder = strings.Trim(folder, "/")
	return hrefPattern.ReplaceAllStringFunc(html, func(match string) string {
		sub := hrefPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		return `href="` + r.resolve(sub[1], folder) + `"`
	})
}

func (r LinkRewriter) resolve(link, folder string) string {
	if strings.HasPrefix(link, "http") || strings.HasPrefix(link, "#") || strings.HasPrefix(link, "/") ||
		schemePattern.MatchString(link) {
		return link
	}

	var fragment string
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link, fragment = link[:i], link[i:]
	}
	return r.resolvePath(strings.TrimSuffix(link, ".md"), folder) + fragment
}

func (r LinkRewriter) resolvePath(link, folder string) string {
	switch {
	case strings.HasPrefix(link, "../"):
		// Only one level of ascent is resolved.
		rest := link[len("../"):]
		parent := FolderOf(folder)
		if parent == "" {
			return r.base + "/" + rest
		}
		return r.base + "/" + parent + "/" + rest
	case strings.HasPrefix(link, "./"):
		rest := link[len("./"):]
		if folder == "" {
			return r.base + "/" + rest
		}
		return r.base + "/" + folder + "/" + rest
	default:
		if !strings.Contains(link, "/") && folder != "" {
			return r.base + "/" + folder + "/" + link
		}
		return r.base + "/" + link
	}
}
