package markdown

import (
	"regexp"
	"strings"
)

// DefaultTitle is used when a document carries neither a frontmatter title
// nor a level-1 heading.
const DefaultTitle = "Documentation"

var titlePattern = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)

// ExtractTitle returns the text of the first level-1 ATX heading in body, or
// DefaultTitle when there is none.
func ExtractTitle(body string) string {
	match := titlePattern.FindStringSubmatch(body)
	if match == nil {
		return DefaultTitle
	}
	title := strings.TrimSpace(match[1])
	if title == "" {
		return DefaultTitle
	}
	return title
}
