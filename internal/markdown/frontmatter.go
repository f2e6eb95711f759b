package markdown

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// yamlFormat restricts detection to the `---` YAML block used by the
// documentation sources. Other formats (TOML, JSON) are left in the body.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// ParseFrontMatter splits source into metadata and Markdown body. When no
// leading block is present the body is the untouched source. A malformed block
// never fails the caller: the whole source is returned as body with empty
// metadata and ok set to false so the degradation can be logged.
func ParseFrontMatter(source []byte) (meta interfaces.FrontMatter, body []byte, ok bool) {
	var env frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env, yamlFormat)
	if err != nil {
		return interfaces.FrontMatter{}, source, false
	}

	return envelopeToFrontMatter(env), body, true
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Description *string        `yaml:"description"`
	Order       int            `yaml:"order"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	var description *string
	if env.Description != nil {
		value := *env.Description
		description = &value
	}

	return interfaces.FrontMatter{
		Title:       env.Title,
		Description: description,
		Order:       env.Order,
		Custom:      cloneMap(env.Custom),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
