package navigation

import "time"

// CacheKey is the cache entry holding the built tree.
const CacheKey = "docs_navigation"

// DefaultTTL bounds staleness when no sync invalidates the tree.
const DefaultTTL = 6 * time.Hour

// Section is a configured top-level group, matched by the first path segment.
type Section struct {
	Key   string `json:"key" mapstructure:"key" yaml:"key"`
	Title string `json:"title" mapstructure:"title" yaml:"title"`
}

// Config controls section order, titles and per-section item order.
type Config struct {
	// Sections are emitted first, in declared order.
	Sections []Section `json:"sections" mapstructure:"sections" yaml:"sections"`
	// ItemOrder lists item names (path without the section prefix) per
	// section key. Unlisted items follow the listed ones in store order.
	ItemOrder map[string][]string `json:"item_order" mapstructure:"item_order" yaml:"item_order"`
	TTL       time.Duration       `json:"ttl" mapstructure:"ttl" yaml:"ttl"`
}

// DefaultConfig returns the documentation site's section layout.
func DefaultConfig() Config {
	return Config{
		Sections: []Section{
			{Key: "getting-started", Title: "Getting Started"},
			{Key: "panel", Title: "Panel"},
			{Key: "forms", Title: "Forms"},
			{Key: "tables", Title: "Tables"},
			{Key: "infolists", Title: "Infolists"},
			{Key: "actions", Title: "Actions"},
			{Key: "notifications", Title: "Notifications"},
			{Key: "widgets", Title: "Widgets"},
			{Key: "auth", Title: "Authentication"},
			{Key: "ai", Title: "AI Integration"},
			{Key: "schemas", Title: "Schemas"},
			{Key: "frontend", Title: "Frontend"},
			{Key: "query-builder", Title: "Query Builder"},
			{Key: "plugins", Title: "Plugins"},
			{Key: "support", Title: "Support"},
		},
		ItemOrder: map[string][]string{
			"getting-started": {"installation", "quick-start", "architecture"},
			"panel":           {"introduction", "creating-panels", "resources", "pages", "navigation", "themes", "tenancy"},
			"forms":           {"introduction", "field-types", "validation", "layouts", "reactive-fields", "custom-fields"},
			"tables":          {"introduction", "columns", "filters", "actions", "api"},
			"auth":            {"introduction", "methods", "two-factor", "social", "passkeys", "profile"},
			"frontend":        {"README", "components", "layouts", "styling", "utilities"},
		},
		TTL: DefaultTTL,
	}
}
