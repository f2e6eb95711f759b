package interfaces

// NavigationItem links one document in the sidebar.
type NavigationItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NavigationSection groups the documents sharing a top-level path segment.
type NavigationSection struct {
	Title string           `json:"title"`
	Items []NavigationItem `json:"items"`
}

// NavigationTree is the ordered two-level sidebar projection of the store.
type NavigationTree []NavigationSection
