package interfaces

import "context"

// EntryKind distinguishes files from directories in a tree listing.
type EntryKind string

const (
	EntryFile EntryKind = "file"
	EntryDir  EntryKind = "dir"
)

// RemoteEntry is one row of a directory listing.
type RemoteEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        EntryKind `json:"type"`
	ContentHash string    `json:"sha,omitempty"`
}

// RemoteFile describes a Markdown file discovered during a sync pass. It is
// never persisted.
type RemoteFile struct {
	RemotePath  string
	ContentHash string
}

// TreeSource abstracts a documentation tree, remote or local. Paths are
// slash-delimited and include the root prefix.
type TreeSource interface {
	// Root is the directory the tree is walked from (e.g. "docs").
	Root() string
	List(ctx context.Context, dir string) ([]RemoteEntry, error)
	Fetch(ctx context.Context, file RemoteFile) ([]byte, error)
}
