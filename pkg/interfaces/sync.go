package interfaces

import (
	"context"
	"time"
)

// SyncOptions controls a single sync pass.
type SyncOptions struct {
	// Force deletes every stored document and the navigation cache before
	// listing the source.
	Force bool
	// Source overrides the configured tree source for this pass.
	Source TreeSource
	// Shallow lists only the source root, skipping subdirectories.
	Shallow bool
}

// SyncResult summarises a sync pass. Changed lists the paths that were
// written, in processing order.
type SyncResult struct {
	Changed []string `json:"changed"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed,omitempty"`
	// FailedSubtrees lists remote directories whose listing failed; their
	// files are absent from this pass.
	FailedSubtrees []string      `json:"failed_subtrees,omitempty"`
	Listed         int           `json:"listed"`
	Deleted        int           `json:"deleted,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Partial reports whether any file or subtree failed.
func (r SyncResult) Partial() bool {
	return len(r.Failed) > 0 || len(r.FailedSubtrees) > 0
}

// DocsService is the surface exposed to CLI, command and MCP collaborators.
type DocsService interface {
	Sync(ctx context.Context, opts SyncOptions) (SyncResult, error)
	Get(ctx context.Context, path string) (*Page, error)
	Navigation(ctx context.Context) (NavigationTree, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
