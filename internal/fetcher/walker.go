package fetcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-docsync/internal/logging"
	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// DefaultConcurrency bounds simultaneous directory listings.
const DefaultConcurrency = 4

// MarkdownExt is the only file extension collected by a walk.
const MarkdownExt = ".md"

// WalkOptions tunes a tree walk.
type WalkOptions struct {
	// Shallow lists only the root directory.
	Shallow bool
	// Concurrency caps in-flight List calls; values below 1 use
	// DefaultConcurrency.
	Concurrency int
	Logger      interfaces.Logger
}

// SubtreeFailure records a directory whose listing failed. Everything below
// it is missing from the walk result.
type SubtreeFailure struct {
	Path string
	Err  error
}

// WalkResult holds the Markdown files found, sorted by remote path, plus the
// subtrees that could not be listed.
type WalkResult struct {
	Files    []interfaces.RemoteFile
	Failures []SubtreeFailure
}

// Partial reports whether any subtree was skipped.
func (r WalkResult) Partial() bool {
	return len(r.Failures) > 0
}

// Walk enumerates every Markdown file beneath source.Root(). Only a failure
// to list the root itself is returned as an error; subtree failures are
// collected in the result and the walk carries on with the siblings.
func Walk(ctx context.Context, source interfaces.TreeSource, opts WalkOptions) (WalkResult, error) {
	if source == nil {
		return WalkResult{}, fmt.Errorf("%w: nil source", ErrRootListing)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = DefaultConcurrency
	}

	w := &walker{
		source:  source,
		shallow: opts.Shallow,
		sem:     semaphore.NewWeighted(int64(limit)),
		logger:  logger,
	}

	root := source.Root()
	entries, err := source.List(ctx, root)
	if err != nil {
		return WalkResult{}, fmt.Errorf("%w: %s: %w", ErrRootListing, root, err)
	}

	w.visit(ctx, entries)

	sort.Slice(w.files, func(i, j int) bool {
		return w.files[i].RemotePath < w.files[j].RemotePath
	})
	sort.Slice(w.failures, func(i, j int) bool {
		return w.failures[i].Path < w.failures[j].Path
	})

	return WalkResult{Files: w.files, Failures: w.failures}, nil
}

type walker struct {
	source  interfaces.TreeSource
	shallow bool
	sem     *semaphore.Weighted
	logger  interfaces.Logger

	mu       sync.Mutex
	files    []interfaces.RemoteFile
	failures []SubtreeFailure
}

func (w *walker) visit(ctx context.Context, entries []interfaces.RemoteEntry) {
	var g errgroup.Group

	for _, entry := range entries {
		switch entry.Kind {
		case interfaces.EntryFile:
			if !strings.HasSuffix(entry.Name, MarkdownExt) {
				continue
			}
			w.addFile(interfaces.RemoteFile{RemotePath: entry.Path, ContentHash: entry.ContentHash})
		case interfaces.EntryDir:
			if w.shallow {
				continue
			}
			dir := entry.Path
			g.Go(func() error {
				w.walkDir(ctx, dir)
				return nil
			})
		}
	}

	_ = g.Wait()
}

// walkDir holds a semaphore slot only for the List call so nested subtrees
// never wait on their ancestors.
func (w *walker) walkDir(ctx context.Context, dir string) {
	if err := ctx.Err(); err != nil {
		w.addFailure(dir, err)
		return
	}
	if err := w.sem.Acquire(ctx, 1); err != nil {
		w.addFailure(dir, err)
		return
	}
	entries, err := w.source.List(ctx, dir)
	w.sem.Release(1)

	if err != nil {
		w.addFailure(dir, err)
		return
	}
	w.visit(ctx, entries)
}

func (w *walker) addFile(file interfaces.RemoteFile) {
	w.mu.Lock()
	w.files = append(w.files, file)
	w.mu.Unlock()
}

func (w *walker) addFailure(dir string, err error) {
	w.logger.Warn("fetcher.subtree.skipped", "path", dir, "error", err, "rate_limited", IsRateLimited(err))
	w.mu.Lock()
	w.failures = append(w.failures, SubtreeFailure{Path: dir, Err: err})
	w.mu.Unlock()
}
