package fetcher

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTree is an in-memory TreeSource keyed by directory path.
type fakeTree struct {
	root     string
	dirs     map[string][]interfaces.RemoteEntry
	failList map[string]error
	delay    time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32

	mu     sync.Mutex
	listed []string
}

func newFakeTree(root string, files ...string) *fakeTree {
	tree := &fakeTree{root: root, dirs: map[string][]interfaces.RemoteEntry{}, failList: map[string]error{}}
	tree.dirs[root] = nil
	for _, file := range files {
		full := path.Join(root, file)
		tree.ensureDir(path.Dir(full))
		parent := path.Dir(full)
		tree.dirs[parent] = append(tree.dirs[parent], interfaces.RemoteEntry{
			Name:        path.Base(full),
			Path:        full,
			Kind:        interfaces.EntryFile,
			ContentHash: "sha-" + file,
		})
	}
	return tree
}

func (f *fakeTree) ensureDir(dir string) {
	if _, ok := f.dirs[dir]; ok {
		return
	}
	f.dirs[dir] = nil
	parent := path.Dir(dir)
	f.ensureDir(parent)
	f.dirs[parent] = append(f.dirs[parent], interfaces.RemoteEntry{
		Name: path.Base(dir),
		Path: dir,
		Kind: interfaces.EntryDir,
	})
}

func (f *fakeTree) Root() string { return f.root }

func (f *fakeTree) List(ctx context.Context, dir string) ([]interfaces.RemoteEntry, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	f.mu.Lock()
	f.listed = append(f.listed, dir)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.failList[dir]; ok {
		return nil, err
	}
	entries, ok := f.dirs[dir]
	if !ok {
		return nil, errors.New("no such dir")
	}
	return entries, nil
}

func (f *fakeTree) Fetch(_ context.Context, file interfaces.RemoteFile) ([]byte, error) {
	return []byte("# " + file.RemotePath), nil
}

func remotePaths(files []interfaces.RemoteFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RemotePath)
	}
	return out
}

func TestWalk_CollectsMarkdownRecursively(t *testing.T) {
	tree := newFakeTree("docs",
		"README.md",
		"installation.md",
		"forms/fields/text-input.md",
		"forms/fields/select.md",
		"tables/columns.md",
		"images/logo.png",
	)

	result, err := Walk(context.Background(), tree, WalkOptions{})
	require.NoError(t, err)
	assert.False(t, result.Partial())
	assert.Equal(t, []string{
		"docs/README.md",
		"docs/forms/fields/select.md",
		"docs/forms/fields/text-input.md",
		"docs/installation.md",
		"docs/tables/columns.md",
	}, remotePaths(result.Files))
	assert.Equal(t, "sha-installation.md", result.Files[3].ContentHash)
}

func TestWalk_SubtreeFailureIsPartial(t *testing.T) {
	tree := newFakeTree("docs",
		"README.md",
		"installation.md",
		"forms/a.md",
		"forms/b.md",
		"forms/fields/c.md",
		"tables/d.md",
		"tables/e.md",
		"tables/f.md",
		"panels/g.md",
		"panels/h.md",
	)
	tree.failList["docs/panels"] = errors.New("boom")

	result, err := Walk(context.Background(), tree, WalkOptions{})
	require.NoError(t, err)
	assert.True(t, result.Partial())
	assert.Len(t, result.Files, 8)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "docs/panels", result.Failures[0].Path)
	for _, p := range remotePaths(result.Files) {
		assert.False(t, strings.HasPrefix(p, "docs/panels/"), "unexpected file %s", p)
	}
}

func TestWalk_RootFailureAborts(t *testing.T) {
	tree := newFakeTree("docs", "README.md")
	tree.failList["docs"] = errors.New("rate limited")

	_, err := Walk(context.Background(), tree, WalkOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootListing)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestWalk_NilSource(t *testing.T) {
	_, err := Walk(context.Background(), nil, WalkOptions{})
	assert.ErrorIs(t, err, ErrRootListing)
}

func TestWalk_ShallowListsRootOnly(t *testing.T) {
	tree := newFakeTree("docs", "README.md", "forms/a.md", "tables/b.md")

	result, err := Walk(context.Background(), tree, WalkOptions{Shallow: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/README.md"}, remotePaths(result.Files))

	tree.mu.Lock()
	defer tree.mu.Unlock()
	assert.Equal(t, []string{"docs"}, tree.listed)
}

func TestWalk_BoundsConcurrentListings(t *testing.T) {
	var files []string
	for _, dir := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files = append(files, dir+"/x.md", dir+"/nested/y.md")
	}
	tree := newFakeTree("docs", files...)
	tree.delay = 5 * time.Millisecond

	result, err := Walk(context.Background(), tree, WalkOptions{Concurrency: 2})
	require.NoError(t, err)
	assert.Len(t, result.Files, 16)
	// The root listing happens before the pool starts.
	assert.LessOrEqual(t, tree.peak.Load(), int32(2))
}

func TestWalk_CancelledContextMarksSubtrees(t *testing.T) {
	tree := newFakeTree("docs", "README.md", "forms/a.md", "tables/b.md")
	tree.delay = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	result, err := Walk(ctx, tree, WalkOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/README.md"}, remotePaths(result.Files))

	failed := make([]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		failed = append(failed, f.Path)
		assert.ErrorIs(t, f.Err, context.DeadlineExceeded)
	}
	sort.Strings(failed)
	assert.Equal(t, []string{"docs/forms", "docs/tables"}, failed)
}
