package fetcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/goliatone/go-docsync/pkg/interfaces"
)

// LocalSource serves a documentation tree from a filesystem. Content hashes
// are xxh3 digests of the file bytes, so an unchanged file keeps its hash
// across runs.
type LocalSource struct {
	fsys fs.FS
	root string
	// origin is informational (the OS directory behind fsys, if any).
	origin string
}

var _ interfaces.TreeSource = (*LocalSource)(nil)

// NewLocalSource serves the directory dir from the OS filesystem.
func NewLocalSource(dir string) (*LocalSource, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, ErrLocalPathNotFound
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLocalPathNotFound, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrLocalPathNotFound, dir)
	}
	return &LocalSource{fsys: os.DirFS(dir), root: ".", origin: dir}, nil
}

// NewFSSource serves root inside fsys. It is the seam used by tests and by
// embedded documentation bundles.
func NewFSSource(fsys fs.FS, root string) *LocalSource {
	root = path.Clean(strings.Trim(strings.TrimSpace(root), "/"))
	if root == "" {
		root = "."
	}
	return &LocalSource{fsys: fsys, root: root}
}

// Root implements interfaces.TreeSource.
func (s *LocalSource) Root() string {
	return s.root
}

// Origin returns the OS directory the source was opened from, if any.
func (s *LocalSource) Origin() string {
	return s.origin
}

// List implements interfaces.TreeSource. File entries carry their content
// hash so the walk result can be compared without a second read.
func (s *LocalSource) List(ctx context.Context, dir string) ([]interfaces.RemoteEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir = cleanDir(dir)
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("local list %s: %w", dir, err)
	}

	out := make([]interfaces.RemoteEntry, 0, len(entries))
	for _, entry := range entries {
		full := joinPath(dir, entry.Name())
		if entry.IsDir() {
			out = append(out, interfaces.RemoteEntry{Name: entry.Name(), Path: full, Kind: interfaces.EntryDir})
			continue
		}
		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		// An unreadable file is still listed, without a hash, so the read
		// error surfaces from Fetch for that file alone.
		var hash string
		if strings.HasSuffix(entry.Name(), MarkdownExt) {
			if data, err := fs.ReadFile(s.fsys, full); err == nil {
				hash = ContentHash(data)
			}
		}
		out = append(out, interfaces.RemoteEntry{
			Name:        entry.Name(),
			Path:        full,
			Kind:        interfaces.EntryFile,
			ContentHash: hash,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Fetch implements interfaces.TreeSource.
func (s *LocalSource) Fetch(ctx context.Context, file interfaces.RemoteFile) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, cleanDir(file.RemotePath))
	if err != nil {
		return nil, fmt.Errorf("local read %s: %w", file.RemotePath, err)
	}
	return data, nil
}

// ContentHash is the fingerprint used for local files.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

func cleanDir(dir string) string {
	dir = path.Clean(strings.Trim(dir, "/"))
	if dir == "" {
		return "."
	}
	return dir
}

func joinPath(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}
