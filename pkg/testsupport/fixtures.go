package testsupport

import (
	"encoding/json"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// DocsTree builds an in-memory documentation tree rooted at "docs" from a
// map of relative path to Markdown body.
func DocsTree(t testing.TB, files map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["docs/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

// UnreadableFS is a documentation tree where the listed files exist but
// cannot be read.
type UnreadableFS struct {
	fstest.MapFS
	Denied map[string]bool
}

func (f UnreadableFS) Open(name string) (fs.File, error) {
	if f.Denied[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.MapFS.Open(name)
}

func (f UnreadableFS) ReadFile(name string) ([]byte, error) {
	if f.Denied[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return f.MapFS.ReadFile(name)
}
