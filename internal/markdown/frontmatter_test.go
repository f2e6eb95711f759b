package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-docsync/pkg/testsupport"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/frontmatter.md")

	fm, body, ok := ParseFrontMatter(data)
	if !ok {
		t.Fatalf("expected frontmatter to decode")
	}
	if fm.Title != "Field Types" {
		t.Fatalf("title mismatch, got %q", fm.Title)
	}
	if fm.Description == nil || *fm.Description != "Every built-in form field." {
		t.Fatalf("description mismatch, got %v", fm.Description)
	}
	if fm.Order != 3 {
		t.Fatalf("order mismatch, got %d", fm.Order)
	}
	if fm.Custom["sidebar"] != "compact" {
		t.Fatalf("custom keys not preserved: %#v", fm.Custom)
	}
	if strings.Contains(string(body), "title:") {
		t.Fatalf("body still carries the metadata block: %q", body)
	}
	if !strings.HasPrefix(string(body), "# Ignored Heading") {
		t.Fatalf("unexpected body start: %q", body)
	}
}

func TestParseFrontMatter_NoBlock(t *testing.T) {
	source := []byte("# Installation\n\nRun the installer.\n")

	fm, body, ok := ParseFrontMatter(source)
	if !ok {
		t.Fatalf("a document without metadata is not a degradation")
	}
	if !fm.IsZero() {
		t.Fatalf("expected empty metadata, got %#v", fm)
	}
	if string(body) != string(source) {
		t.Fatalf("body should be the untouched source, got %q", body)
	}
}

func TestParseFrontMatter_MalformedFallsBack(t *testing.T) {
	data := readFixture(t, "testdata/malformed.md")

	fm, body, ok := ParseFrontMatter(data)
	if ok {
		t.Fatalf("expected malformed metadata to be reported")
	}
	if !fm.IsZero() {
		t.Fatalf("expected empty metadata, got %#v", fm)
	}
	if string(body) != string(data) {
		t.Fatalf("expected whole input as body")
	}
}

func TestParseFrontMatter_UnterminatedBlockIsBody(t *testing.T) {
	source := []byte("---\ntitle: Draft\n\n# Heading\n")

	fm, body, ok := ParseFrontMatter(source)
	if !ok {
		t.Fatalf("unterminated block should not be reported as malformed")
	}
	if fm.Title != "" {
		t.Fatalf("expected no title, got %q", fm.Title)
	}
	if string(body) != string(source) {
		t.Fatalf("expected untouched body, got %q", body)
	}
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "first h1", body: "intro\n\n#   Quick Start  \n\n# Second\n", want: "Quick Start"},
		{name: "ignores h2", body: "## Not a title\n", want: DefaultTitle},
		{name: "requires space", body: "#hashtag\n", want: DefaultTitle},
		{name: "empty", body: "", want: DefaultTitle},
		{name: "crlf", body: "# Windows\r\nbody", want: "Windows"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTitle(tc.body); got != tc.want {
				t.Fatalf("ExtractTitle() = %q, want %q", got, tc.want)
			}
		})
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := testsupport.LoadFixture(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
