package markdown

import "testing"

func TestRewriteLinks(t *testing.T) {
	folder := FolderOf("forms/fields/text-input")

	cases := []struct {
		in   string
		want string
	}{
		{in: `href="../introduction.md"`, want: `href="/docs/forms/introduction"`},
		{in: `href="./select.md"`, want: `href="/docs/forms/fields/select"`},
		{in: `href="sibling.md"`, want: `href="/docs/forms/fields/sibling"`},
		{in: `href="https://example.com/x.md"`, want: `href="https://example.com/x.md"`},
		{in: `href="#section"`, want: `href="#section"`},
		{in: `href="/docs/panel/pages"`, want: `href="/docs/panel/pages"`},
		{in: `href="tables/columns.md"`, want: `href="/docs/tables/columns"`},
		{in: `href="./select.md#options"`, want: `href="/docs/forms/fields/select#options"`},
		{in: `href="../introduction.md#setup"`, want: `href="/docs/forms/introduction#setup"`},
		{in: `href="mailto:me@example.com"`, want: `href="mailto:me@example.com"`},
		{in: `href="ftp://mirror.example.com/docs.md"`, want: `href="ftp://mirror.example.com/docs.md"`},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := RewriteLinks(tc.in, folder); got != tc.want {
				t.Fatalf("RewriteLinks(%s) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestRewriteLinks_RootDocument(t *testing.T) {
	folder := FolderOf("README")
	if folder != "" {
		t.Fatalf("expected empty folder, got %q", folder)
	}

	cases := map[string]string{
		`href="installation.md"`:       `href="/docs/installation"`,
		`href="./quick-start.md"`:      `href="/docs/quick-start"`,
		`href="../outside.md"`:         `href="/docs/outside"`,
		`href="panel/introduction.md"`: `href="/docs/panel/introduction"`,
	}
	for in, want := range cases {
		if got := RewriteLinks(in, folder); got != want {
			t.Fatalf("RewriteLinks(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestRewriteLinks_OnlyTouchesHrefs(t *testing.T) {
	in := `<p>See <a href="guide.md">guide.md</a> and <img src="diagram.png" alt="guide.md"></p>`
	want := `<p>See <a href="/docs/forms/guide">guide.md</a> and <img src="diagram.png" alt="guide.md"></p>`

	if got := RewriteLinks(in, "forms"); got != want {
		t.Fatalf("unexpected rewrite\nwant %s\ngot  %s", want, got)
	}
}

func TestRewriteLinks_Idempotent(t *testing.T) {
	in := `<a href="../a.md">a</a><a href="./b.md">b</a><a href="c.md">c</a><a href="#d">d</a>`

	once := RewriteLinks(in, "forms/fields")
	twice := RewriteLinks(once, "forms/fields")
	if once != twice {
		t.Fatalf("second pass changed output\nonce  %s\ntwice %s", once, twice)
	}
}

func TestLinkRewriterCustomBase(t *testing.T) {
	r := NewLinkRewriter("guides/")
	if got := r.Rewrite(`href="setup.md"`, "start"); got != `href="/guides/start/setup"` {
		t.Fatalf("unexpected rewrite %s", got)
	}
}

func TestFolderOf(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"README":                  "",
		"forms/introduction":      "forms",
		"forms/fields/text-input": "forms/fields",
	}
	for in, want := range cases {
		if got := FolderOf(in); got != want {
			t.Fatalf("FolderOf(%q) = %q, want %q", in, got, want)
		}
	}
}
