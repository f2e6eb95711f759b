package navigation

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Humanize turns a path segment into a display title: dashes and
// underscores become spaces and each word starts with an upper-case letter.
// The rest of each word is left untouched, so "api-keys" becomes "Api Keys".
func Humanize(segment string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	words := strings.Split(replaced, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// PathToTitle derives a title from a document path. A README takes its
// folder's name.
func PathToTitle(docPath string) string {
	name := path.Base(docPath)
	if name == "README" {
		if dir := path.Dir(docPath); dir != "." && dir != "/" {
			name = path.Base(dir)
		}
	}
	return Humanize(name)
}

// sectionOf returns the first path segment.
func sectionOf(docPath string) string {
	if idx := strings.IndexByte(docPath, '/'); idx >= 0 {
		return docPath[:idx]
	}
	return docPath
}
