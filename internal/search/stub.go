package search

import (
	"context"
	"fmt"
	"strings"
)

// Stub is an offline Searcher that fabricates one LinkedIn hit per query.
type Stub struct{}

var _ Searcher = Stub{}

// Search implements Searcher.
func (Stub) Search(_ context.Context, query string) ([]Result, error) {
	slug := Slugify(query)
	if slug == "" {
		return nil, nil
	}
	return []Result{{
		Title:   query + " | LinkedIn",
		Link:    fmt.Sprintf("https://www.linkedin.com/company/%s/", slug),
		Snippet: "Stub result for " + query,
	}}, nil
}

// Slugify lowercases s and joins its alphanumeric words with hyphens.
func Slugify(s string) string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(words, "-")
}
