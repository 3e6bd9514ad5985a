// Package search adapts web search APIs to the single query interface the
// agent tool calls.
package search

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/pkg/google"
	"github.com/sells-group/linkedin-finder/pkg/jina"
)

// NoResults is returned to the model when a query matches nothing.
const NoResults = "No good results found"

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher runs a web search query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Format renders results as the JSON array handed back to the model.
func Format(results []Result) (string, error) {
	if len(results) == 0 {
		return NoResults, nil
	}
	b, err := json.Marshal(results)
	if err != nil {
		return "", eris.Wrap(err, "search: marshal results")
	}
	return string(b), nil
}

type googleSearcher struct {
	client google.Client
}

// NewGoogle returns a Searcher backed by Google Custom Search.
func NewGoogle(client google.Client) Searcher {
	return &googleSearcher{client: client}
}

func (s *googleSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	resp, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "search: google")
	}

	out := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: strings.TrimSpace(item.Snippet),
		})
	}
	return out, nil
}

type jinaSearcher struct {
	client jina.Client
	site   string
}

// NewJina returns a Searcher backed by Jina search. A non-empty site limits
// results to that domain.
func NewJina(client jina.Client, site string) Searcher {
	return &jinaSearcher{client: client, site: site}
}

func (s *jinaSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	var opts []jina.SearchOption
	if s.site != "" {
		opts = append(opts, jina.WithSiteFilter(s.site))
	}

	resp, err := s.client.Search(ctx, query, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "search: jina")
	}

	out := make([]Result, 0, len(resp.Data))
	for _, d := range resp.Data {
		snippet := d.Description
		if snippet == "" {
			snippet = truncate(d.Content, 300)
		}
		out = append(out, Result{
			Title:   d.Title,
			Link:    d.URL,
			Snippet: strings.TrimSpace(snippet),
		})
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
