package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/pkg/perplexity"
)

const perplexityInstruction = "You are a web search engine. List the most relevant web pages for the query, one per line, with a one-sentence summary each."

type perplexitySearcher struct {
	client perplexity.Client
}

// NewPerplexity returns a Searcher backed by a Perplexity online model. The
// pages the model consulted become the results; its answer is attached as the
// first result's snippet.
func NewPerplexity(client perplexity.Client) Searcher {
	return &perplexitySearcher{client: client}
}

func (s *perplexitySearcher) Search(ctx context.Context, query string) ([]Result, error) {
	temp := 0.0
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "system", Content: perplexityInstruction},
			{Role: "user", Content: query},
		},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "search: perplexity")
	}

	var out []Result
	seen := make(map[string]bool)
	for _, r := range resp.SearchResults {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, Result{Title: r.Title, Link: r.URL})
	}
	for _, link := range resp.Citations {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		out = append(out, Result{Title: link, Link: link})
	}
	if len(out) > 0 {
		out[0].Snippet = truncate(strings.TrimSpace(resp.Text()), 300)
	}
	return out, nil
}
