package search

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/internal/config"
	"github.com/sells-group/linkedin-finder/pkg/google"
	"github.com/sells-group/linkedin-finder/pkg/jina"
	"github.com/sells-group/linkedin-finder/pkg/perplexity"
)

// New builds the Searcher for the configured search provider.
func New(cfg *config.Config) (Searcher, error) {
	switch cfg.Search.Provider {
	case config.SearchGoogle:
		client := google.NewClient(cfg.Google.Key, cfg.Google.CSEID,
			google.WithBaseURL(cfg.Google.BaseURL),
			google.WithNum(cfg.Google.NumResults),
		)
		return NewGoogle(client), nil
	case config.SearchJina:
		client := jina.NewClient(cfg.Jina.Key, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
		return NewJina(client, cfg.Jina.Site), nil
	case config.SearchPerplexity:
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		return NewPerplexity(client), nil
	default:
		return nil, eris.Errorf("search: unknown provider %q", cfg.Search.Provider)
	}
}
