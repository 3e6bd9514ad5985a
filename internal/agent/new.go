package agent

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/internal/config"
	"github.com/sells-group/linkedin-finder/pkg/anthropic"
)

// New builds the Runner for the configured LLM provider.
func New(ctx context.Context, cfg *config.Config) (Runner, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI.Key, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.Agent.MaxTurns), nil
	case config.ProviderAnthropic:
		client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
		r := NewAnthropic(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Agent.MaxTurns)
		r.CacheTTL = cfg.Anthropic.CacheTTL
		return r, nil
	case config.ProviderGemini:
		r, err := NewGemini(ctx, cfg.Gemini.Key, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Agent.MaxTurns)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, eris.Errorf("agent: unknown llm provider %q", cfg.LLM.Provider)
	}
}
