package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/linkedin-finder/internal/agent"
	"github.com/sells-group/linkedin-finder/internal/pipeline"
	"github.com/sells-group/linkedin-finder/internal/resolver"
	"github.com/sells-group/linkedin-finder/internal/search"
)

// buildResolver constructs the model and search clients once for the whole run.
func buildResolver(ctx context.Context, offline bool) (*resolver.Resolver, error) {
	if offline {
		zap.L().Info("offline mode: using stub model and search")
		return pipeline.NewOfflineResolver(cfg.Agent.MaxTurns), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner, err := agent.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	searcher, err := search.New(cfg)
	if err != nil {
		return nil, err
	}

	zap.L().Info("resolver ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("search", cfg.Search.Provider),
	)
	return resolver.New(runner, searcher), nil
}
