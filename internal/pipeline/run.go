package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/linkedin-finder/internal/loader"
	"github.com/sells-group/linkedin-finder/internal/model"
	"github.com/sells-group/linkedin-finder/internal/output"
)

// Config describes one end-to-end run.
type Config struct {
	InputPath  string
	OutputPath string
	Load       loader.Options
	Batch      Options
	// Limit processes only the first Limit companies. Zero means all.
	Limit    int
	Resolver Resolver
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Tally      model.Tally   `json:"tally"`
	Duration   time.Duration `json:"duration"`
	OutputPath string        `json:"output_path"`
}

// Run loads the input file, resolves every company and writes the results.
// Load and write failures are returned; resolution failures only mark rows as model.Error.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Resolver == nil {
		return nil, eris.New("pipeline: resolver is required")
	}

	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))
	start := time.Now()

	companies, err := loader.Load(ctx, cfg.InputPath, cfg.Load)
	if err != nil {
		return nil, err
	}
	if cfg.Limit > 0 && cfg.Limit < len(companies) {
		companies = companies[:cfg.Limit]
	}
	log.Info("loaded companies",
		zap.String("input", cfg.InputPath),
		zap.Int("total", len(companies)),
	)

	opts := cfg.Batch
	if opts.Logger == nil {
		opts.Logger = log
	}
	results := RunAll(ctx, companies, cfg.Resolver, opts)

	if err := output.Write(cfg.OutputPath, results); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:      runID,
		Total:      len(results),
		Tally:      model.CountResults(results),
		Duration:   time.Since(start),
		OutputPath: cfg.OutputPath,
	}
	log.Info("run complete",
		zap.String("output", cfg.OutputPath),
		zap.Int("total", summary.Total),
		zap.Int("found", summary.Tally.Found),
		zap.Int("not_found", summary.Tally.NotFound),
		zap.Int("errors", summary.Tally.Errors),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}
