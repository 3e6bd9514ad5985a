// Package pipeline resolves a list of companies with bounded concurrency and
// writes the results.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/linkedin-finder/internal/model"
)

// DefaultConcurrency is the number of resolutions in flight when Options.Concurrency is unset.
const DefaultConcurrency = 5

// Resolver maps a company name to its LinkedIn profile URL or model.NotFound.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// Options configures RunAll.
type Options struct {
	// Concurrency caps simultaneous resolutions. Values <= 0 mean DefaultConcurrency.
	Concurrency int
	// Timeout bounds each resolution. Zero disables it.
	Timeout time.Duration
	// OnResult is called once per company in completion order. Calls never overlap.
	OnResult func(index int, result model.Result)
	// Logger defaults to zap.L().
	Logger *zap.Logger
}

// ResolutionError records why a single company was marked as model.Error.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// RunAll resolves every company and returns one result per company in input
// order. Failures, panics and timeouts are recorded as model.Error and never
// stop the batch. Companies not yet started when ctx is cancelled are also
// recorded as model.Error.
func RunAll(ctx context.Context, companies []model.Company, r Resolver, opts Options) []model.Result {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}

	results := make([]model.Result, len(companies))
	total := len(companies)

	var (
		mu        sync.Mutex
		completed int
	)

	var g errgroup.Group
	g.SetLimit(limit)

	for i, company := range companies {
		g.Go(func() error {
			start := time.Now()
			o, finished := resolveOne(ctx, r, company.Name, opts.Timeout)
			// The slot stays held until the resolver call has returned.
			defer func() { <-finished }()

			res := model.Result{Name: company.Name, LinkedIn: o.url}
			if o.err != nil {
				log.Warn("pipeline: resolution failed",
					zap.String("company", company.Name),
					zap.Error(&ResolutionError{Name: company.Name, Err: o.err}),
				)
				res.LinkedIn = model.Error
			}
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			completed++
			log.Info("company done",
				zap.String("company", company.Name),
				zap.String("status", string(res.Status())),
				zap.Int("completed", completed),
				zap.Int("total", total),
				zap.Duration("duration", time.Since(start)),
			)
			if opts.OnResult != nil {
				opts.OnResult(i, res)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

type outcome struct {
	url string
	err error
}

// resolveOne runs a single resolution under the per-item timeout. The outcome
// is returned as soon as the context ends, even if the resolver ignores
// cancellation; finished is closed once the resolver call has returned.
func resolveOne(ctx context.Context, r Resolver, name string, timeout time.Duration) (outcome, <-chan struct{}) {
	finished := make(chan struct{})
	if err := ctx.Err(); err != nil {
		close(finished)
		return outcome{err: eris.Wrap(err, "pipeline: not started")}, finished
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	done := make(chan outcome, 1)
	go func() {
		defer close(finished)
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: eris.Errorf("pipeline: resolver panic: %v", p)}
			}
		}()
		url, err := r.Resolve(ctx, name)
		done <- outcome{url: url, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil && o.url == "" {
			o.url = model.NotFound
		}
		return o, finished
	case <-ctx.Done():
		return outcome{err: eris.Wrap(ctx.Err(), "pipeline: resolution aborted")}, finished
	}
}
