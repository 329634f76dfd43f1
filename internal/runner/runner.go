package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/bgricker/apismoke/internal/config"
	"github.com/bgricker/apismoke/internal/invoker"
	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/registry"
	"github.com/bgricker/apismoke/internal/report"
)

// DefaultDelay is the pause after every invoked endpoint.
const DefaultDelay = config.DefaultDelay

// Invoker calls a single endpoint.
type Invoker interface {
	Invoke(ctx context.Context, ep registry.Endpoint) invoker.Result
}

// Progress receives per-endpoint updates while a run is in flight. Index is 1-based
// among the runnable endpoints and total is their count.
type Progress interface {
	Skipped(ep registry.Endpoint, reason string)
	Started(index, total int, ep registry.Endpoint)
	Finished(index, total int, ep registry.Endpoint, res invoker.Result)
}

// Options configure a run.
type Options struct {
	Invoker  Invoker
	Token    string
	Delay    time.Duration // zero means DefaultDelay, negative disables the pause
	Sleep    func(ctx context.Context, d time.Duration) error
	Progress Progress
	Logger   logging.Logger
	Now      func() time.Time
}

// Runner walks the registry sequentially.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Progress == nil {
		opts.Progress = noProgress{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NullLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

// Run invokes every non-skipped endpoint once, in order, and buckets the outcomes.
// A placeholder token aborts before any request with config.ErrPlaceholderToken.
func (r *Runner) Run(ctx context.Context, endpoints []registry.Endpoint) (results report.Results, err error) {
	if config.IsPlaceholderToken(r.opts.Token) {
		return results, config.ErrPlaceholderToken
	}
	if r.opts.Invoker == nil {
		return results, fmt.Errorf("run endpoints: no invoker configured")
	}

	start := r.opts.Now()
	defer func() { results.Duration = r.opts.Now().Sub(start) }()

	total, _ := registry.Count(endpoints)
	r.opts.Logger.Printf("run started endpoints=%d runnable=%d", len(endpoints), total)

	index := 0
	for _, ep := range endpoints {
		if ep.SkipTest {
			r.opts.Logger.Printf("skipping endpoint=%q", ep.Name)
			results.Skip(ep, report.SkipReason)
			r.opts.Progress.Skipped(ep, report.SkipReason)
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("run endpoint %q: %w", ep.Name, err)
		}

		index++
		r.opts.Progress.Started(index, total, ep)
		res := r.opts.Invoker.Invoke(ctx, ep)
		results.Add(ep, res)
		r.opts.Progress.Finished(index, total, ep, res)
		r.opts.Logger.Printf("endpoint finished name=%q ok=%t status=%d latency_ms=%d", ep.Name, res.OK(), res.Status(), invoker.DurationMS(res))

		if r.opts.Delay > 0 {
			if err := r.opts.Sleep(ctx, r.opts.Delay); err != nil {
				return results, fmt.Errorf("wait after %q: %w", ep.Name, err)
			}
		}
	}

	summary := results.Summary()
	r.opts.Logger.Printf("run finished working=%d failing=%d skipped=%d", summary.Working, summary.Failing, summary.Skipped)
	return results, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noProgress struct{}

func (noProgress) Skipped(registry.Endpoint, string)                    {}
func (noProgress) Started(int, int, registry.Endpoint)                  {}
func (noProgress) Finished(int, int, registry.Endpoint, invoker.Result) {}
