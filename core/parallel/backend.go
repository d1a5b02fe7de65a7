package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
)

// Backend kinds accepted by New.
const (
	KindSerial   = "serial"
	KindParallel = "parallel"
)

// Job is one self-contained unit of work, e.g. train, predict and score a
// single fold. Jobs must not share mutable state.
type Job func(ctx context.Context) (any, error)

// Backend runs a batch of jobs and returns their results in job order.
//
// A failing or panicking job aborts the batch: the returned slice is nil
// and the error is a *errors.JobError carrying the index of the failed job.
type Backend interface {
	Process(ctx context.Context, jobs []Job) ([]any, error)
	Workers() int
	String() string
}

// Observer receives one callback per finished job.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveJob(backend string, index int, elapsed time.Duration, err error)
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	observer Observer
	logger   log.Logger
}

// WithObserver installs an Observer, typically a pkg/monitor.Collector.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithLogger overrides the logger used for batch level records.
func WithLogger(l log.Logger) Option {
	return func(opts *options) { opts.logger = l }
}

func buildOptions(kind string, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("parallel")
	}
	o.logger = o.logger.With(log.BackendKey, kind)
	return o
}

// runJob executes a single job, converting panics and errors into a JobError.
func runJob(ctx context.Context, o *options, kind string, index int, job Job) (any, error) {
	start := time.Now()
	result, err := scierrors.SafeCall(fmt.Sprintf("%s job %d", kind, index), func() (any, error) {
		return job(ctx)
	})
	if o.observer != nil {
		o.observer.ObserveJob(kind, index, time.Since(start), err)
	}
	if err != nil {
		o.logger.Debug("job failed", err, log.JobIndexKey, index)
		return nil, scierrors.NewJobError(index, err)
	}
	return result, nil
}

// Serial runs jobs one after another on the calling goroutine.
type Serial struct {
	opts options
}

// NewSerial creates a sequential Backend.
func NewSerial(opts ...Option) *Serial {
	return &Serial{opts: buildOptions(KindSerial, opts)}
}

// Process implements Backend.Process. It stops at the first failure.
func (s *Serial) Process(ctx context.Context, jobs []Job) ([]any, error) {
	start := time.Now()
	results := make([]any, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, scierrors.NewJobError(i, err)
		}
		r, err := runJob(ctx, &s.opts, KindSerial, i, job)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	s.opts.logger.Debug("jobs processed",
		log.JobsKey, len(jobs),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return results, nil
}

// Workers implements Backend.Workers.
func (s *Serial) Workers() int { return 1 }

func (s *Serial) String() string { return "Serial" }

// Parallel distributes jobs over a fixed-size pool of goroutines.
type Parallel struct {
	workers int
	opts    options
}

// NewParallel creates a pooled Backend. workers <= 0 means runtime.NumCPU().
func NewParallel(workers int, opts ...Option) *Parallel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Parallel{workers: workers, opts: buildOptions(KindParallel, opts)}
}

// Process implements Backend.Process.
//
// Results are stored by job index, so their order never depends on which
// worker finished first. The first failure cancels the context seen by the
// remaining jobs and no further jobs are started.
func (p *Parallel) Process(ctx context.Context, jobs []Job) ([]any, error) {
	if len(jobs) == 0 {
		return []any{}, nil
	}
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]any, len(jobs))
	errs := make([]error, len(jobs))
	ran := make([]bool, len(jobs))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if runCtx.Err() != nil {
					continue
				}
				ran[i] = true
				r, err := runJob(runCtx, &p.opts, KindParallel, i, jobs[i])
				if err != nil {
					errs[i] = err
					cancel()
					continue
				}
				results[i] = r
			}
		}()
	}

dispatch:
	for i := range jobs {
		select {
		case indices <- i:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(indices)
	wg.Wait()

	if err := firstFailure(errs); err != nil {
		return nil, err
	}
	for i, ok := range ran {
		if !ok {
			cause := ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			return nil, scierrors.NewJobError(i, cause)
		}
	}

	p.opts.logger.Debug("jobs processed",
		log.JobsKey, len(jobs),
		log.WorkersKey, p.workers,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return results, nil
}

// firstFailure returns the lowest-index failure, preferring a real cause over
// jobs that merely observed the cancellation triggered by it.
func firstFailure(errs []error) error {
	var cancelled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !scierrors.Is(err, context.Canceled) {
			return err
		}
		if cancelled == nil {
			cancelled = err
		}
	}
	return cancelled
}

// Workers implements Backend.Workers.
func (p *Parallel) Workers() int { return p.workers }

func (p *Parallel) String() string { return fmt.Sprintf("Parallel(%d)", p.workers) }

// New builds a Backend from its configuration name.
func New(kind string, workers int, opts ...Option) (Backend, error) {
	switch kind {
	case KindSerial, "":
		return NewSerial(opts...), nil
	case KindParallel:
		return NewParallel(workers, opts...), nil
	default:
		return nil, scierrors.NewInvalidArgumentError("backend.kind", "must be serial or parallel", kind)
	}
}

// Collect runs typed functions on b and returns their results in order.
func Collect[T any](ctx context.Context, b Backend, fns []func(context.Context) (T, error)) ([]T, error) {
	jobs := make([]Job, len(fns))
	for i, fn := range fns {
		jobs[i] = func(ctx context.Context) (any, error) {
			v, err := fn(ctx)
			return v, err
		}
	}
	raw, err := b.Process(ctx, jobs)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(raw))
	for i, r := range raw {
		if r == nil {
			continue
		}
		v, ok := r.(T)
		if !ok {
			return nil, scierrors.NewJobError(i, scierrors.Newf("unexpected result type %T", r))
		}
		out[i] = v
	}
	return out, nil
}
