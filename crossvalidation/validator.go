// Package crossvalidation estimates how well an estimator generalises by
// repeatedly training it on one part of a dataset and scoring it on another.
//
// Every strategy (LeavePOut, KFold, HoldOut) runs the same protocol:
//
//	Idle -> Partitioning -> Dispatching -> Aggregating -> Done
//
// Folds are turned into backend jobs, each training its own clone of the
// estimator, and the fold scores are reduced to their arithmetic mean. A
// single failing fold aborts the whole run.
package crossvalidation

import (
	"context"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/model"
	"github.com/YuminosukeSato/scicv/core/parallel"
	"github.com/YuminosukeSato/scicv/metrics"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
)

// Validator returns a single validation score for an estimator.
type Validator interface {
	Test(ctx context.Context, est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) (float64, error)
}

// Reporter is a Validator that can also return per-fold detail.
type Reporter interface {
	Validator
	Evaluate(ctx context.Context, est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) (*Report, error)
}

// Fold is one (training, testing) pair.
type Fold struct {
	Train *dataset.Dataset
	Test  *dataset.Dataset
}

// Splitter generates the folds of a strategy.
type Splitter interface {
	Split(ds *dataset.Dataset, rng *rand.Rand) ([]Fold, error)
	String() string
}

// sampler is implemented by splitters that may evaluate a random subset of
// their folds.
type sampler interface {
	Sampled(n int) bool
}

// Report is the outcome of one validation run.
type Report struct {
	Strategy   string
	Estimator  string
	Metric     string
	Scores     []float64
	TrainSizes []int
	TestSizes  []int
	Mean       float64
	Std        float64
	// Sampled is set when LeavePOut evaluated a random subset of combinations.
	Sampled   bool
	StartedAt time.Time
	Duration  time.Duration
}

// engine runs the validation protocol for a Splitter.
type engine struct {
	splitter Splitter
	settings settings
}

func newEngine(s Splitter, opts []Option) *engine {
	return &engine{splitter: s, settings: buildSettings(opts)}
}

// Test implements Validator.
func (e *engine) Test(ctx context.Context, est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) (float64, error) {
	r, err := e.Evaluate(ctx, est, ds, metric)
	if err != nil {
		return 0, err
	}
	return r.Mean, nil
}

// Evaluate implements Reporter.
func (e *engine) Evaluate(ctx context.Context, est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) (*Report, error) {
	strategy := e.splitter.String()
	r, err := e.run(ctx, est, ds, metric)
	if e.settings.observer != nil {
		score := 0.0
		if r != nil {
			score = r.Mean
		}
		e.settings.observer.ObserveValidation(strategy, score, err)
	}
	return r, err
}

func (e *engine) run(ctx context.Context, est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) (*Report, error) {
	start := time.Now()
	logger := e.settings.logger.With(log.StrategyKey, e.splitter.String())
	phase := func(p string) { logger.Debug("phase change", log.PhaseKey, p) }

	phase(log.PhaseIdle)
	if err := checkInputs(est, ds, metric); err != nil {
		return nil, err
	}

	phase(log.PhasePartitioning)
	folds, err := e.splitter.Split(ds, e.settings.rng())
	if err != nil {
		logger.Error("partitioning failed", err)
		return nil, err
	}
	sampled := false
	if s, ok := e.splitter.(sampler); ok {
		sampled = s.Sampled(ds.NumRows())
	}

	phase(log.PhaseDispatching)
	logger.Debug("dispatching folds",
		log.FoldsKey, len(folds),
		log.BackendKey, e.settings.backend.String(),
		log.SamplesKey, ds.NumRows(),
	)
	jobs := make([]func(context.Context) (float64, error), len(folds))
	for i, f := range folds {
		jobs[i] = foldJob(i, f, est, metric)
	}
	scores, err := parallel.Collect(ctx, e.settings.backend, jobs)
	if err != nil {
		logger.Error("validation aborted", err, log.MetricKey, metric.String())
		return nil, err
	}

	phase(log.PhaseAggregating)
	if len(scores) == 0 {
		return nil, scierrors.NewEmptyResultError(e.splitter.String())
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if len(scores) == 1 {
		std = 0
	}

	report := &Report{
		Strategy:   e.splitter.String(),
		Estimator:  estimatorName(est),
		Metric:     metric.String(),
		Scores:     scores,
		TrainSizes: make([]int, len(folds)),
		TestSizes:  make([]int, len(folds)),
		Mean:       mean,
		Std:        std,
		Sampled:    sampled,
		StartedAt:  start,
		Duration:   time.Since(start),
	}
	for i, f := range folds {
		report.TrainSizes[i] = f.Train.NumRows()
		report.TestSizes[i] = f.Test.NumRows()
	}

	phase(log.PhaseDone)
	logger.Info("validation finished",
		log.FoldsKey, len(scores),
		log.ScoreKey, mean,
		log.StdKey, std,
		log.DurationMsKey, report.Duration.Milliseconds(),
	)
	return report, nil
}

func checkInputs(est model.Estimator, ds *dataset.Dataset, metric metrics.Metric) error {
	switch {
	case est == nil:
		return scierrors.NewInvalidArgumentError("estimator", "must not be nil", nil)
	case metric == nil:
		return scierrors.NewInvalidArgumentError("metric", "must not be nil", nil)
	case ds == nil || !ds.Labeled():
		return scierrors.NewInvalidArgumentError("dataset", "must be labeled", "unlabeled")
	}
	if typed, ok := est.(model.Typed); ok && !metrics.Compatible(metric, typed.Type()) {
		return scierrors.NewInvalidArgumentError("metric", metric.String()+" is not compatible with a "+typed.Type().String(), metric.String())
	}
	return nil
}

// foldJob trains a fresh clone on the training fold and scores the testing fold.
func foldJob(index int, f Fold, est model.Estimator, metric metrics.Metric) func(context.Context) (float64, error) {
	return func(ctx context.Context) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		clone := est.Clone()
		if err := clone.Train(f.Train); err != nil {
			return 0, err
		}
		predictions, err := clone.Predict(f.Test)
		if err != nil {
			return 0, err
		}
		score, err := metric.Score(predictions, f.Test.Labels())
		if err != nil {
			return 0, err
		}
		if err := scierrors.CheckScalar(metric.String(), score, index); err != nil {
			return 0, err
		}
		return score, nil
	}
}

func estimatorName(est model.Estimator) string {
	if s, ok := est.(interface{ String() string }); ok {
		return s.String()
	}
	return "estimator"
}
