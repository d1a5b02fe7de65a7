package crossvalidation

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/model"
	"github.com/YuminosukeSato/scicv/core/parallel"
	"github.com/YuminosukeSato/scicv/metrics"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
	"github.com/YuminosukeSato/scicv/sklearn/dummy"
)

var errTrain = scierrors.New("training failed")

// echoEstimator predicts the first feature of every testing row. Training
// fails when the training fold lacks the row whose feature equals failWithout.
type echoEstimator struct {
	failWithout float64
	trained     bool

	mu    *sync.Mutex
	sizes *[]int
}

func newEcho() *echoEstimator {
	return &echoEstimator{failWithout: -1, mu: &sync.Mutex{}, sizes: &[]int{}}
}

func (e *echoEstimator) Train(ds *dataset.Dataset) error {
	col, err := ds.Column(0)
	if err != nil {
		return err
	}
	if e.failWithout >= 0 {
		found := false
		for _, v := range col {
			if v == e.failWithout {
				found = true
			}
		}
		if !found {
			return errTrain
		}
	}
	e.mu.Lock()
	*e.sizes = append(*e.sizes, ds.NumRows())
	e.mu.Unlock()
	e.trained = true
	return nil
}

func (e *echoEstimator) Predict(ds *dataset.Dataset) ([]any, error) {
	if !e.trained {
		return nil, scierrors.NewNotTrainedError("echo", "Predict")
	}
	return ds.Column(0)
}

func (e *echoEstimator) Clone() model.Estimator {
	return &echoEstimator{failWithout: e.failWithout, mu: e.mu, sizes: e.sizes}
}

// firstPrediction scores a fold as the mean of its predictions.
type firstPrediction struct{ nan bool }

func (firstPrediction) Range() (float64, float64) { return math.Inf(-1), math.Inf(1) }

func (firstPrediction) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Classifier, model.Regressor}
}

func (firstPrediction) String() string { return "Mean Prediction" }

func (m firstPrediction) Score(predictions, _ []any) (float64, error) {
	if m.nan {
		return math.NaN(), nil
	}
	sum := 0.0
	for _, p := range predictions {
		sum += p.(float64)
	}
	return sum / float64(len(predictions)), nil
}

// indexed builds n rows whose single feature and label are the row index.
func indexed(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	rows := make([][]any, n)
	labels := make([]any, n)
	for i := range rows {
		rows[i] = []any{i}
		labels[i] = i
	}
	ds, err := dataset.NewLabeled(rows, labels)
	require.NoError(t, err)
	return ds
}

type recordingObserver struct {
	mu     sync.Mutex
	calls  []string
	scores []float64
	errs   []error
}

func (o *recordingObserver) ObserveValidation(strategy string, score float64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, strategy)
	o.scores = append(o.scores, score)
	o.errs = append(o.errs, err)
}

type emptySplitter struct{}

func (emptySplitter) Split(*dataset.Dataset, *rand.Rand) ([]Fold, error) { return nil, nil }
func (emptySplitter) String() string                                     { return "Empty" }

func TestEvaluateAggregatesFoldScores(t *testing.T) {
	est := newEcho()
	r, err := NewLeavePOut(1).Evaluate(context.Background(), est, indexed(t, 6), firstPrediction{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, r.Scores)
	assert.InDelta(t, 2.5, r.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(3.5), r.Std, 1e-12)
	assert.Equal(t, []int{5, 5, 5, 5, 5, 5}, r.TrainSizes)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1}, r.TestSizes)
	assert.Equal(t, "LeavePOut(p=1)", r.Strategy)
	assert.Equal(t, "estimator", r.Estimator)
	assert.Equal(t, "Mean Prediction", r.Metric)
	assert.False(t, r.Sampled)
	assert.Len(t, *est.sizes, 6)
}

func TestTestReturnsMean(t *testing.T) {
	score, err := NewLeavePOut(2).Test(context.Background(), newEcho(), indexed(t, 4), firstPrediction{})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, score, 1e-12)
}

func TestSingleFoldHasZeroStd(t *testing.T) {
	r, err := NewHoldOut(0.5).Evaluate(context.Background(), newEcho(), indexed(t, 4), firstPrediction{})
	require.NoError(t, err)
	require.Len(t, r.Scores, 1)
	assert.Zero(t, r.Std)
}

func TestFailingFoldAbortsRun(t *testing.T) {
	for _, backend := range []parallel.Backend{parallel.NewSerial(), parallel.NewParallel(3)} {
		t.Run(backend.String(), func(t *testing.T) {
			est := newEcho()
			est.failWithout = 3

			score, err := NewLeavePOut(1, WithBackend(backend)).Test(context.Background(), est, indexed(t, 6), firstPrediction{})
			require.Error(t, err)
			assert.Zero(t, score)

			var jobErr *scierrors.JobError
			require.True(t, scierrors.As(err, &jobErr))
			assert.Equal(t, 3, jobErr.Index)
			assert.True(t, scierrors.Is(err, errTrain))
		})
	}
}

func TestNaNScoreIsNumericalInstability(t *testing.T) {
	_, err := NewLeavePOut(1).Test(context.Background(), newEcho(), indexed(t, 3), firstPrediction{nan: true})
	var numErr *scierrors.NumericalInstabilityError
	assert.True(t, scierrors.As(err, &numErr))

	var jobErr *scierrors.JobError
	require.True(t, scierrors.As(err, &jobErr))
	assert.Equal(t, 0, jobErr.Index)
}

func TestParallelMatchesSerial(t *testing.T) {
	ds := indexed(t, 8)
	serial, err := NewLeavePOut(2).Evaluate(context.Background(), newEcho(), ds, firstPrediction{})
	require.NoError(t, err)
	par, err := NewLeavePOut(2, WithBackend(parallel.NewParallel(4))).Evaluate(context.Background(), newEcho(), ds, firstPrediction{})
	require.NoError(t, err)

	assert.Equal(t, serial.Scores, par.Scores)
	assert.Equal(t, serial.Mean, par.Mean)
}

func TestInputValidation(t *testing.T) {
	unlabeled, err := dataset.NewUnlabeled([][]any{{1}, {2}, {3}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		est    model.Estimator
		ds     *dataset.Dataset
		metric metrics.Metric
	}{
		{"nil estimator", nil, indexed(t, 3), firstPrediction{}},
		{"nil metric", newEcho(), indexed(t, 3), nil},
		{"nil dataset", newEcho(), nil, firstPrediction{}},
		{"unlabeled", newEcho(), unlabeled, firstPrediction{}},
		{"incompatible metric", dummy.NewDummyClassifier(), indexed(t, 3), metrics.MeanSquaredError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLeavePOut(1).Test(context.Background(), tt.est, tt.ds, tt.metric)
			var argErr *scierrors.InvalidArgumentError
			assert.True(t, scierrors.As(err, &argErr), "got %v", err)
		})
	}
}

func TestEmptySplitIsEmptyResult(t *testing.T) {
	e := newEngine(emptySplitter{}, nil)
	_, err := e.Test(context.Background(), newEcho(), indexed(t, 3), firstPrediction{})
	assert.True(t, scierrors.Is(err, scierrors.ErrEmptyResult))

	var emptyErr *scierrors.EmptyResultError
	assert.True(t, scierrors.As(err, &emptyErr))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLeavePOut(1).Test(ctx, newEcho(), indexed(t, 4), firstPrediction{})
	require.Error(t, err)
	assert.True(t, scierrors.Is(err, context.Canceled))
}

func TestObserverSeesEveryRun(t *testing.T) {
	obs := &recordingObserver{}
	v := NewLeavePOut(1, WithObserver(obs))

	_, err := v.Test(context.Background(), newEcho(), indexed(t, 4), firstPrediction{})
	require.NoError(t, err)
	_, err = v.Test(context.Background(), newEcho(), indexed(t, 1), firstPrediction{})
	require.Error(t, err)

	require.Len(t, obs.calls, 2)
	assert.Equal(t, []string{"LeavePOut(p=1)", "LeavePOut(p=1)"}, obs.calls)
	assert.InDelta(t, 1.5, obs.scores[0], 1e-12)
	assert.NoError(t, obs.errs[0])
	assert.Error(t, obs.errs[1])
}

func TestPhasesAreLogged(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	_, err := NewLeavePOut(1, WithLogger(logger)).Test(context.Background(), newEcho(), indexed(t, 3), firstPrediction{})
	require.NoError(t, err)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	var phases []string
	for _, e := range entries {
		if p, ok := e[log.PhaseKey].(string); ok {
			phases = append(phases, p)
		}
	}
	assert.Equal(t, []string{
		log.PhaseIdle, log.PhasePartitioning, log.PhaseDispatching, log.PhaseAggregating, log.PhaseDone,
	}, phases)
	assert.True(t, logger.ContainsField(log.StrategyKey, "LeavePOut(p=1)"))
	assert.True(t, logger.ContainsMessage("validation finished"))
}

func TestDummyBaselineAccuracy(t *testing.T) {
	rows := [][]any{{1.0}, {2.0}, {3.0}, {4.0}, {5.0}}
	labels := []any{"a", "a", "a", "a", "b"}
	ds, err := dataset.NewLabeled(rows, labels)
	require.NoError(t, err)

	// Leaving out one "a" still predicts "a"; leaving out "b" predicts "a".
	score, err := NewLeavePOut(1).Test(context.Background(), dummy.NewDummyClassifier(), ds, metrics.Accuracy{})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, score, 1e-12)
}
