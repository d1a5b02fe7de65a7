// Package dummy provides baseline estimators that ignore the features.
// They give a floor that any real estimator should beat under the same
// validator and metric.
package dummy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/model"
	"github.com/YuminosukeSato/scicv/pkg/errors"
)

// ClassifierStrategy は DummyClassifier の予測方法
type ClassifierStrategy string

const (
	// MostFrequent は学習データで最も多いラベルを返す（同数の場合は先に現れたもの）
	MostFrequent ClassifierStrategy = "most_frequent"
	// ConstantLabel は指定されたラベルを常に返す
	ConstantLabel ClassifierStrategy = "constant"
)

// DummyClassifier は特徴量を無視してラベルを予測する分類器
type DummyClassifier struct {
	state *model.StateManager

	strategy ClassifierStrategy
	constant any

	prediction any
}

// ClassifierOption は設定オプション
type ClassifierOption func(*DummyClassifier)

// WithConstantLabel は常に label を予測させる
func WithConstantLabel(label any) ClassifierOption {
	return func(c *DummyClassifier) {
		c.strategy = ConstantLabel
		c.constant = label
	}
}

// NewDummyClassifier は新しい DummyClassifier を作成
func NewDummyClassifier(options ...ClassifierOption) *DummyClassifier {
	c := &DummyClassifier{
		state:    model.NewStateManager(),
		strategy: MostFrequent,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Train はラベルの分布を学習する
func (c *DummyClassifier) Train(ds *dataset.Dataset) error {
	if err := requireLabels("DummyClassifier.Train", ds); err != nil {
		return err
	}
	switch c.strategy {
	case ConstantLabel:
		c.prediction = c.constant
	default:
		labels := ds.Labels()
		counts := lo.CountValues(labels)
		best := 0
		for _, label := range ds.PossibleOutcomes() {
			if counts[label] > best {
				best = counts[label]
				c.prediction = label
			}
		}
	}
	c.state.MarkTrained(ds.NumColumns(), ds.NumRows())
	return nil
}

// Predict は学習したラベルを各行に返す
func (c *DummyClassifier) Predict(ds *dataset.Dataset) ([]any, error) {
	if err := c.state.RequireTrained("DummyClassifier", "Predict"); err != nil {
		return nil, err
	}
	return lo.Times(ds.NumRows(), func(int) any { return c.prediction }), nil
}

// Clone は同じ設定の未学習コピーを返す
func (c *DummyClassifier) Clone() model.Estimator {
	return &DummyClassifier{
		state:    model.NewStateManager(),
		strategy: c.strategy,
		constant: c.constant,
	}
}

// Type implements model.Typed.
func (c *DummyClassifier) Type() model.EstimatorType { return model.Classifier }

func (c *DummyClassifier) String() string {
	return fmt.Sprintf("DummyClassifier(strategy=%s)", c.strategy)
}

// RegressorStrategy は DummyRegressor の予測方法
type RegressorStrategy string

const (
	// Mean は学習ラベルの平均を返す
	Mean RegressorStrategy = "mean"
	// Median は学習ラベルの中央値を返す（偶数個の場合は下側の値）
	Median RegressorStrategy = "median"
)

// DummyRegressor は特徴量を無視して定数を予測する回帰器
type DummyRegressor struct {
	state *model.StateManager

	strategy RegressorStrategy

	prediction float64
}

// RegressorOption は設定オプション
type RegressorOption func(*DummyRegressor)

// WithRegressorStrategy は予測方法を設定
func WithRegressorStrategy(s RegressorStrategy) RegressorOption {
	return func(r *DummyRegressor) {
		r.strategy = s
	}
}

// NewDummyRegressor は新しい DummyRegressor を作成
func NewDummyRegressor(options ...RegressorOption) *DummyRegressor {
	r := &DummyRegressor{
		state:    model.NewStateManager(),
		strategy: Mean,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Train は数値ラベルの平均または中央値を学習する
func (r *DummyRegressor) Train(ds *dataset.Dataset) error {
	if err := requireLabels("DummyRegressor.Train", ds); err != nil {
		return err
	}
	values := make([]float64, 0, ds.NumRows())
	for i, l := range ds.Labels() {
		v, ok := l.(float64)
		if !ok {
			return errors.NewFeatureTypeError("DummyRegressor.Train", i, -1, l)
		}
		values = append(values, v)
	}
	switch r.strategy {
	case Median:
		sort.Float64s(values)
		r.prediction = stat.Quantile(0.5, stat.Empirical, values, nil)
	case Mean:
		r.prediction = stat.Mean(values, nil)
	default:
		return errors.NewInvalidArgumentError("strategy", "must be mean or median", string(r.strategy))
	}
	r.state.MarkTrained(ds.NumColumns(), ds.NumRows())
	return nil
}

// Predict は学習した定数を各行に返す
func (r *DummyRegressor) Predict(ds *dataset.Dataset) ([]any, error) {
	if err := r.state.RequireTrained("DummyRegressor", "Predict"); err != nil {
		return nil, err
	}
	return lo.Times(ds.NumRows(), func(int) any { return r.prediction }), nil
}

// Clone は同じ設定の未学習コピーを返す
func (r *DummyRegressor) Clone() model.Estimator {
	return &DummyRegressor{state: model.NewStateManager(), strategy: r.strategy}
}

// Type implements model.Typed.
func (r *DummyRegressor) Type() model.EstimatorType { return model.Regressor }

func (r *DummyRegressor) String() string {
	return fmt.Sprintf("DummyRegressor(strategy=%s)", r.strategy)
}

func requireLabels(op string, ds *dataset.Dataset) error {
	if ds == nil || !ds.Labeled() {
		return errors.NewInvalidArgumentError(op, "dataset must be labeled", "unlabeled")
	}
	if ds.Empty() {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	return nil
}

// Names lists the estimators ByName accepts.
var Names = []string{"dummy_classifier", "dummy_regressor", "dummy_median_regressor"}

// ByName は設定ファイルの名前から推定器を作成する
func ByName(name string) (model.Estimator, error) {
	switch strings.ToLower(name) {
	case "dummy_classifier", "most_frequent":
		return NewDummyClassifier(), nil
	case "dummy_regressor", "mean":
		return NewDummyRegressor(), nil
	case "dummy_median_regressor", "median":
		return NewDummyRegressor(WithRegressorStrategy(Median)), nil
	default:
		return nil, errors.NewInvalidArgumentError("estimator", "must be one of "+strings.Join(Names, ", "), name)
	}
}
