// Package metrics は交差検証で使う評価指標を提供します。
//
// Metric はすべて「大きいほど良い」スコアを返します。誤差系の指標は
// 符号を反転して返すため、値域は (-Inf, 0] になります。
package metrics

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scicv/core/model"
	"github.com/YuminosukeSato/scicv/pkg/errors"
)

// Metric は予測とラベルからスコアを計算する純粋関数
type Metric interface {
	// Range はスコアの値域を返す
	Range() (min, max float64)

	// Score は予測値と正解ラベルからスコアを計算する
	Score(predictions, labels []any) (float64, error)

	// Compatibility はこの指標で評価できる推定器の種類を返す
	Compatibility() []model.EstimatorType

	String() string
}

// Compatible は推定器の種類が指標と互換性があるかを返す
func Compatible(m Metric, t model.EstimatorType) bool {
	return slices.Contains(m.Compatibility(), t)
}

// ByName は設定ファイルの名前から Metric を返す
func ByName(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "accuracy":
		return Accuracy{}, nil
	case "mse", "mean_squared_error":
		return MeanSquaredError{}, nil
	case "mae", "mean_absolute_error":
		return MeanAbsoluteError{}, nil
	case "r2", "r_squared":
		return RSquared{}, nil
	default:
		return nil, errors.NewInvalidArgumentError("metric", "must be one of accuracy, mse, mae, r2", name)
	}
}

// checkLengths は予測とラベルの長さを確認する
func checkLengths(op string, predictions, labels []any) error {
	if len(labels) == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if len(predictions) != len(labels) {
		return errors.NewShapeError(op, len(labels), len(predictions), 0)
	}
	return nil
}

// toFloat は数値型を float64 に変換する
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// toVectors は予測とラベルを gonum のベクトルに変換する
func toVectors(op string, predictions, labels []any) (yTrue, yPred *mat.VecDense, err error) {
	if err := checkLengths(op, predictions, labels); err != nil {
		return nil, nil, err
	}
	n := len(labels)
	trueData := make([]float64, n)
	predData := make([]float64, n)
	for i := range labels {
		var ok bool
		if trueData[i], ok = toFloat(labels[i]); !ok {
			return nil, nil, errors.NewFeatureTypeError(op, i, -1, labels[i])
		}
		if predData[i], ok = toFloat(predictions[i]); !ok {
			return nil, nil, errors.NewFeatureTypeError(op, i, -1, predictions[i])
		}
	}
	return mat.NewVecDense(n, trueData), mat.NewVecDense(n, predData), nil
}

// Accuracy は正解率 [0, 1]
type Accuracy struct{}

func (Accuracy) Range() (float64, float64) { return 0, 1 }

func (Accuracy) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Classifier, model.AnomalyDetector}
}

func (Accuracy) String() string { return "Accuracy" }

// Score は予測がラベルと一致した割合を返す。数値は型に関係なく値で比較する
func (Accuracy) Score(predictions, labels []any) (float64, error) {
	if err := checkLengths("Accuracy", predictions, labels); err != nil {
		return 0, err
	}
	correct := 0
	for i := range labels {
		if sameLabel(predictions[i], labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(labels)), nil
}

func sameLabel(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return a == b
}

// MeanSquaredError は符号を反転した平均二乗誤差
type MeanSquaredError struct{}

func (MeanSquaredError) Range() (float64, float64) { return math.Inf(-1), 0 }

func (MeanSquaredError) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Regressor}
}

func (MeanSquaredError) String() string { return "Mean Squared Error" }

func (MeanSquaredError) Score(predictions, labels []any) (float64, error) {
	yTrue, yPred, err := toVectors("MeanSquaredError", predictions, labels)
	if err != nil {
		return 0, err
	}
	mse, err := MSE(yTrue, yPred)
	return -mse, err
}

// MeanAbsoluteError は符号を反転した平均絶対誤差
type MeanAbsoluteError struct{}

func (MeanAbsoluteError) Range() (float64, float64) { return math.Inf(-1), 0 }

func (MeanAbsoluteError) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Regressor}
}

func (MeanAbsoluteError) String() string { return "Mean Absolute Error" }

func (MeanAbsoluteError) Score(predictions, labels []any) (float64, error) {
	yTrue, yPred, err := toVectors("MeanAbsoluteError", predictions, labels)
	if err != nil {
		return 0, err
	}
	mae, err := MAE(yTrue, yPred)
	return -mae, err
}

// RSquared は決定係数 (-Inf, 1]
type RSquared struct{}

func (RSquared) Range() (float64, float64) { return math.Inf(-1), 1 }

func (RSquared) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Regressor}
}

func (RSquared) String() string { return "R Squared" }

// Score はテスト fold のラベルに分散がない場合エラーを返す
func (RSquared) Score(predictions, labels []any) (float64, error) {
	yTrue, yPred, err := toVectors("RSquared", predictions, labels)
	if err != nil {
		return 0, err
	}
	return R2Score(yTrue, yPred)
}
