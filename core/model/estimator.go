// Package model は交差検証エンジンが消費する推定器のインターフェースを定義します。
package model

import "github.com/YuminosukeSato/scicv/core/dataset"

// Trainable は学習可能なモデルのインターフェース
type Trainable interface {
	// Train はラベル付きデータセットでモデルを学習させる
	Train(ds *dataset.Dataset) error
}

// Predictive は予測可能なモデルのインターフェース
type Predictive interface {
	// Predict はデータセットの各行に対するラベルを予測する。
	// Train より前に呼ばれた場合は NotTrainedError を返す
	Predict(ds *dataset.Dataset) ([]any, error)
}

// Estimator は交差検証で評価されるモデル
type Estimator interface {
	Trainable
	Predictive

	// Clone は同じハイパーパラメータを持つ未学習の独立したコピーを返す
	Clone() Estimator
}

// EstimatorType は推定器の種類
type EstimatorType int

const (
	// Classifier は分類器
	Classifier EstimatorType = iota
	// Regressor は回帰器
	Regressor
	// Clusterer はクラスタリング
	Clusterer
	// AnomalyDetector は異常検知器
	AnomalyDetector
)

func (t EstimatorType) String() string {
	switch t {
	case Classifier:
		return "classifier"
	case Regressor:
		return "regressor"
	case Clusterer:
		return "clusterer"
	case AnomalyDetector:
		return "anomaly detector"
	default:
		return "unknown"
	}
}

// Typed は自身の種類を報告できる推定器
type Typed interface {
	Type() EstimatorType
}

// Generator はテスト用データセットを生成する
type Generator interface {
	// Generate は n 行のデータセットを生成する
	Generate(n int) (*dataset.Dataset, error)
}
