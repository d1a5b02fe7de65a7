package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scicv/pkg/errors"
)

// checkVectors は2つのベクトルが空でなく同じ長さであることを確認する
func checkVectors(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yPred.Len() != n {
		return 0, errors.NewShapeError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// residuals は yTrue - yPred を返す
func residuals(yTrue, yPred *mat.VecDense) []float64 {
	diff := mat.NewVecDense(yTrue.Len(), nil)
	diff.SubVec(yTrue, yPred)
	return diff.RawVector().Data
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	// MSE = (1/n) * Σ(yTrue - yPred)²
	r := residuals(yTrue, yPred)
	return floats.Dot(r, r) / float64(n), nil
}

// MSEMatrix は列ベクトル（n×1 行列）の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "MSEMatrix")
	}
	if rTrue != rPred {
		return 0, errors.NewShapeError("MSEMatrix", rTrue, rPred, 0)
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewShapeError("MSEMatrix", 1, max(cTrue, cPred), 1)
	}

	trueVec := mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue))
	predVec := mat.NewVecDense(rPred, mat.Col(nil, 0, yPred))
	return MSE(trueVec, predVec)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	// MAE = (1/n) * Σ|yTrue - yPred|
	return floats.Norm(residuals(yTrue, yPred), 1) / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkVectors("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := mat.Sum(yTrue) / float64(n)

	// 全変動（TSS）と残差変動（RSS）
	var tss float64
	for i := 0; i < n; i++ {
		d := yTrue.AtVec(i) - yMean
		tss += d * d
	}
	r := residuals(yTrue, yPred)
	rss := floats.Dot(r, r)

	// すべての yTrue が同じ値の場合は定義できない
	if tss == 0 {
		return 0, errors.NewInvalidArgumentError("yTrue", "total sum of squares is zero (no variance)", yMean)
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}
