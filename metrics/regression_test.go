package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scicv/pkg/errors"
)

func vec(v ...float64) *mat.VecDense { return mat.NewVecDense(len(v), v) }

func TestVectorMetrics(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		mse   float64
		mae   float64
	}{
		{"perfect", vec(1, 2, 3), vec(1, 2, 3), 0, 0},
		// 残差はすべて ±0.5
		{"half off", vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25, 0.5},
		{"mixed", vec(10, 20, 30), vec(12, 18, 33), 17.0 / 3, 7.0 / 3},
		{"single", vec(-1), vec(2), 9, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mse, err := MSE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.mse, mse, 1e-12)

			rmse, err := RMSE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, math.Sqrt(tt.mse), rmse, 1e-12)

			mae, err := MAE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.mae, mae, 1e-12)
		})
	}
}

func TestVectorMetricErrors(t *testing.T) {
	fns := map[string]func(a, b *mat.VecDense) (float64, error){
		"MSE": MSE, "RMSE": RMSE, "MAE": MAE, "R2Score": R2Score,
	}
	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			_, err := fn(vec(1, 2, 3), vec(1, 2))
			var shapeErr *errors.ShapeError
			assert.True(t, errors.As(err, &shapeErr))

			_, err = fn(&mat.VecDense{}, &mat.VecDense{})
			assert.True(t, errors.Is(err, errors.ErrEmptyData))
		})
	}
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{2, 2, 5})
	got, err := MSEMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3, got, 1e-12)

	// 転置された行ベクトルは受け付けない
	_, err = MSEMatrix(yTrue.T(), yPred.T())
	var shapeErr *errors.ShapeError
	assert.True(t, errors.As(err, &shapeErr))

	_, err = MSEMatrix(yTrue, mat.NewDense(2, 1, []float64{1, 2}))
	assert.True(t, errors.As(err, &shapeErr))

	_, err = MSEMatrix(yTrue, mat.NewDense(3, 2, nil))
	assert.True(t, errors.As(err, &shapeErr))
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect", vec(1, 2, 3, 4), vec(1, 2, 3, 4), 1},
		{"mean prediction", vec(1, 2, 3, 4), vec(2.5, 2.5, 2.5, 2.5), 0},
		// RSS = 0.25 * 4, TSS = 5
		{"close", vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.8},
		{"worse than mean", vec(1, 2, 3), vec(3, 2, 1), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestR2ScoreConstantTarget(t *testing.T) {
	_, err := R2Score(vec(2, 2, 2), vec(1, 2, 3))
	var argErr *errors.InvalidArgumentError
	assert.True(t, errors.As(err, &argErr))
}

func BenchmarkMSE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.5)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
