package dataset

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

func TestSplitPrefixSuffix(t *testing.T) {
	d, err := NewUnlabeled([][]any{{1, 2}, {3, 4}, {5, 6}, {7, 8}})
	require.NoError(t, err)

	train, test, err := d.Split(0.5)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1.0, 2.0}, {3.0, 4.0}}, train.Samples().Samples())
	assert.Equal(t, [][]any{{5.0, 6.0}, {7.0, 8.0}}, test.Samples().Samples())
}

func TestSplitRatios(t *testing.T) {
	d := sequential(t, 5)
	tests := []struct {
		ratio     float64
		wantTrain int
		wantErr   bool
	}{
		{0, 0, false},
		{1, 5, false},
		{0.3, 2, false},
		{0.5, 3, false}, // 2.5 rounds half away from zero
		{-0.1, 0, true},
		{1.5, 0, true},
	}
	for _, tt := range tests {
		train, test, err := d.Split(tt.ratio)
		if tt.wantErr {
			var argErr *scierrors.InvalidArgumentError
			assert.True(t, scierrors.As(err, &argErr), "ratio %v", tt.ratio)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.wantTrain, train.NumRows(), "ratio %v", tt.ratio)
		assert.Equal(t, 5-tt.wantTrain, test.NumRows())
		assert.True(t, train.Labeled())
	}
}

func TestRandomizeIsSeededPermutation(t *testing.T) {
	d := sequential(t, 50)

	a := d.Randomize(NewRand(7))
	b := d.Randomize(NewRand(7))
	assert.True(t, a.Equal(b))

	got := firstColumn(t, a)
	want := firstColumn(t, d)
	assert.ElementsMatch(t, want, got)
	assert.NotEqual(t, want, got)

	// labels travel with their rows
	for i, v := range got {
		l, _ := a.Label(i)
		assert.Equal(t, float64(int(v.(float64))%2), l)
	}
}

func TestFoldSizesProperty(t *testing.T) {
	for n := 1; n <= 20; n++ {
		d := sequential(t, n)
		for k := 1; k <= n; k++ {
			folds, err := d.Fold(k)
			require.NoError(t, err)
			require.Len(t, folds, k)

			sizes := make([]int, k)
			var rebuilt []any
			for i, f := range folds {
				sizes[i] = f.NumRows()
				rebuilt = append(rebuilt, firstColumn(t, f)...)
			}
			total := 0
			for _, s := range sizes {
				total += s
			}
			assert.Equal(t, n, total)
			assert.LessOrEqual(t, slices.Max(sizes)-slices.Min(sizes), 1)
			assert.True(t, slices.IsSortedFunc(sizes, func(a, b int) int { return b - a }), "earlier folds absorb the remainder")
			assert.Equal(t, firstColumn(t, d), rebuilt)
		}
	}
}

func TestFoldInvalidK(t *testing.T) {
	d := sequential(t, 3)
	for _, k := range []int{0, -1, 4} {
		_, err := d.Fold(k)
		var argErr *scierrors.InvalidArgumentError
		assert.True(t, scierrors.As(err, &argErr), "k=%d", k)
	}
}

func TestBatch(t *testing.T) {
	d := sequential(t, 7)
	batches, err := d.Batch(3)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, []int{3, 3, 1}, []int{batches[0].NumRows(), batches[1].NumRows(), batches[2].NumRows()})

	_, err = d.Batch(0)
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}

func TestTakeLeaveReconstructs(t *testing.T) {
	d := sequential(t, 6)
	for n := 0; n <= d.NumRows()+2; n++ {
		take, err := d.Take(n)
		require.NoError(t, err)
		leave, err := d.Leave(n)
		require.NoError(t, err)
		assert.Equal(t, min(n, 6), take.NumRows())

		merged, err := take.Merge(leave)
		require.NoError(t, err)
		assert.True(t, merged.Equal(d), "n=%d", n)
	}

	_, err := d.Take(-1)
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
	_, err = d.Leave(-1)
	assert.True(t, scierrors.As(err, &argErr))
}

func TestSplice(t *testing.T) {
	d := sequential(t, 6)
	chunk, rest, err := d.Splice(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3.0, 4.0}, firstColumn(t, chunk))
	assert.Equal(t, []any{0.0, 1.0, 5.0}, firstColumn(t, rest))
	assert.Equal(t, 6, d.NumRows())

	chunk, rest, err = d.Splice(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, chunk.NumRows())
	assert.Equal(t, 4, rest.NumRows())

	var argErr *scierrors.InvalidArgumentError
	_, _, err = d.Splice(7, 1)
	assert.True(t, scierrors.As(err, &argErr))
	_, _, err = d.Splice(0, -1)
	assert.True(t, scierrors.As(err, &argErr))
}

func TestPartition(t *testing.T) {
	d := mustLabeled(t,
		[][]any{{1, "red"}, {4, "blue"}, {2, "red"}, {9, "green"}},
		[]any{"a", "b", "c", "d"},
	)

	left, right, err := d.Partition(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, left.Labels())
	assert.Equal(t, []any{"b", "d"}, right.Labels())

	left, right, err = d.Partition(1, "red")
	require.NoError(t, err)
	assert.Equal(t, 2, left.NumRows())
	assert.Equal(t, 2, right.NumRows())

	left, right, err = d.Partition(0, 100)
	require.NoError(t, err)
	assert.Equal(t, 4, left.NumRows())
	assert.True(t, right.Empty())
	assert.Equal(t, 2, right.NumColumns())

	_, _, err = d.Partition(3, 1)
	var idxErr *scierrors.IndexError
	assert.True(t, scierrors.As(err, &idxErr))

	_, _, err = d.Partition(0, "red")
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}

func TestRandomSubsetWithReplacement(t *testing.T) {
	d := sequential(t, 4)
	s, err := d.RandomSubsetWithReplacement(100, NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, 100, s.NumRows())
	for _, v := range firstColumn(t, s) {
		assert.Contains(t, []any{0.0, 1.0, 2.0, 3.0}, v)
	}

	again, _ := d.RandomSubsetWithReplacement(100, NewRand(1))
	assert.True(t, s.Equal(again))

	var argErr *scierrors.InvalidArgumentError
	_, err = d.RandomSubsetWithReplacement(-1, nil)
	assert.True(t, scierrors.As(err, &argErr))

	empty, _ := NewUnlabeled(nil)
	_, err = empty.RandomSubsetWithReplacement(1, nil)
	assert.True(t, scierrors.As(err, &argErr))
	zero, err := empty.RandomSubsetWithReplacement(0, nil)
	require.NoError(t, err)
	assert.True(t, zero.Empty())
}

func TestRandomWeightedSubsetAllMassOnOneRow(t *testing.T) {
	d := sequential(t, 5)
	for i := 0; i < d.NumRows(); i++ {
		for _, n := range []int{0, 1, 17} {
			weights := make([]float64, d.NumRows())
			weights[i] = 3
			s, err := d.RandomWeightedSubsetWithReplacement(n, weights, NewRand(uint64(n)))
			require.NoError(t, err)
			require.Equal(t, n, s.NumRows())
			for _, v := range firstColumn(t, s) {
				assert.Equal(t, float64(i), v)
			}
		}
	}
}

func TestRandomWeightedSubsetInvalidWeights(t *testing.T) {
	d := sequential(t, 3)
	tests := []struct {
		name    string
		weights []float64
	}{
		{"length mismatch", []float64{1, 1}},
		{"negative", []float64{1, -1, 1}},
		{"all zero", []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.RandomWeightedSubsetWithReplacement(2, tt.weights, nil)
			var argErr *scierrors.InvalidArgumentError
			assert.True(t, scierrors.As(err, &argErr))
		})
	}
}
