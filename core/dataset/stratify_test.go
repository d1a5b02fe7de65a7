package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

func classes(t *testing.T, counts map[string]int, order []string) *Dataset {
	t.Helper()
	var rows [][]any
	var labels []any
	for _, c := range order {
		for i := 0; i < counts[c]; i++ {
			rows = append(rows, []any{len(rows)})
			labels = append(labels, c)
		}
	}
	return mustLabeled(t, rows, labels)
}

func TestStratify(t *testing.T) {
	d := classes(t, map[string]int{"a": 3, "b": 2}, []string{"a", "b"})
	strata, err := d.Stratify()
	require.NoError(t, err)
	require.Len(t, strata, 2)
	assert.Equal(t, 3, strata["a"].NumRows())
	assert.Equal(t, 2, strata["b"].NumRows())
	assert.Equal(t, []any{"a", "b"}, d.StratumKeys())

	u, _ := NewUnlabeled([][]any{{1}})
	_, err = u.Stratify()
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}

func TestStratifiedFoldKeepsProportions(t *testing.T) {
	d := classes(t, map[string]int{"a": 6, "b": 3, "c": 1}, []string{"a", "b", "c"})
	folds, err := d.StratifiedFold(3)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	total := 0
	minSize, maxSize := d.NumRows(), 0
	for _, f := range folds {
		counts := map[any]int{}
		for _, l := range f.Labels() {
			counts[l]++
		}
		assert.Equal(t, 2, counts["a"])
		assert.Equal(t, 1, counts["b"])
		total += f.NumRows()
		minSize = min(minSize, f.NumRows())
		maxSize = max(maxSize, f.NumRows())
	}
	assert.Equal(t, d.NumRows(), total)
	assert.LessOrEqual(t, maxSize-minSize, 1)
}

func TestStratifiedFoldBalancesRemainders(t *testing.T) {
	// every class leaves a remainder of one, so the extras must rotate
	d := classes(t, map[string]int{"a": 4, "b": 4, "c": 4}, []string{"a", "b", "c"})
	folds, err := d.StratifiedFold(3)
	require.NoError(t, err)
	for _, f := range folds {
		assert.Equal(t, 4, f.NumRows())
	}

	_, err = d.StratifiedFold(13)
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}

func TestStratifiedSplit(t *testing.T) {
	d := classes(t, map[string]int{"a": 4, "b": 2}, []string{"a", "b"})
	train, test, err := d.StratifiedSplit(0.5)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "a", "b"}, train.Labels())
	assert.Equal(t, []any{"a", "a", "b"}, test.Labels())
	assert.Equal(t, []any{0.0, 1.0, 4.0}, firstColumn(t, train))

	_, _, err = d.StratifiedSplit(2)
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}
