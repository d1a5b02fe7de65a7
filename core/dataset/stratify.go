package dataset

import (
	"math"

	"github.com/samber/lo"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// strata groups row indices by label, keyed in first-seen label order.
func (d *Dataset) strata(op string) ([]any, map[any][]int, error) {
	if !d.labeled {
		return nil, nil, scierrors.NewInvalidArgumentError(op, "dataset must be labeled", "unlabeled")
	}
	groups := lo.GroupBy(lo.Range(d.NumRows()), func(i int) any { return d.labels[i] })
	return d.PossibleOutcomes(), groups, nil
}

// Stratify splits a labeled dataset into one dataset per label.
// Use StratumKeys for a deterministic iteration order.
func (d *Dataset) Stratify() (map[any]*Dataset, error) {
	_, groups, err := d.strata("Stratify")
	if err != nil {
		return nil, err
	}
	return lo.MapValues(groups, func(idx []int, _ any) *Dataset { return d.derive(idx) }), nil
}

// StratumKeys returns the labels in first-seen order.
func (d *Dataset) StratumKeys() []any { return d.PossibleOutcomes() }

// StratifiedFold partitions a labeled dataset into k folds that each keep
// roughly the class proportions of the whole. Rows of a class are assigned
// to folds contiguously; the remainder of each class rotates across folds so
// that total fold sizes differ by at most one.
func (d *Dataset) StratifiedFold(k int) ([]*Dataset, error) {
	keys, groups, err := d.strata("StratifiedFold")
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > d.NumRows() {
		return nil, scierrors.NewInvalidArgumentError("k", "must be in [1, n]", k)
	}
	folds := make([][]int, k)
	offset := 0
	for _, key := range keys {
		rows := groups[key]
		base, rem := len(rows)/k, len(rows)%k
		pos := 0
		for f := 0; f < k; f++ {
			size := base
			if (f-offset+k)%k < rem {
				size++
			}
			folds[f] = append(folds[f], rows[pos:pos+size]...)
			pos += size
		}
		offset = (offset + rem) % k
	}
	return lo.Map(folds, func(idx []int, _ int) *Dataset { return d.derive(idx) }), nil
}

// StratifiedSplit is Split applied per class: round(ratio*c) rows of every
// class go to the training set, in original order.
func (d *Dataset) StratifiedSplit(ratio float64) (train, test *Dataset, err error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, nil, scierrors.NewInvalidArgumentError("ratio", "must be in [0, 1]", ratio)
	}
	keys, groups, err := d.strata("StratifiedSplit")
	if err != nil {
		return nil, nil, err
	}
	var trainIdx, testIdx []int
	for _, key := range keys {
		rows := groups[key]
		cut := int(math.Round(ratio * float64(len(rows))))
		trainIdx = append(trainIdx, rows[:cut]...)
		testIdx = append(testIdx, rows[cut:]...)
	}
	return d.derive(trainIdx), d.derive(testIdx), nil
}
