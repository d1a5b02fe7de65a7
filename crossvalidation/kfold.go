package crossvalidation

import (
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/scicv/core/dataset"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// KFold splits the dataset into k contiguous folds and uses each once as the
// testing fold. WithShuffle randomizes the rows first and WithStratify keeps
// the label proportions in every fold.
type KFold struct {
	*engine
	k int
}

// NewKFold creates a k-fold validator.
func NewKFold(k int, opts ...Option) *KFold {
	kf := &KFold{k: k}
	kf.engine = newEngine(kf, opts)
	return kf
}

func (kf *KFold) String() string { return fmt.Sprintf("KFold(k=%d)", kf.k) }

// Split implements Splitter.
func (kf *KFold) Split(ds *dataset.Dataset, rng *rand.Rand) ([]Fold, error) {
	if kf.k < 2 {
		return nil, scierrors.NewInvalidArgumentError("k", "must be at least 2", kf.k)
	}
	if kf.settings.shuffle {
		ds = ds.Randomize(rng)
	}
	var parts []*dataset.Dataset
	var err error
	if kf.settings.stratify {
		parts, err = ds.StratifiedFold(kf.k)
	} else {
		parts, err = ds.Fold(kf.k)
	}
	if err != nil {
		return nil, err
	}

	folds := make([]Fold, len(parts))
	for i, test := range parts {
		train, err := mergeExcept(parts, i)
		if err != nil {
			return nil, err
		}
		folds[i] = Fold{Train: train, Test: test}
	}
	return folds, nil
}

// mergeExcept concatenates every part except parts[skip].
func mergeExcept(parts []*dataset.Dataset, skip int) (*dataset.Dataset, error) {
	var out *dataset.Dataset
	for j, part := range parts {
		if j == skip {
			continue
		}
		if out == nil {
			out = part
			continue
		}
		merged, err := out.Merge(part)
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return out, nil
}

// HoldOut trains on one part of the dataset and tests on the held-out ratio.
type HoldOut struct {
	*engine
	ratio float64
}

// NewHoldOut creates a hold-out validator that tests on ratio of the rows.
func NewHoldOut(ratio float64, opts ...Option) *HoldOut {
	h := &HoldOut{ratio: ratio}
	h.engine = newEngine(h, opts)
	return h
}

func (h *HoldOut) String() string { return fmt.Sprintf("HoldOut(ratio=%g)", h.ratio) }

// Split implements Splitter.
func (h *HoldOut) Split(ds *dataset.Dataset, rng *rand.Rand) ([]Fold, error) {
	if !(h.ratio > 0 && h.ratio < 1) {
		return nil, scierrors.NewInvalidArgumentError("ratio", "must be in (0, 1)", h.ratio)
	}
	if h.settings.shuffle {
		ds = ds.Randomize(rng)
	}
	var train, test *dataset.Dataset
	var err error
	if h.settings.stratify {
		train, test, err = ds.StratifiedSplit(1 - h.ratio)
	} else {
		train, test, err = ds.Split(1 - h.ratio)
	}
	if err != nil {
		return nil, err
	}
	if train.Empty() || test.Empty() {
		return nil, scierrors.NewInvalidArgumentError("ratio", "leaves an empty training or testing set", h.ratio)
	}
	return []Fold{{Train: train, Test: test}}, nil
}
