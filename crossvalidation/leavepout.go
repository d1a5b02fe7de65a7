package crossvalidation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/scicv/core/dataset"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
)

// LeavePOut holds out every combination of p samples as the testing fold and
// trains on the remaining n-p.
//
// C(n, p) grows very quickly. While it stays within the fold cap
// (WithMaxFolds, DefaultMaxFolds) every combination is enumerated in
// lexicographic order. Beyond the cap, cap distinct combinations are drawn
// at random, emitted in lexicographic order, and a FoldCapWarning is raised.
type LeavePOut struct {
	*engine
	p int
}

// NewLeavePOut creates a Leave-P-Out validator.
func NewLeavePOut(p int, opts ...Option) *LeavePOut {
	l := &LeavePOut{p: p}
	l.engine = newEngine(l, opts)
	return l
}

func (l *LeavePOut) String() string { return fmt.Sprintf("LeavePOut(p=%d)", l.p) }

// P returns the number of held-out samples per fold.
func (l *LeavePOut) P() int { return l.p }

// Combinations returns C(n, p) as a float64, which may be +Inf.
func (l *LeavePOut) Combinations(n int) float64 {
	return math.Exp(combin.LogGeneralizedBinomial(float64(n), float64(l.p)))
}

// Sampled reports whether a dataset of n rows exceeds the fold cap.
func (l *LeavePOut) Sampled(n int) bool {
	if l.p <= 0 || l.p >= n || l.settings.maxFolds == 0 {
		return false
	}
	logTotal := combin.LogGeneralizedBinomial(float64(n), float64(l.p))
	// the tolerance absorbs rounding when C(n, p) equals the cap exactly
	return logTotal > math.Log(float64(l.settings.maxFolds))+1e-9
}

// Split implements Splitter.
func (l *LeavePOut) Split(ds *dataset.Dataset, rng *rand.Rand) ([]Fold, error) {
	n := ds.NumRows()
	if l.p <= 0 || l.p >= n {
		return nil, scierrors.NewInvalidArgumentError("p", fmt.Sprintf("must be in [1, %d)", n), l.p)
	}
	if l.settings.maxFolds < 0 {
		return nil, scierrors.NewInvalidArgumentError("max_folds", "must be non-negative", l.settings.maxFolds)
	}

	var combos [][]int
	if l.Sampled(n) {
		total := l.Combinations(n)
		scierrors.Warn(scierrors.NewFoldCapWarning(l.String(), total, l.settings.maxFolds))
		l.settings.logger.Warn("fold cap reached, sampling combinations",
			log.CombinationsKey, total,
			log.MaxFoldsKey, l.settings.maxFolds,
		)
		combos = sampleCombinations(n, l.p, l.settings.maxFolds, rng)
	} else {
		gen := combin.NewCombinationGenerator(n, l.p)
		for gen.Next() {
			combos = append(combos, gen.Combination(nil))
		}
	}

	folds := make([]Fold, len(combos))
	for i, test := range combos {
		testing, err := ds.Subset(test)
		if err != nil {
			return nil, err
		}
		training, err := ds.Subset(complement(n, test))
		if err != nil {
			return nil, err
		}
		folds[i] = Fold{Train: training, Test: testing}
	}
	return folds, nil
}

// sampleCombinations draws k distinct sorted p-subsets of [0, n) and returns
// them in lexicographic order. The caller guarantees C(n, p) > k.
func sampleCombinations(n, p, k int, rng *rand.Rand) [][]int {
	seen := mapset.NewThreadUnsafeSet[string]()
	combos := make([][]int, 0, k)
	for len(combos) < k {
		c := randomCombination(n, p, rng)
		if seen.Add(fmt.Sprint(c)) {
			combos = append(combos, c)
		}
	}
	slices.SortFunc(combos, func(a, b []int) int { return slices.Compare(a, b) })
	return combos
}

// randomCombination returns a uniformly random sorted p-subset of [0, n)
// using Floyd's algorithm.
func randomCombination(n, p int, rng *rand.Rand) []int {
	chosen := mapset.NewThreadUnsafeSet[int]()
	for j := n - p; j < n; j++ {
		if !chosen.Add(rng.IntN(j + 1)) {
			chosen.Add(j)
		}
	}
	c := chosen.ToSlice()
	slices.Sort(c)
	return c
}

// complement returns [0, n) minus the sorted indices in held.
func complement(n int, held []int) []int {
	out := make([]int, 0, n-len(held))
	k := 0
	for i := 0; i < n; i++ {
		if k < len(held) && held[k] == i {
			k++
			continue
		}
		out = append(out, i)
	}
	return out
}
