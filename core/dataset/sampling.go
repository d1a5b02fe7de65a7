package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/samber/lo"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// NewRand returns a reproducible random source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// orDefault returns rng, or a freshly seeded source when rng is nil.
func orDefault(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Split cuts the dataset into a training prefix of round(ratio*n) rows and a
// testing suffix. It does not shuffle; call Randomize first if needed.
func (d *Dataset) Split(ratio float64) (train, test *Dataset, err error) {
	if math.IsNaN(ratio) || ratio < 0 || ratio > 1 {
		return nil, nil, scierrors.NewInvalidArgumentError("ratio", "must be in [0, 1]", ratio)
	}
	cut := int(math.Round(ratio * float64(d.NumRows())))
	return d.span(0, cut), d.span(cut, d.NumRows()), nil
}

// Randomize returns the rows in a uniformly random order.
func (d *Dataset) Randomize(rng *rand.Rand) *Dataset {
	return d.derive(orDefault(rng).Perm(d.NumRows()))
}

// Fold partitions the dataset into k contiguous folds whose sizes differ by
// at most one; earlier folds take the remainder.
func (d *Dataset) Fold(k int) ([]*Dataset, error) {
	n := d.NumRows()
	if k <= 0 || k > n {
		return nil, scierrors.NewInvalidArgumentError("k", "must be in [1, n]", k)
	}
	folds := make([]*Dataset, 0, k)
	start := 0
	for _, size := range foldSizes(n, k) {
		folds = append(folds, d.span(start, start+size))
		start += size
	}
	return folds, nil
}

// foldSizes spreads n items over k folds, front-loading the remainder.
func foldSizes(n, k int) []int {
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = n / k
		if i < n%k {
			sizes[i]++
		}
	}
	return sizes
}

// Batch splits the dataset into consecutive chunks of n rows. The last chunk
// may be shorter.
func (d *Dataset) Batch(n int) ([]*Dataset, error) {
	if n <= 0 {
		return nil, scierrors.NewInvalidArgumentError("n", "must be positive", n)
	}
	chunks := lo.Chunk(lo.Range(d.NumRows()), n)
	return lo.Map(chunks, func(idx []int, _ int) *Dataset { return d.derive(idx) }), nil
}

// Take returns the first n rows. n larger than the dataset is clamped.
func (d *Dataset) Take(n int) (*Dataset, error) {
	end, err := clampCount("Take", n, d.NumRows())
	if err != nil {
		return nil, err
	}
	return d.span(0, end), nil
}

// Leave returns every row after the first n, the complement of Take(n).
func (d *Dataset) Leave(n int) (*Dataset, error) {
	start, err := clampCount("Leave", n, d.NumRows())
	if err != nil {
		return nil, err
	}
	return d.span(start, d.NumRows()), nil
}

// Splice removes up to n rows starting at offset, returning the removed chunk
// and the remaining rows. The receiver is unchanged.
func (d *Dataset) Splice(offset, n int) (chunk, rest *Dataset, err error) {
	if offset < 0 || offset > d.NumRows() {
		return nil, nil, scierrors.NewInvalidArgumentError("offset", "must be in [0, n]", offset)
	}
	if n < 0 {
		return nil, nil, scierrors.NewInvalidArgumentError("n", "must be non-negative", n)
	}
	end := min(offset+n, d.NumRows())
	restIdx := append(lo.Range(offset), lo.RangeFrom(end, d.NumRows()-end)...)
	return d.span(offset, end), d.derive(restIdx), nil
}

// Partition splits rows on column j: continuous columns send value <= v to
// the left, categorical columns send value == v to the left. Either side may
// be empty.
func (d *Dataset) Partition(j int, value any) (left, right *Dataset, err error) {
	kind, err := d.samples.ColumnType(j)
	if err != nil {
		return nil, nil, err
	}
	v, ok := normalizeFeature(value)
	if !ok {
		return nil, nil, scierrors.NewInvalidArgumentError("value", "must be a string or number", value)
	}
	var goesLeft func(any) bool
	if kind == Continuous {
		threshold, isNum := v.(float64)
		if !isNum {
			return nil, nil, scierrors.NewInvalidArgumentError("value", "continuous column needs a numeric threshold", value)
		}
		goesLeft = func(f any) bool {
			x, ok := f.(float64)
			return ok && x <= threshold
		}
	} else {
		goesLeft = func(f any) bool { return f == v }
	}

	var leftIdx, rightIdx []int
	for i, row := range d.samples.rows {
		if goesLeft(row[j]) {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	return d.derive(leftIdx), d.derive(rightIdx), nil
}

// RandomSubsetWithReplacement draws n row indices uniformly, duplicates
// allowed.
func (d *Dataset) RandomSubsetWithReplacement(n int, rng *rand.Rand) (*Dataset, error) {
	if n < 0 {
		return nil, scierrors.NewInvalidArgumentError("n", "must be non-negative", n)
	}
	if n > 0 && d.Empty() {
		return nil, scierrors.NewInvalidArgumentError("dataset", "cannot sample from an empty dataset", 0)
	}
	rng = orDefault(rng)
	idx := make([]int, n)
	for k := range idx {
		idx[k] = rng.IntN(d.NumRows())
	}
	return d.derive(idx), nil
}

// RandomWeightedSubsetWithReplacement draws n rows with probability
// proportional to weights[i].
func (d *Dataset) RandomWeightedSubsetWithReplacement(n int, weights []float64, rng *rand.Rand) (*Dataset, error) {
	if n < 0 {
		return nil, scierrors.NewInvalidArgumentError("n", "must be non-negative", n)
	}
	if len(weights) != d.NumRows() {
		return nil, scierrors.NewInvalidArgumentError("weights", "must have one weight per row", len(weights))
	}
	cumulative := make([]float64, len(weights))
	total := 0.0
	last := 0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, scierrors.NewInvalidArgumentError("weights", "must be finite and non-negative", w)
		}
		if w > 0 {
			last = i
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		return nil, scierrors.NewInvalidArgumentError("weights", "must not all be zero", total)
	}

	rng = orDefault(rng)
	idx := make([]int, n)
	for k := range idx {
		u := rng.Float64() * total
		// u can round up to total; the last positive weight owns that edge
		idx[k] = min(sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > u }), last)
	}
	return d.derive(idx), nil
}
