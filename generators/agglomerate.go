package generators

import (
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/model"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// Agglomerate combines several generators into one labeled dataset. Each
// generator contributes rows under its own label in proportion to its weight.
// Labels are processed in sorted order, so the output layout does not depend
// on map iteration.
type Agglomerate struct {
	labels     []string
	generators map[string]model.Generator
	weights    []float64
}

// NewAgglomerate creates an Agglomerate. A nil weights map gives every
// generator the same share; otherwise every label needs a positive weight.
func NewAgglomerate(generators map[string]model.Generator, weights map[string]float64) (*Agglomerate, error) {
	if len(generators) == 0 {
		return nil, scierrors.NewInvalidArgumentError("generators", "must not be empty", nil)
	}
	labels := lo.Keys(generators)
	slices.Sort(labels)

	w := make([]float64, len(labels))
	total := 0.0
	for i, label := range labels {
		w[i] = 1
		if weights != nil {
			v, ok := weights[label]
			if !ok || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return nil, scierrors.NewInvalidArgumentError("weights", "needs a positive weight for "+label, v)
			}
			w[i] = v
		}
		total += w[i]
	}
	for i := range w {
		w[i] /= total
	}
	return &Agglomerate{labels: labels, generators: generators, weights: w}, nil
}

// Labels returns the labels in generation order.
func (a *Agglomerate) Labels() []string { return slices.Clone(a.labels) }

// Generate implements model.Generator.
func (a *Agglomerate) Generate(n int) (*dataset.Dataset, error) {
	if n < 0 {
		return nil, scierrors.NewInvalidArgumentError("n", "must be non-negative", n)
	}
	var out *dataset.Dataset
	for i, count := range a.counts(n) {
		part, err := a.generators[a.labels[i]].Generate(count)
		if err != nil {
			return nil, scierrors.Wrapf(err, "generate %q", a.labels[i])
		}
		labels := lo.Times(part.NumRows(), func(int) any { return a.labels[i] })
		labeled, err := dataset.FromMatrix(part.Samples(), labels)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = labeled
			continue
		}
		if out, err = out.Merge(labeled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// counts apportions n rows by weight with the largest remainder method.
// Ties go to the earlier label.
func (a *Agglomerate) counts(n int) []int {
	counts := make([]int, len(a.weights))
	remainders := make([]float64, len(a.weights))
	assigned := 0
	for i, w := range a.weights {
		exact := w * float64(n)
		counts[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(counts[i])
		assigned += counts[i]
	}
	order := lo.Range(len(a.weights))
	slices.SortStableFunc(order, func(x, y int) int {
		switch {
		case remainders[x] > remainders[y]:
			return -1
		case remainders[x] < remainders[y]:
			return 1
		}
		return 0
	})
	for _, i := range order[:min(max(n-assigned, 0), len(order))] {
		counts[i]++
	}
	return counts
}
