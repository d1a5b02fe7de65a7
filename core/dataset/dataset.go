package dataset

import (
	"slices"

	"github.com/samber/lo"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// Dataset is an immutable Matrix of samples with optional per-row labels.
//
// Labels, when present, are strings or float64 values and there is exactly
// one per row.
type Dataset struct {
	samples *Matrix
	labels  []any
	labeled bool
}

// NewLabeled builds a labeled dataset from raw rows and labels.
func NewLabeled(samples [][]any, labels []any) (*Dataset, error) {
	m, err := NewMatrix(samples)
	if err != nil {
		return nil, err
	}
	return newLabeled(m, labels)
}

// NewUnlabeled builds a dataset without labels.
func NewUnlabeled(samples [][]any) (*Dataset, error) {
	m, err := NewMatrix(samples)
	if err != nil {
		return nil, err
	}
	return &Dataset{samples: m}, nil
}

// FromMatrix wraps an existing Matrix. A nil labels slice yields an
// unlabeled dataset.
func FromMatrix(m *Matrix, labels []any) (*Dataset, error) {
	if m == nil {
		m = &Matrix{}
	}
	if labels == nil {
		return &Dataset{samples: m}, nil
	}
	return newLabeled(m, labels)
}

func newLabeled(m *Matrix, labels []any) (*Dataset, error) {
	if len(labels) != m.NumRows() {
		return nil, scierrors.NewShapeError("NewLabeled", m.NumRows(), len(labels), 0)
	}
	normalized := make([]any, len(labels))
	for i, l := range labels {
		v, ok := normalizeFeature(l)
		if !ok {
			return nil, scierrors.NewFeatureTypeError("NewLabeled", i, -1, l)
		}
		normalized[i] = v
	}
	return &Dataset{samples: m, labels: normalized, labeled: true}, nil
}

// derive selects rows (and their labels) by source index.
func (d *Dataset) derive(indices []int) *Dataset {
	out := &Dataset{samples: d.samples.derive(indices), labeled: d.labeled}
	if d.labeled {
		out.labels = make([]any, len(indices))
		for k, i := range indices {
			out.labels[k] = d.labels[i]
		}
	}
	return out
}

// span selects the contiguous rows [start, end).
func (d *Dataset) span(start, end int) *Dataset {
	return d.derive(lo.RangeFrom(start, end-start))
}

// Samples returns the underlying feature matrix.
func (d *Dataset) Samples() *Matrix { return d.samples }

// NumRows returns the number of samples.
func (d *Dataset) NumRows() int { return d.samples.NumRows() }

// NumColumns returns the number of features per sample.
func (d *Dataset) NumColumns() int { return d.samples.NumColumns() }

// Empty reports whether the dataset has no samples.
func (d *Dataset) Empty() bool { return d.samples.Empty() }

// Types returns the column schema.
func (d *Dataset) Types() []ColumnType { return d.samples.Types() }

// Row returns a copy of sample i.
func (d *Dataset) Row(i int) ([]any, error) { return d.samples.Row(i) }

// Column returns the values of feature column j.
func (d *Dataset) Column(j int) ([]any, error) { return d.samples.Column(j) }

// Rotate returns the samples in column-major order.
func (d *Dataset) Rotate() [][]any { return d.samples.Rotate() }

// Labeled reports whether the dataset carries labels.
func (d *Dataset) Labeled() bool { return d.labeled }

// Labels returns a copy of the labels, or nil for an unlabeled dataset.
func (d *Dataset) Labels() []any {
	if !d.labeled {
		return nil
	}
	return slices.Clone(d.labels)
}

// Label returns the label of row i.
func (d *Dataset) Label(i int) (any, error) {
	if !d.labeled {
		return nil, scierrors.NewInvalidArgumentError("dataset", "must be labeled", "unlabeled")
	}
	if i < 0 || i >= len(d.labels) {
		return nil, scierrors.NewIndexError("Label", i, len(d.labels), 0)
	}
	return d.labels[i], nil
}

// PossibleOutcomes returns the distinct labels in first-seen order.
func (d *Dataset) PossibleOutcomes() []any {
	if !d.labeled {
		return nil
	}
	return lo.Uniq(d.labels)
}

// Set always fails: datasets cannot be mutated in place.
func (d *Dataset) Set(int, []any) error {
	return scierrors.NewImmutabilityError("Dataset.Set")
}

// Unset always fails: datasets cannot be mutated in place.
func (d *Dataset) Unset(int) error {
	return scierrors.NewImmutabilityError("Dataset.Unset")
}

// Merge appends other after d, concatenating labels.
// Merging a labeled with an unlabeled dataset is a FeatureTypeError.
func (d *Dataset) Merge(other *Dataset) (*Dataset, error) {
	if d.labeled != other.labeled {
		return nil, scierrors.NewLabelMismatchError("Merge")
	}
	m, err := d.samples.Merge(other.samples)
	if err != nil {
		return nil, err
	}
	out := &Dataset{samples: m, labeled: d.labeled}
	if d.labeled {
		out.labels = slices.Concat(d.labels, other.labels)
	}
	return out, nil
}

// Subset returns the rows at indices, in the given order. Indices may repeat.
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	for _, i := range indices {
		if i < 0 || i >= d.NumRows() {
			return nil, scierrors.NewIndexError("Subset", i, d.NumRows(), 0)
		}
	}
	return d.derive(indices), nil
}

// FilterByColumn keeps the samples whose column j satisfies keep.
func (d *Dataset) FilterByColumn(j int, keep func(any) bool) (*Dataset, error) {
	idx, err := d.samples.filterIndices(j, keep)
	if err != nil {
		return nil, err
	}
	return d.derive(idx), nil
}

// SortByColumn stably sorts the samples by column j, keeping labels aligned.
func (d *Dataset) SortByColumn(j int, descending bool) (*Dataset, error) {
	idx, err := d.samples.sortIndices(j, descending)
	if err != nil {
		return nil, err
	}
	return d.derive(idx), nil
}

// Head returns the first n samples.
func (d *Dataset) Head(n int) (*Dataset, error) { return d.Take(n) }

// Tail returns the last n samples, clamped to the dataset size.
func (d *Dataset) Tail(n int) (*Dataset, error) {
	count, err := clampCount("Tail", n, d.NumRows())
	if err != nil {
		return nil, err
	}
	return d.span(d.NumRows()-count, d.NumRows()), nil
}

// Equal reports structural equality of samples, schema and labels.
func (d *Dataset) Equal(other *Dataset) bool {
	if other == nil || d.labeled != other.labeled || !d.samples.Equal(other.samples) {
		return false
	}
	return slices.Equal(d.labels, other.labels)
}
