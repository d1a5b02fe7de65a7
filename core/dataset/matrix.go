// Package dataset provides the immutable tabular containers consumed by the
// cross-validation engine.
//
// A Matrix is a 2-D table of features where every feature is either a string
// (categorical) or a number (continuous). Numbers of any Go numeric type are
// normalised to float64 when the matrix is built. Column types are locked in
// from the first row and are never re-checked per cell afterwards.
//
// Matrix and Dataset values are immutable: every transformation returns a new
// instance, so a single value can be shared freely between goroutines.
package dataset

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scicv/core/parallel"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// ColumnType is the schema type of a column.
type ColumnType int

const (
	// Categorical columns hold strings.
	Categorical ColumnType = iota
	// Continuous columns hold float64 values.
	Continuous
)

func (c ColumnType) String() string {
	switch c {
	case Categorical:
		return "categorical"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// rotateThreshold is the column count above which Rotate fans out.
const rotateThreshold = 32

// Matrix is an immutable table of features with uniform row width.
type Matrix struct {
	// rows are never written after construction, so derived matrices share
	// row slices with their source.
	rows  [][]any
	types []ColumnType
}

// NewMatrix validates and copies rows into a Matrix.
//
// It fails with a ShapeError when row widths differ and with a
// FeatureTypeError when a feature is neither a string nor a number.
func NewMatrix(rows [][]any) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}
	width := len(rows[0])
	out := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, scierrors.NewShapeError("NewMatrix", width, len(row), 1)
		}
		copied := make([]any, width)
		for j, v := range row {
			f, ok := normalizeFeature(v)
			if !ok {
				return nil, scierrors.NewFeatureTypeError("NewMatrix", i, j, v)
			}
			copied[j] = f
		}
		out[i] = copied
	}
	return &Matrix{rows: out, types: inferTypes(out[0])}, nil
}

// inferTypes locks the schema from a single normalised row.
func inferTypes(row []any) []ColumnType {
	types := make([]ColumnType, len(row))
	for j, v := range row {
		if _, ok := v.(string); ok {
			types[j] = Categorical
		} else {
			types[j] = Continuous
		}
	}
	return types
}

// normalizeFeature maps strings and any numeric kind to string or float64.
func normalizeFeature(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return nil, false
	}
}

// derive builds a matrix over the selected source rows, keeping the schema.
func (m *Matrix) derive(indices []int) *Matrix {
	rows := make([][]any, len(indices))
	for k, i := range indices {
		rows[k] = m.rows[i]
	}
	return &Matrix{rows: rows, types: m.types}
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int { return len(m.rows) }

// NumColumns returns the row width.
func (m *Matrix) NumColumns() int { return len(m.types) }

// Empty reports whether the matrix has no rows.
func (m *Matrix) Empty() bool { return len(m.rows) == 0 }

// Types returns the locked column schema.
func (m *Matrix) Types() []ColumnType { return slices.Clone(m.types) }

// ColumnType returns the schema type of column j.
func (m *Matrix) ColumnType(j int) (ColumnType, error) {
	if j < 0 || j >= len(m.types) {
		return 0, scierrors.NewIndexError("ColumnType", j, len(m.types), 1)
	}
	return m.types[j], nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]any, error) {
	if i < 0 || i >= len(m.rows) {
		return nil, scierrors.NewIndexError("Row", i, len(m.rows), 0)
	}
	return slices.Clone(m.rows[i]), nil
}

// Column returns the values of column j. An empty matrix yields an empty
// slice for any j.
func (m *Matrix) Column(j int) ([]any, error) {
	if len(m.rows) == 0 {
		return []any{}, nil
	}
	if j < 0 || j >= len(m.types) {
		return nil, scierrors.NewIndexError("Column", j, len(m.types), 1)
	}
	col := make([]any, len(m.rows))
	for i, row := range m.rows {
		col[i] = row[j]
	}
	return col, nil
}

// Samples returns a deep copy of the rows.
func (m *Matrix) Samples() [][]any {
	out := make([][]any, len(m.rows))
	for i, row := range m.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

// Set always fails: matrices cannot be mutated in place.
func (m *Matrix) Set(int, []any) error {
	return scierrors.NewImmutabilityError("Matrix.Set")
}

// Unset always fails: matrices cannot be mutated in place.
func (m *Matrix) Unset(int) error {
	return scierrors.NewImmutabilityError("Matrix.Unset")
}

// Rotate returns the matrix in column-major order.
func (m *Matrix) Rotate() [][]any {
	cols := make([][]any, len(m.types))
	parallel.ParallelizeWithThreshold(len(m.types), rotateThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			col := make([]any, len(m.rows))
			for i, row := range m.rows {
				col[i] = row[j]
			}
			cols[j] = col
		}
	})
	return cols
}

// Merge appends the rows of other after the rows of m.
//
// A matrix with neither rows nor columns merges with anything; otherwise the
// column counts must agree. The schema of m is kept.
func (m *Matrix) Merge(other *Matrix) (*Matrix, error) {
	switch {
	case m.isBlank():
		return other, nil
	case other.isBlank():
		return m, nil
	case m.NumColumns() != other.NumColumns():
		return nil, scierrors.NewShapeError("Merge", m.NumColumns(), other.NumColumns(), 1)
	}
	rows := make([][]any, 0, len(m.rows)+len(other.rows))
	rows = append(rows, m.rows...)
	rows = append(rows, other.rows...)
	return &Matrix{rows: rows, types: m.types}, nil
}

func (m *Matrix) isBlank() bool {
	return len(m.rows) == 0 && len(m.types) == 0
}

// FilterByColumn keeps the rows whose column j satisfies keep, in order.
func (m *Matrix) FilterByColumn(j int, keep func(any) bool) (*Matrix, error) {
	idx, err := m.filterIndices(j, keep)
	if err != nil {
		return nil, err
	}
	return m.derive(idx), nil
}

func (m *Matrix) filterIndices(j int, keep func(any) bool) ([]int, error) {
	if err := m.checkColumn("FilterByColumn", j); err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(m.rows))
	for i, row := range m.rows {
		if keep(row[j]) {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// SortByColumn returns the rows stably sorted by column j.
//
// Numbers compare numerically and strings lexically; when a column mixes
// both, numbers order before strings. Ties keep their original order, in
// either direction.
func (m *Matrix) SortByColumn(j int, descending bool) (*Matrix, error) {
	idx, err := m.sortIndices(j, descending)
	if err != nil {
		return nil, err
	}
	return m.derive(idx), nil
}

func (m *Matrix) sortIndices(j int, descending bool) ([]int, error) {
	if err := m.checkColumn("SortByColumn", j); err != nil {
		return nil, err
	}
	idx := make([]int, len(m.rows))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		c := compareFeatures(m.rows[a][j], m.rows[b][j])
		if descending {
			return -c
		}
		return c
	})
	return idx, nil
}

// compareFeatures orders two normalised features.
func compareFeatures(a, b any) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	switch {
	case aNum && bNum:
		return cmp.Compare(fa, fb)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return cmp.Compare(a.(string), b.(string))
	}
}

func (m *Matrix) checkColumn(op string, j int) error {
	if j < 0 || j >= len(m.types) {
		return scierrors.NewIndexError(op, j, len(m.types), 1)
	}
	return nil
}

// Head returns the first n rows, clamped to the matrix size.
func (m *Matrix) Head(n int) (*Matrix, error) {
	end, err := clampCount("Head", n, len(m.rows))
	if err != nil {
		return nil, err
	}
	return &Matrix{rows: m.rows[:end:end], types: m.types}, nil
}

// Tail returns the last n rows, clamped to the matrix size.
func (m *Matrix) Tail(n int) (*Matrix, error) {
	count, err := clampCount("Tail", n, len(m.rows))
	if err != nil {
		return nil, err
	}
	return &Matrix{rows: m.rows[len(m.rows)-count:], types: m.types}, nil
}

// clampCount rejects negative counts and caps n at size.
func clampCount(op string, n, size int) (int, error) {
	if n < 0 {
		return 0, scierrors.NewInvalidArgumentError(op+".n", "must be non-negative", n)
	}
	return min(n, size), nil
}

// ToDense converts an all-numeric matrix to a gonum dense matrix.
func (m *Matrix) ToDense() (*mat.Dense, error) {
	if len(m.rows) == 0 || len(m.types) == 0 {
		return nil, scierrors.Wrap(scierrors.ErrEmptyData, "ToDense")
	}
	data := make([]float64, 0, len(m.rows)*len(m.types))
	for i, row := range m.rows {
		for j, v := range row {
			f, ok := v.(float64)
			if !ok {
				return nil, scierrors.NewFeatureTypeError("ToDense", i, j, v)
			}
			data = append(data, f)
		}
	}
	return mat.NewDense(len(m.rows), len(m.types), data), nil
}

// Equal reports whether both matrices hold the same rows and schema.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || len(m.rows) != len(other.rows) || !slices.Equal(m.types, other.types) {
		return false
	}
	for i := range m.rows {
		if !slices.Equal(m.rows[i], other.rows[i]) {
			return false
		}
	}
	return true
}
