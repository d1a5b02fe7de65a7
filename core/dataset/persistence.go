package dataset

import (
	"encoding/gob"
	"io"
	"os"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// snapshot is the gob layout of a Dataset.
type snapshot struct {
	Rows    [][]any
	Types   []ColumnType
	Labels  []any
	Labeled bool
}

// Encode writes the dataset to w in gob format.
func (d *Dataset) Encode(w io.Writer) error {
	s := snapshot{
		Rows:    d.samples.rows,
		Types:   d.samples.types,
		Labels:  d.labels,
		Labeled: d.labeled,
	}
	if err := gob.NewEncoder(w).Encode(&s); err != nil {
		return scierrors.Wrap(err, "failed to encode dataset")
	}
	return nil
}

// Decode reads a dataset written by Encode.
func Decode(r io.Reader) (*Dataset, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, scierrors.Wrap(err, "failed to decode dataset")
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Types) {
			return nil, scierrors.NewShapeError("Decode", len(s.Types), len(row), 1)
		}
		for j, v := range row {
			if _, ok := normalizeFeature(v); !ok {
				return nil, scierrors.NewFeatureTypeError("Decode", i, j, v)
			}
		}
	}
	d := &Dataset{
		samples: &Matrix{rows: s.Rows, types: s.Types},
		labeled: s.Labeled,
	}
	if s.Labeled {
		d.labels = s.Labels
		if d.labels == nil {
			d.labels = []any{}
		}
		if len(d.labels) != len(s.Rows) {
			return nil, scierrors.NewShapeError("Decode", len(s.Rows), len(d.labels), 0)
		}
	}
	return d, nil
}

// Save writes the dataset to path, replacing any existing file.
func (d *Dataset) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return scierrors.Wrapf(err, "failed to create %s", path)
	}
	if err := d.Encode(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Load reads a dataset saved with Save.
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, scierrors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()
	return Decode(file)
}
