// Package generators produces synthetic datasets for tests, benchmarks and
// examples. Every generator implements model.Generator and accepts a seeded
// source so that runs are reproducible.
package generators

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/scicv/core/dataset"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// Option configures a generator.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand draws samples from rng instead of a fresh unseeded source.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithSeed is shorthand for WithRand(dataset.NewRand(seed)).
func WithSeed(seed uint64) Option {
	return WithRand(dataset.NewRand(seed))
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// Blob generates an unlabeled Gaussian cluster around a center.
type Blob struct {
	dims []distuv.Normal
}

// NewBlob creates a Blob. stddev holds either one value per dimension or a
// single value shared by all of them.
func NewBlob(center, stddev []float64, opts ...Option) (*Blob, error) {
	if len(center) == 0 {
		return nil, scierrors.NewInvalidArgumentError("center", "must have at least one dimension", center)
	}
	if len(stddev) != 1 && len(stddev) != len(center) {
		return nil, scierrors.NewShapeError("NewBlob", len(center), len(stddev), 0)
	}
	o := buildOptions(opts)
	dims := make([]distuv.Normal, len(center))
	for j, mu := range center {
		sigma := stddev[0]
		if len(stddev) > 1 {
			sigma = stddev[j]
		}
		if sigma < 0 {
			return nil, scierrors.NewInvalidArgumentError("stddev", "must be non-negative", sigma)
		}
		dims[j] = distuv.Normal{Mu: mu, Sigma: sigma, Src: o.rng}
	}
	return &Blob{dims: dims}, nil
}

// Dimensions returns the number of features per sample.
func (b *Blob) Dimensions() int { return len(b.dims) }

// Generate implements model.Generator.
func (b *Blob) Generate(n int) (*dataset.Dataset, error) {
	if n < 0 {
		return nil, scierrors.NewInvalidArgumentError("n", "must be non-negative", n)
	}
	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(b.dims))
		for j, d := range b.dims {
			row[j] = d.Rand()
		}
		rows[i] = row
	}
	return dataset.NewUnlabeled(rows)
}
