package crossvalidation

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/parallel"
	"github.com/YuminosukeSato/scicv/pkg/log"
)

// DefaultMaxFolds caps the number of Leave-P-Out combinations evaluated.
const DefaultMaxFolds = 1000

// Observer receives the outcome of every validation run.
type Observer interface {
	ObserveValidation(strategy string, score float64, err error)
}

// Option configures a validator.
type Option func(*settings)

type settings struct {
	backend  parallel.Backend
	logger   log.Logger
	observer Observer
	seed     uint64
	seeded   bool
	maxFolds int
	stratify bool
	shuffle  bool
}

func buildSettings(opts []Option) settings {
	s := settings{maxFolds: DefaultMaxFolds}
	for _, opt := range opts {
		opt(&s)
	}
	if s.backend == nil {
		s.backend = parallel.NewSerial()
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("crossvalidation")
	}
	return s
}

// rng returns a fresh source for one run. Seeded validators replay the same
// sequence on every call.
func (s settings) rng() *rand.Rand {
	if s.seeded {
		return dataset.NewRand(s.seed)
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// WithBackend sets the backend folds are dispatched to. Defaults to Serial.
func WithBackend(b parallel.Backend) Option {
	return func(s *settings) { s.backend = b }
}

// WithLogger overrides the validator logger.
func WithLogger(l log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithObserver reports every run to o, e.g. a pkg/monitor collector.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithSeed makes shuffling and combination sampling reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
	}
}

// WithMaxFolds caps Leave-P-Out enumeration. Above the cap, n random distinct
// combinations are evaluated instead. Zero disables the cap.
func WithMaxFolds(n int) Option {
	return func(s *settings) { s.maxFolds = n }
}

// WithStratify preserves label proportions across folds (KFold, HoldOut).
func WithStratify(on bool) Option {
	return func(s *settings) { s.stratify = on }
}

// WithShuffle randomizes row order before folding (KFold, HoldOut).
func WithShuffle(on bool) Option {
	return func(s *settings) { s.shuffle = on }
}
