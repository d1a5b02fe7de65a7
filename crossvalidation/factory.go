package crossvalidation

import (
	"strings"

	"github.com/YuminosukeSato/scicv/pkg/config"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// New builds the validator described by cfg. Options given explicitly are
// applied after the ones derived from cfg.
func New(cfg config.Validation, opts ...Option) (Reporter, error) {
	base := []Option{
		WithMaxFolds(cfg.MaxFolds),
		WithStratify(cfg.Stratify),
		WithShuffle(cfg.Shuffle),
	}
	if cfg.Seed != nil {
		base = append(base, WithSeed(*cfg.Seed))
	}
	opts = append(base, opts...)

	switch strings.ToLower(cfg.Strategy) {
	case config.StrategyLeavePOut:
		return NewLeavePOut(cfg.P, opts...), nil
	case config.StrategyKFold:
		return NewKFold(cfg.K, opts...), nil
	case config.StrategyHoldOut:
		return NewHoldOut(cfg.Ratio, opts...), nil
	default:
		return nil, scierrors.NewInvalidArgumentError("validation.strategy", "must be one of leavepout, kfold, holdout", cfg.Strategy)
	}
}
