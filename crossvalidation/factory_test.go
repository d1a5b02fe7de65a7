package crossvalidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scicv/pkg/config"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

func TestNewFromConfig(t *testing.T) {
	seed := uint64(5)
	base := config.Default().Validation
	base.Seed = &seed

	tests := []struct {
		strategy string
		want     string
	}{
		{config.StrategyLeavePOut, "LeavePOut(p=1)"},
		{config.StrategyKFold, "KFold(k=5)"},
		{config.StrategyHoldOut, "HoldOut(ratio=0.2)"},
		{"KFold", "KFold(k=5)"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := base
			cfg.Strategy = tt.strategy
			v, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.(interface{ String() string }).String())
		})
	}
}

func TestNewCarriesSettings(t *testing.T) {
	seed := uint64(11)
	cfg := config.Default().Validation
	cfg.MaxFolds = 7
	cfg.Seed = &seed
	cfg.Stratify = true

	v, err := New(cfg)
	require.NoError(t, err)
	lpo := v.(*LeavePOut)
	assert.Equal(t, 7, lpo.settings.maxFolds)
	assert.True(t, lpo.settings.seeded)
	assert.Equal(t, uint64(11), lpo.settings.seed)
	assert.True(t, lpo.settings.stratify)
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	cfg := config.Default().Validation
	cfg.Strategy = "bootstrap"
	_, err := New(cfg)
	var argErr *scierrors.InvalidArgumentError
	assert.True(t, scierrors.As(err, &argErr))
}
