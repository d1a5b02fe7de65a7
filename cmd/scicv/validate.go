package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scicv/core/dataset"
	"github.com/YuminosukeSato/scicv/core/parallel"
	"github.com/YuminosukeSato/scicv/crossvalidation"
	"github.com/YuminosukeSato/scicv/metrics"
	"github.com/YuminosukeSato/scicv/pkg/config"
	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
	"github.com/YuminosukeSato/scicv/pkg/log"
	"github.com/YuminosukeSato/scicv/pkg/monitor"
	"github.com/YuminosukeSato/scicv/pkg/report"
	"github.com/YuminosukeSato/scicv/sklearn/dummy"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the configured validator on the configured dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyValidateFlags(cmd, &cfg); err != nil {
				return err
			}
			return runValidate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.String("data", "", "override data.path")
	f.String("strategy", "", "override validation.strategy (leavepout, kfold, holdout)")
	f.Int("p", 0, "override validation.p")
	f.Int("k", 0, "override validation.k")
	f.Uint64("seed", 0, "override validation.seed")
	f.String("estimator", "", "override estimator")
	f.String("metric", "", "override metric")
	f.String("backend", "", "override backend.kind (serial, parallel)")
	f.Int("workers", 0, "override backend.workers")
	f.String("store", "", "override report.storePath")
	f.String("plot", "", "override report.plotPath")
	return cmd
}

func applyValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	str("data", &cfg.Data.Path)
	str("strategy", &cfg.Validation.Strategy)
	str("estimator", &cfg.Estimator)
	str("metric", &cfg.Metric)
	str("backend", &cfg.Backend.Kind)
	str("store", &cfg.Report.StorePath)
	str("plot", &cfg.Report.PlotPath)
	num("p", &cfg.Validation.P)
	num("k", &cfg.Validation.K)
	num("workers", &cfg.Backend.Workers)
	if f.Changed("seed") {
		seed, _ := f.GetUint64("seed")
		cfg.Validation.Seed = &seed
	}
	return cfg.Validate()
}

func runValidate(ctx context.Context, cfg config.Config, out io.Writer) error {
	if err := log.SetupLogger(cfg.Log.Level, cfg.Log.Console); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("cli")

	ds, err := readDataset(cfg.Data)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		log.SamplesKey, ds.NumRows(),
		log.FeaturesKey, ds.NumColumns(),
		log.LabeledKey, ds.Labeled(),
	)

	est, err := dummy.ByName(cfg.Estimator)
	if err != nil {
		return err
	}
	metric, err := metrics.ByName(cfg.Metric)
	if err != nil {
		return err
	}

	var backendOpts []parallel.Option
	var validatorOpts []crossvalidation.Option
	if cfg.Metrics.ListenAddr != "" {
		mon := monitor.New()
		srv := mon.NewServer(cfg.Metrics.ListenAddr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		backendOpts = append(backendOpts, parallel.WithObserver(mon))
		validatorOpts = append(validatorOpts, crossvalidation.WithObserver(mon))
	}

	backend, err := parallel.New(cfg.Backend.Kind, cfg.Backend.Workers, backendOpts...)
	if err != nil {
		return err
	}
	validatorOpts = append(validatorOpts, crossvalidation.WithBackend(backend))
	validator, err := crossvalidation.New(cfg.Validation, validatorOpts...)
	if err != nil {
		return err
	}

	result, err := validator.Evaluate(ctx, est, ds, metric)
	if err != nil {
		return err
	}
	rec := report.FromReport(result, cfg.Data.Path)
	if err := report.Render(out, rec); err != nil {
		return err
	}

	if cfg.Report.StorePath != "" {
		store, err := report.Open(cfg.Report.StorePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Put(rec); err != nil {
			return err
		}
		fmt.Fprintf(out, "stored report %s\n", rec.ID)
	}
	if cfg.Report.PlotPath != "" {
		if err := report.Plot(rec, cfg.Report.PlotPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "plot written to %s\n", cfg.Report.PlotPath)
	}
	return nil
}

func readDataset(cfg config.Data) (*dataset.Dataset, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, scierrors.Wrapf(err, "open dataset %s", cfg.Path)
	}
	defer f.Close()
	return dataset.ReadCSV(f, dataset.CSVOptions{
		Delimiter:   cfg.DelimiterRune(),
		Header:      cfg.Header,
		LabelColumn: cfg.LabelColumn,
	})
}
