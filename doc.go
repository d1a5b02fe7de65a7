// Package scicv provides immutable tabular datasets and cross-validation for
// Go, designed for backend services that need to score estimators
// reproducibly.
//
// # Features
//
// - Immutable datasets: every transformation derives a new Dataset that shares rows
// - Leave-P-Out, K-Fold and Hold-Out validators with a common protocol
// - Serial and pooled backends with ordered results and fail-fast semantics
// - Structured errors with stack traces (cockroachdb/errors) and zerolog logging
// - Prometheus instrumentation and a bbolt-backed report history
//
// # Installation
//
//	go get github.com/YuminosukeSato/scicv
//
// # Quick Start
//
// Leave-One-Out accuracy of a most-frequent baseline:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scicv/core/dataset"
//	    "github.com/YuminosukeSato/scicv/core/parallel"
//	    "github.com/YuminosukeSato/scicv/crossvalidation"
//	    "github.com/YuminosukeSato/scicv/metrics"
//	    "github.com/YuminosukeSato/scicv/sklearn/dummy"
//	)
//
//	func main() {
//	    ds, err := dataset.NewLabeled(
//	        [][]any{{1, 2}, {3, 4}, {5, 6}, {7, 8}},
//	        []any{"a", "a", "b", "a"},
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    v := crossvalidation.NewLeavePOut(1,
//	        crossvalidation.WithBackend(parallel.NewParallel(0)),
//	    )
//	    score, err := v.Test(context.Background(), dummy.NewDummyClassifier(), ds, metrics.Accuracy{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("accuracy:", score)
//	}
//
// # Packages
//
//   - core/dataset: Matrix and Dataset, sampling, stratification, CSV and gob persistence
//   - core/parallel: Backend interface with Serial and Parallel implementations
//   - core/model: Estimator, Typed and Generator contracts
//   - crossvalidation: LeavePOut, KFold and HoldOut validators
//   - metrics: Accuracy, MeanSquaredError, MeanAbsoluteError, RSquared
//   - generators: Blob and Agglomerate synthetic data
//   - sklearn/dummy: baseline estimators
//   - pkg/config, pkg/log, pkg/errors, pkg/monitor, pkg/report: ambient infrastructure
//
// The scicv command in cmd/scicv runs a validator described by a YAML file
// and keeps the results in a local report store.
//
// # License
//
// scicv is released under the MIT License.
package scicv
