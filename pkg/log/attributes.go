// Package log defines standard attribute keys for dataset and validation
// operations, so that log analysis can filter on stable names.
//
// Keys follow a hierarchical naming convention ("data.samples", "cv.fold").

package log

// Component and operation context.
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "dataset", "parallel", "crossvalidation"
	ComponentKey = "ml.component"

	// OperationKey names the operation being performed.
	OperationKey = "ml.operation"

	// PhaseKey records the validator run phase.
	// Values: "idle", "partitioning", "dispatching", "aggregating", "done"
	PhaseKey = "cv.phase"

	// EstimatorKey names the estimator under evaluation.
	EstimatorKey = "model.name"

	// MetricKey names the metric used for scoring.
	MetricKey = "cv.metric"
)

// Data shape.
const (
	// SamplesKey is the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// LabeledKey reports whether the dataset carries labels.
	LabeledKey = "data.labeled"

	// TrainSizeKey and TestSizeKey are the fold sizes.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"
)

// Cross-validation.
const (
	// StrategyKey is the validator strategy, e.g. "LeavePOut".
	StrategyKey = "cv.strategy"

	// FoldsKey is the number of folds generated.
	FoldsKey = "cv.folds"

	// FoldKey is the index of a single fold.
	FoldKey = "cv.fold"

	// ScoreKey is a fold score or the aggregated score.
	ScoreKey = "cv.score"

	// StdKey is the standard deviation of the fold scores.
	StdKey = "cv.std"

	// MaxFoldsKey is the configured enumeration cap.
	MaxFoldsKey = "cv.max_folds"

	// CombinationsKey is the size of the combinatorial space.
	CombinationsKey = "cv.combinations"
)

// Execution backend.
const (
	// BackendKey is the backend kind, "serial" or "parallel".
	BackendKey = "backend.kind"

	// WorkersKey is the number of workers in the pool.
	WorkersKey = "backend.workers"

	// JobsKey is the number of jobs submitted.
	JobsKey = "backend.jobs"

	// JobIndexKey identifies a failing or finished job.
	JobIndexKey = "job.index"
)

// Performance and configuration.
const (
	// DurationMsKey records elapsed time in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// RandomSeedKey records the seed used for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigPathKey is the configuration file that was loaded.
	ConfigPathKey = "config.path"
)

// Error context.
const (
	// ErrorKey carries the error message.
	ErrorKey = "error"

	// StacktraceKey carries the stack extracted from cockroachdb/errors.
	StacktraceKey = "stacktrace"

	// ErrorTypeKey categorises the error, e.g. "JobError".
	ErrorTypeKey = "error.type"
)

// Standard values.
const (
	PhaseIdle         = "idle"
	PhasePartitioning = "partitioning"
	PhaseDispatching  = "dispatching"
	PhaseAggregating  = "aggregating"
	PhaseDone         = "done"

	OperationTrain   = "train"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationTest    = "test"
)
