// Package report persists, renders and plots validation results.
//
// Records are stored as JSON in a bbolt database, keyed by a time-ordered
// UUID so that listing returns them oldest first.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/scicv/crossvalidation"
)

// Record is a stored validation result.
type Record struct {
	ID         string    `json:"id"`
	Source     string    `json:"source,omitempty"`
	Strategy   string    `json:"strategy"`
	Estimator  string    `json:"estimator"`
	Metric     string    `json:"metric"`
	Scores     []float64 `json:"scores"`
	TrainSizes []int     `json:"train_sizes"`
	TestSizes  []int     `json:"test_sizes"`
	Mean       float64   `json:"mean"`
	Std        float64   `json:"std"`
	Sampled    bool      `json:"sampled,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromReport converts a validation report. source names the dataset, e.g.
// the CSV path.
func FromReport(r *crossvalidation.Report, source string) *Record {
	return &Record{
		ID:         newID(),
		Source:     source,
		Strategy:   r.Strategy,
		Estimator:  r.Estimator,
		Metric:     r.Metric,
		Scores:     r.Scores,
		TrainSizes: r.TrainSizes,
		TestSizes:  r.TestSizes,
		Mean:       r.Mean,
		Std:        r.Std,
		Sampled:    r.Sampled,
		StartedAt:  r.StartedAt,
		DurationMs: r.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}

// newID returns a UUIDv7, falling back to a random v4 if the clock source
// fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
