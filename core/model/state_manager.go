package model

import (
	"sync"

	scierrors "github.com/YuminosukeSato/scicv/pkg/errors"
)

// StateManager manages the trained state of a model in a thread-safe manner.
// Estimators embed it by composition rather than through a base struct.
type StateManager struct {
	mu sync.RWMutex

	Trained   bool // Public for gob encoding
	NFeatures int
	NSamples  int
}

// NewStateManager creates a new StateManager instance.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsTrained returns whether the model has been trained.
func (s *StateManager) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Trained
}

// MarkTrained records a successful Train call and the data dimensions.
func (s *StateManager) MarkTrained(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trained = true
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// Reset resets the trained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trained = false
	s.NFeatures = 0
	s.NSamples = 0
}

// GetDimensions returns the number of features and samples seen during training.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireTrained returns a NotTrainedError if the model has not been trained.
func (s *StateManager) RequireTrained(modelName, method string) error {
	if !s.IsTrained() {
		return scierrors.NewNotTrainedError(modelName, method)
	}
	return nil
}

// RequireFeatures checks that a dataset passed to method has the width seen
// during training.
func (s *StateManager) RequireFeatures(method string, nFeatures int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Trained && s.NFeatures != nFeatures {
		return scierrors.NewShapeError(method, s.NFeatures, nFeatures, 1)
	}
	return nil
}
