package artifactlog

import (
	"time"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
	"github.com/stretchr/testify/mock"
)

// MockArtifactManager is a mock implementation of ArtifactManager for testing.
type MockArtifactManager struct {
	mock.Mock
}

var _ contract.ArtifactManager = &MockArtifactManager{} // Compile-time check

// GetArtifactStore implements the ArtifactManager interface.
func (m *MockArtifactManager) GetArtifactStore() contract.ArtifactStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ArtifactStore)
	return store
}

// MockArtifactStore is a mock implementation of ArtifactStore for testing.
type MockArtifactStore struct {
	mock.Mock
}

var _ contract.ArtifactStore = &MockArtifactStore{} // Compile-time check

// BeginRun implements the ArtifactStore interface.
func (m *MockArtifactStore) BeginRun(startTime time.Time, requestedScope, effectiveScope string, fileCount int) (int64, error) {
	args := m.Called(startTime, requestedScope, effectiveScope, fileCount)
	return args.Get(0).(int64), args.Error(1)
}

// RecordGateExecution implements the ArtifactStore interface.
func (m *MockArtifactStore) RecordGateExecution(runID int64, gateID, commandLine string, exitCode int, rawOutput string, durationMs int64) error {
	args := m.Called(runID, gateID, commandLine, exitCode, rawOutput, durationMs)
	return args.Error(0)
}

// EndRun implements the ArtifactStore interface.
func (m *MockArtifactStore) EndRun(runID int64, endTime time.Time, overallPass bool) error {
	args := m.Called(runID, endTime, overallPass)
	return args.Error(0)
}

// GetAllRunRecords implements the ArtifactStore interface.
func (m *MockArtifactStore) GetAllRunRecords() ([]schema.ArtifactRunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ArtifactRunRecord)
	return records, args.Error(1)
}

// GetAllGateRecords implements the ArtifactStore interface.
func (m *MockArtifactStore) GetAllGateRecords() ([]schema.ArtifactGateRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ArtifactGateRecord)
	return records, args.Error(1)
}

// GetStatus implements the ArtifactStore interface.
func (m *MockArtifactStore) GetStatus() (schema.ArtifactStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ArtifactStatus), args.Error(1)
}

// Clear implements the ArtifactStore interface.
func (m *MockArtifactStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the ArtifactStore interface.
func (m *MockArtifactStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
