package contract

import (
	"context"

	"github.com/qualgate/qualgate/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is an autogenerated mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []interface{}
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// GetHeadSHA implements the GitClient interface.
func (m *MockGitClient) GetHeadSHA(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	sha, _ := ret.Get(0).(string)
	return sha, ret.Error(1)
}

// GetCurrentBranch implements the GitClient interface.
func (m *MockGitClient) GetCurrentBranch(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	branch, _ := ret.Get(0).(string)
	return branch, ret.Error(1)
}

// GetDiffNameStatus implements the GitClient interface.
func (m *MockGitClient) GetDiffNameStatus(ctx context.Context, repoPath string, baseRef, targetRef string) ([]DiffEntry, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	entries, _ := ret.Get(0).([]DiffEntry)
	return entries, ret.Error(1)
}

// MockToolRunner is an autogenerated mock type for the ToolRunner type.
type MockToolRunner struct {
	mock.Mock
}

var _ ToolRunner = &MockToolRunner{} // Compile-time check

// Run implements the ToolRunner interface.
func (m *MockToolRunner) Run(ctx context.Context, workdir string, argv []string) (ExecResult, error) {
	ret := m.Called(ctx, workdir, argv)
	res, _ := ret.Get(0).(ExecResult)
	return res, ret.Error(1)
}

// MockStateStore is an autogenerated mock type for the StateStore type.
type MockStateStore struct {
	mock.Mock
}

var _ StateStore = &MockStateStore{} // Compile-time check

// ParentBranch implements the StateStore interface.
func (m *MockStateStore) ParentBranch() (string, error) {
	ret := m.Called()
	branch, _ := ret.Get(0).(string)
	return branch, ret.Error(1)
}

// LoadBaseline implements the StateStore interface.
func (m *MockStateStore) LoadBaseline(branch string) (schema.BaselineRecord, error) {
	ret := m.Called(branch)
	rec, _ := ret.Get(0).(schema.BaselineRecord)
	return rec, ret.Error(1)
}

// SaveBaseline implements the StateStore interface.
func (m *MockStateStore) SaveBaseline(branch string, rec schema.BaselineRecord) error {
	ret := m.Called(branch, rec)
	return ret.Error(0)
}

// ResetBaseline implements the StateStore interface.
func (m *MockStateStore) ResetBaseline(branch string) error {
	ret := m.Called(branch)
	return ret.Error(0)
}
