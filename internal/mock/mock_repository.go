package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/geotier/solver/pkg/model"
)

// MockJobRepository is a mock implementation of the JobRepository interface.
type MockJobRepository struct {
	mock.Mock
}

// GetPendingJobs mocks the GetPendingJobs method.
func (m *MockJobRepository) GetPendingJobs(ctx context.Context, limit int) ([]*model.SolveJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SolveJob), args.Error(1)
}

// GetJobByID mocks the GetJobByID method.
func (m *MockJobRepository) GetJobByID(ctx context.Context, id int64) (*model.SolveJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SolveJob), args.Error(1)
}

// GetJobByUUID mocks the GetJobByUUID method.
func (m *MockJobRepository) GetJobByUUID(ctx context.Context, uuid string) (*model.SolveJob, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SolveJob), args.Error(1)
}

// UpdateJobStatus mocks the UpdateJobStatus method.
func (m *MockJobRepository) UpdateJobStatus(ctx context.Context, id int64, status model.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// UpdateJobStatusWithInfo mocks the UpdateJobStatusWithInfo method.
func (m *MockJobRepository) UpdateJobStatusWithInfo(ctx context.Context, id int64, status model.JobStatus, info string) error {
	args := m.Called(ctx, id, status, info)
	return args.Error(0)
}

// LockJobForSolve mocks the LockJobForSolve method.
func (m *MockJobRepository) LockJobForSolve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ExpectGetPendingJobs sets up an expectation for GetPendingJobs.
func (m *MockJobRepository) ExpectGetPendingJobs(limit int, jobs []*model.SolveJob, err error) *mock.Call {
	return m.On("GetPendingJobs", mock.Anything, limit).Return(jobs, err)
}

// ExpectUpdateJobStatus sets up an expectation for UpdateJobStatus.
func (m *MockJobRepository) ExpectUpdateJobStatus(id int64, status model.JobStatus, err error) *mock.Call {
	return m.On("UpdateJobStatus", mock.Anything, id, status).Return(err)
}

// ExpectLockJobForSolve sets up an expectation for LockJobForSolve.
func (m *MockJobRepository) ExpectLockJobForSolve(id int64, success bool, err error) *mock.Call {
	return m.On("LockJobForSolve", mock.Anything, id).Return(success, err)
}

// MockResultRepository is a mock implementation of the ResultRepository interface.
type MockResultRepository struct {
	mock.Mock
}

// SaveResult mocks the SaveResult method.
func (m *MockResultRepository) SaveResult(ctx context.Context, result *model.SolveResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// GetResultByJobUUID mocks the GetResultByJobUUID method.
func (m *MockResultRepository) GetResultByJobUUID(ctx context.Context, jobUUID string) (*model.SolveResult, error) {
	args := m.Called(ctx, jobUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SolveResult), args.Error(1)
}

// ExpectSaveResult sets up an expectation for SaveResult.
func (m *MockResultRepository) ExpectSaveResult(err error) *mock.Call {
	return m.On("SaveResult", mock.Anything, mock.Anything).Return(err)
}
