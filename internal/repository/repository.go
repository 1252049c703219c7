// Package repository provides database abstraction for the solver service.
package repository

import (
	"context"

	"github.com/geotier/solver/pkg/model"
)

// JobRepository defines the interface for solve-job database operations.
type JobRepository interface {
	// GetPendingJobs retrieves jobs that are pending solve.
	GetPendingJobs(ctx context.Context, limit int) ([]*model.SolveJob, error)

	// GetJobByID retrieves a job by its ID.
	GetJobByID(ctx context.Context, id int64) (*model.SolveJob, error)

	// GetJobByUUID retrieves a job by its UUID.
	GetJobByUUID(ctx context.Context, uuid string) (*model.SolveJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, id int64, status model.JobStatus) error

	// UpdateJobStatusWithInfo updates the status with additional info.
	UpdateJobStatusWithInfo(ctx context.Context, id int64, status model.JobStatus, info string) error

	// LockJobForSolve attempts to lock a job for solving (prevents concurrent processing).
	LockJobForSolve(ctx context.Context, id int64) (bool, error)
}

// ResultRepository defines the interface for solve-result operations.
type ResultRepository interface {
	// SaveResult saves a solve result to the database.
	SaveResult(ctx context.Context, result *model.SolveResult) error

	// GetResultByJobUUID retrieves the solve result for a job.
	GetResultByJobUUID(ctx context.Context, jobUUID string) (*model.SolveResult, error)
}
