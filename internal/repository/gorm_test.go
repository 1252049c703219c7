package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/geotier/solver/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&SolveJobRecord{}, &SolveResultRecord{})
	require.NoError(t, err)

	return db
}

func TestGormJobRepository_GetPendingJobs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	t.Run("GetPendingJobs_Empty", func(t *testing.T) {
		jobs, err := repo.GetPendingJobs(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("GetPendingJobs_WithData", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-1",
			DCList:  3,
			SLA:     model.SLAModeEventual,
			Status:  model.JobStatusPending,
		}
		require.NoError(t, db.Create(job).Error)

		jobs, err := repo.GetPendingJobs(ctx, 10)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "test-uuid-1", jobs[0].JobUUID)
	})
}

func TestGormJobRepository_GetJobByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	t.Run("GetJobByID_NotFound", func(t *testing.T) {
		job, err := repo.GetJobByID(ctx, 999)
		assert.Error(t, err)
		assert.Nil(t, job)
		assert.Contains(t, err.Error(), "job not found")
	})

	t.Run("GetJobByID_Success", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-2",
			DCList:  3,
			SLA:     model.SLAModeStrong,
			Status:  model.JobStatusPending,
		}
		require.NoError(t, db.Create(job).Error)

		result, err := repo.GetJobByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "test-uuid-2", result.JobUUID)
	})
}

func TestGormJobRepository_GetJobByUUID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	t.Run("GetJobByUUID_NotFound", func(t *testing.T) {
		job, err := repo.GetJobByUUID(ctx, "nonexistent")
		assert.Error(t, err)
		assert.Nil(t, job)
		assert.Contains(t, err.Error(), "job not found")
	})

	t.Run("GetJobByUUID_Success", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-3",
			DCList:  3,
			SLA:     model.SLAModeEventual,
			Status:  model.JobStatusPending,
		}
		require.NoError(t, db.Create(job).Error)

		result, err := repo.GetJobByUUID(ctx, "test-uuid-3")
		require.NoError(t, err)
		assert.Equal(t, job.ID, result.ID)
	})
}

func TestGormJobRepository_UpdateJobStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	t.Run("UpdateStatus_NotFound", func(t *testing.T) {
		err := repo.UpdateJobStatus(ctx, 999, model.JobStatusCompleted)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "job not found")
	})

	t.Run("UpdateStatus_Success", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-4",
			DCList:  3,
			SLA:     model.SLAModeEventual,
			Status:  model.JobStatusPending,
		}
		require.NoError(t, db.Create(job).Error)

		err := repo.UpdateJobStatus(ctx, job.ID, model.JobStatusCompleted)
		require.NoError(t, err)

		var updated SolveJobRecord
		require.NoError(t, db.First(&updated, job.ID).Error)
		assert.Equal(t, model.JobStatusCompleted, updated.Status)
	})
}

func TestGormJobRepository_UpdateJobStatusWithInfo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	job := &SolveJobRecord{
		JobUUID: "test-uuid-5",
		DCList:  3,
		SLA:     model.SLAModeEventual,
		Status:  model.JobStatusPending,
	}
	require.NoError(t, db.Create(job).Error)

	err := repo.UpdateJobStatusWithInfo(ctx, job.ID, model.JobStatusFailed, "constraint violated")
	require.NoError(t, err)

	var updated SolveJobRecord
	require.NoError(t, db.First(&updated, job.ID).Error)
	assert.Equal(t, model.JobStatusFailed, updated.Status)
	assert.Equal(t, "constraint violated", updated.StatusInfo)
}

func TestGormJobRepository_LockJobForSolve(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJobRepository(db)
	ctx := context.Background()

	t.Run("Lock_NotFound", func(t *testing.T) {
		locked, err := repo.LockJobForSolve(ctx, 999)
		require.NoError(t, err)
		assert.False(t, locked)
	})

	t.Run("Lock_Success", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-6",
			DCList:  3,
			SLA:     model.SLAModeEventual,
			Status:  model.JobStatusPending,
		}
		require.NoError(t, db.Create(job).Error)

		locked, err := repo.LockJobForSolve(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, locked)

		var updated SolveJobRecord
		require.NoError(t, db.First(&updated, job.ID).Error)
		assert.Equal(t, model.JobStatusRunning, updated.Status)
	})

	t.Run("Lock_AlreadyRunning", func(t *testing.T) {
		job := &SolveJobRecord{
			JobUUID: "test-uuid-7",
			DCList:  3,
			SLA:     model.SLAModeEventual,
			Status:  model.JobStatusRunning,
		}
		require.NoError(t, db.Create(job).Error)

		locked, err := repo.LockJobForSolve(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, locked)
	})
}

func TestGormResultRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db)
	ctx := context.Background()

	t.Run("SaveResult_Success", func(t *testing.T) {
		result := &model.SolveResult{
			JobUUID:     "result-uuid-1",
			Cardinality: "4",
			Feasible:    true,
			OptimalCost: 12.5,
			Optimal:     []model.Placement{},
			Ranked:      []model.RankedPlacement{},
		}

		err := repo.SaveResult(ctx, result)
		require.NoError(t, err)
	})

	t.Run("GetResultByJobUUID_Success", func(t *testing.T) {
		result, err := repo.GetResultByJobUUID(ctx, "result-uuid-1")
		require.NoError(t, err)
		assert.Equal(t, "result-uuid-1", result.JobUUID)
		assert.Equal(t, "4", result.Cardinality)
	})

	t.Run("GetResultByJobUUID_NotFound", func(t *testing.T) {
		result, err := repo.GetResultByJobUUID(ctx, "nonexistent")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "result not found")
	})

	t.Run("SaveResult_OverwritesExisting", func(t *testing.T) {
		result := &model.SolveResult{
			JobUUID:     "result-uuid-1",
			Cardinality: "9",
			Feasible:    true,
			OptimalCost: 3.0,
			Optimal:     []model.Placement{},
			Ranked:      []model.RankedPlacement{},
		}

		err := repo.SaveResult(ctx, result)
		require.NoError(t, err)

		updated, err := repo.GetResultByJobUUID(ctx, "result-uuid-1")
		require.NoError(t, err)
		assert.Equal(t, "9", updated.Cardinality)
		assert.Equal(t, 3.0, updated.OptimalCost)
	})
}
