package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/geotier/solver/pkg/model"
)

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// GetPendingJobs retrieves jobs that are pending solve.
func (r *GormJobRepository) GetPendingJobs(ctx context.Context, limit int) ([]*model.SolveJob, error) {
	var jobs []SolveJobRecord

	err := r.db.WithContext(ctx).
		Where("status = ?", model.JobStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	result := make([]*model.SolveJob, len(jobs))
	for i, j := range jobs {
		result[i] = j.ToModel()
	}

	return result, nil
}

// GetJobByID retrieves a job by its ID.
func (r *GormJobRepository) GetJobByID(ctx context.Context, id int64) (*model.SolveJob, error) {
	var job SolveJobRecord

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job.ToModel(), nil
}

// GetJobByUUID retrieves a job by its UUID.
func (r *GormJobRepository) GetJobByUUID(ctx context.Context, uuid string) (*model.SolveJob, error) {
	var job SolveJobRecord

	err := r.db.WithContext(ctx).Where("job_uuid = ?", uuid).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %s", uuid)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job.ToModel(), nil
}

// UpdateJobStatus updates the status of a job.
func (r *GormJobRepository) UpdateJobStatus(ctx context.Context, id int64, status model.JobStatus) error {
	result := r.db.WithContext(ctx).
		Model(&SolveJobRecord{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %d", id)
	}

	return nil
}

// UpdateJobStatusWithInfo updates the status with additional info.
func (r *GormJobRepository) UpdateJobStatusWithInfo(ctx context.Context, id int64, status model.JobStatus, info string) error {
	result := r.db.WithContext(ctx).
		Model(&SolveJobRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"status_info": info,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %d", id)
	}

	return nil
}

// LockJobForSolve attempts to lock a job for solving using FOR UPDATE, then
// immediately marks it running so concurrent pollers skip it.
func (r *GormJobRepository) LockJobForSolve(ctx context.Context, id int64) (bool, error) {
	locked := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job SolveJobRecord

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, model.JobStatusPending).
			First(&job).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&job).Updates(map[string]interface{}{
			"status":     model.JobStatusRunning,
			"begin_time": now,
		}).Error; err != nil {
			return err
		}

		locked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to lock job: %w", err)
	}

	return locked, nil
}

// GormResultRepository implements ResultRepository using GORM.
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GormResultRepository.
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// SaveResult saves a solve result to the database, replacing any existing
// result for the same job.
func (r *GormResultRepository) SaveResult(ctx context.Context, result *model.SolveResult) error {
	rec, err := SolveResultRecordFromModel(result)
	if err != nil {
		return fmt.Errorf("failed to encode solve result: %w", err)
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_uuid"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return fmt.Errorf("failed to save solve result: %w", err)
	}

	return nil
}

// GetResultByJobUUID retrieves the solve result for a job.
func (r *GormResultRepository) GetResultByJobUUID(ctx context.Context, jobUUID string) (*model.SolveResult, error) {
	var rec SolveResultRecord

	err := r.db.WithContext(ctx).Where("job_uuid = ?", jobUUID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("result not found for job: %s", jobUUID)
		}
		return nil, fmt.Errorf("failed to get solve result: %w", err)
	}

	return rec.ToModel()
}
