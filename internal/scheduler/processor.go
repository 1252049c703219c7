package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/geotier/solver/internal/repository"
	"github.com/geotier/solver/internal/storage"
	"github.com/geotier/solver/pkg/config"
	apperrors "github.com/geotier/solver/pkg/errors"
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/utils"
)

// Solver runs the symbolic solve pipeline for a single job. internal/service
// implements this against the gdss/encode/constraint/zdd/eval/enumerate
// stack; it is an interface here so the processor doesn't import service
// (which itself owns the scheduler).
type Solver interface {
	Solve(ctx context.Context, job *model.SolveJob) (*model.SolveResult, error)
}

// DefaultTaskProcessor implements TaskProcessor by running a job through
// the solver and persisting its result.
type DefaultTaskProcessor struct {
	config  *config.Config
	storage storage.Storage
	repos   *repository.Repositories
	solver  Solver
	logger  utils.Logger
}

// ProcessorConfig holds processor configuration.
type ProcessorConfig struct {
	Config  *config.Config
	Storage storage.Storage
	Repos   *repository.Repositories
	Solver  Solver
	Logger  utils.Logger
}

// NewDefaultTaskProcessor creates a new DefaultTaskProcessor.
func NewDefaultTaskProcessor(cfg *ProcessorConfig) *DefaultTaskProcessor {
	if cfg.Logger == nil {
		cfg.Logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &DefaultTaskProcessor{
		config:  cfg.Config,
		storage: cfg.Storage,
		repos:   cfg.Repos,
		solver:  cfg.Solver,
		logger:  cfg.Logger,
	}
}

// Process runs one solve job to completion: solve, persist the result,
// upload any export artifacts, and update the job's final status.
func (p *DefaultTaskProcessor) Process(ctx context.Context, job *model.SolveJob) error {
	p.logger.Info("Starting solve for job %s (SLA: %s, getconfig: %d)",
		job.JobUUID, job.SLA, job.GetConfigN)

	result, err := p.solver.Solve(ctx, job)
	if err != nil && !apperrors.IsSolveInfeasible(err) {
		if statusErr := p.repos.Job.UpdateJobStatusWithInfo(ctx, job.ID, model.JobStatusFailed, err.Error()); statusErr != nil {
			p.logger.Warn("Failed to mark job %d failed: %v", job.ID, statusErr)
		}
		return fmt.Errorf("solve failed: %w", err)
	}

	if result != nil {
		if uploadErr := p.uploadArtifacts(ctx, job, result); uploadErr != nil {
			p.logger.Warn("Failed to upload export artifacts for job %s: %v", job.JobUUID, uploadErr)
		}

		if saveErr := p.repos.Result.SaveResult(ctx, result); saveErr != nil {
			return fmt.Errorf("failed to save solve result: %w", saveErr)
		}
	}

	statusInfo := ""
	if errors.Is(err, apperrors.ErrSolveInfeasible) {
		p.logger.Info("Job %s has no feasible placement", job.JobUUID)
		statusInfo = err.Error()
	}

	if statusErr := p.repos.Job.UpdateJobStatusWithInfo(ctx, job.ID, model.JobStatusCompleted, statusInfo); statusErr != nil {
		return fmt.Errorf("failed to update job status: %w", statusErr)
	}

	p.logger.Info("Job %s solve completed successfully", job.JobUUID)
	return nil
}

// uploadArtifacts uploads the locally staged export/DOT files to object
// storage and rewrites the result's paths to the uploaded keys.
func (p *DefaultTaskProcessor) uploadArtifacts(ctx context.Context, job *model.SolveJob, result *model.SolveResult) error {
	if p.storage == nil {
		return nil
	}

	if result.ExportPath != "" {
		key := fmt.Sprintf("%s/solution.zdd.zst", job.JobUUID)
		if err := p.storage.UploadFile(ctx, key, result.ExportPath); err != nil {
			return fmt.Errorf("failed to upload zdd export: %w", err)
		}
		result.ExportPath = key
	}

	if result.DotPath != "" {
		key := fmt.Sprintf("%s/solution.dot", job.JobUUID)
		if err := p.storage.UploadFile(ctx, key, result.DotPath); err != nil {
			return fmt.Errorf("failed to upload dot graph: %w", err)
		}
		result.DotPath = key
	}

	if result.SummaryPath != "" {
		key := fmt.Sprintf("%s/summary.json", job.JobUUID)
		if err := p.storage.UploadFile(ctx, key, result.SummaryPath); err != nil {
			return fmt.Errorf("failed to upload result summary: %w", err)
		}
		result.SummaryPath = key
	}

	return nil
}
